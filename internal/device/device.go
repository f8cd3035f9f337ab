// Package device manages the stable per-installation identity and small
// per-device preferences, persisted under the client state directory.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	idFile      = "device-id"
	subjectFile = "subject"
)

// Identity returns the installation's device id, generating and persisting
// one on first use.
func Identity(stateDir string) (string, error) {
	path := filepath.Join(stateDir, idFile)
	if raw, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	id := "device_" + uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}

// PreferredSubject returns the last subject used on this device, or empty.
func PreferredSubject(stateDir string) string {
	raw, err := os.ReadFile(filepath.Join(stateDir, subjectFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// SavePreferredSubject remembers the subject for the next invocation.
// Best-effort; failures are ignored.
func SavePreferredSubject(stateDir, subject string) {
	if subject == "" {
		return
	}
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(stateDir, subjectFile), []byte(subject+"\n"), 0o600)
}
