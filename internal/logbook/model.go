package logbook

import (
	"fmt"
	"math/rand"
	"time"
)

// Entry is one row in the daily activity log. A single entry may represent
// several submissions merged together; DisplayTime carries a trailing marker
// when it does.
type Entry struct {
	ID            string   `json:"id"`
	Subject       string   `json:"subject"`
	Activities    []string `json:"activities"`
	DisplayTime   string   `json:"displayTime"`
	TimestampMs   int64    `json:"timestampMs"`
	OriginalMs    int64    `json:"originalTimestampMs"`
	LastUpdatedMs int64    `json:"lastUpdatedMs,omitempty"`
	DateKey       string   `json:"dateKey"`
	DeviceID      string   `json:"deviceId,omitempty"`

	// RemoteRef is the identity the remote store assigned on push. Empty
	// until the first push confirms; updates and deletes fall back to ID
	// and then (TimestampMs, Subject) matching while it is empty.
	RemoteRef string `json:"remoteRef,omitempty"`
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newEntryID(now time.Time) string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("log_%d_%s", now.UnixMilli(), suffix)
}

// NewEntry creates a fresh entry for a single submission at the given moment.
func NewEntry(subject string, activities []string, now time.Time, deviceID string) *Entry {
	ms := now.UnixMilli()
	return &Entry{
		ID:          newEntryID(now),
		Subject:     subject,
		Activities:  append([]string(nil), activities...),
		DisplayTime: Clock12(now),
		TimestampMs: ms,
		OriginalMs:  ms,
		DateKey:     DateKey(now),
		DeviceID:    deviceID,
	}
}

// Merged reports whether the entry represents more than one submission.
func (e *Entry) Merged() bool {
	return len(e.DisplayTime) > 0 && e.DisplayTime[len(e.DisplayTime)-1:] == MergedMarker
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Activities = append([]string(nil), e.Activities...)
	return &c
}
