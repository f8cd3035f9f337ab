// Package remote implements the logbook.RemoteStore interface against the
// syncd HTTP API and its websocket change feed.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pretzelday/daylog/internal/logbook"
)

const requestTimeout = 10 * time.Second

// Client talks to a syncd instance.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type mutatePayload struct {
	Ref    string        `json:"ref,omitempty"`
	Record logbook.Entry `json:"record"`
}

type pushResponse struct {
	Ref string `json:"ref"`
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Push uploads a new record and returns the ref the server assigned.
func (c *Client) Push(ctx context.Context, dateKey string, e logbook.Entry) (string, error) {
	var resp pushResponse
	if err := c.do(ctx, http.MethodPost, c.logsURL(dateKey), e, &resp); err != nil {
		return "", fmt.Errorf("push: %w", err)
	}
	return resp.Ref, nil
}

// Update overwrites the remote record matching the entry's identity.
func (c *Client) Update(ctx context.Context, dateKey string, e logbook.Entry) error {
	payload := mutatePayload{Ref: e.RemoteRef, Record: e}
	if err := c.do(ctx, http.MethodPut, c.logsURL(dateKey), payload, nil); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Remove deletes the remote record matching the entry's identity.
func (c *Client) Remove(ctx context.Context, dateKey string, e logbook.Entry) error {
	payload := mutatePayload{Ref: e.RemoteRef, Record: e}
	if err := c.do(ctx, http.MethodDelete, c.logsURL(dateKey), payload, nil); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// List fetches all records for a date, with their refs bound.
func (c *Client) List(ctx context.Context, dateKey string) ([]*logbook.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.logsURL(dateKey), nil)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list: server returned %s", resp.Status)
	}

	var stored []mutatePayload
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("list: decode response: %w", err)
	}
	out := make([]*logbook.Entry, 0, len(stored))
	for _, st := range stored {
		e := st.Record
		e.RemoteRef = st.Ref
		out = append(out, &e)
	}
	return out, nil
}

func (c *Client) logsURL(dateKey string) string {
	return fmt.Sprintf("%s/api/days/%s/logs", c.baseURL, dateKey)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return nil
}
