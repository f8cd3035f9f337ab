package remote

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pretzelday/daylog/internal/logbook"
)

// subscription is a live websocket feed for one date key.
type subscription struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	once   sync.Once
}

// Cancel closes the feed. Safe to call more than once.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.Close()
	})
}

// Subscribe opens the change feed for dateKey and invokes fn for every event
// until the subscription is cancelled or the connection drops. The server
// replays the day's current records as "added" events first.
func (c *Client) Subscribe(ctx context.Context, dateKey string, fn func(logbook.Change)) (logbook.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.feedURL(dateKey), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe %s: %w", dateKey, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	sub := &subscription{conn: conn, cancel: cancel}

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	go func() {
		defer sub.Cancel()
		for {
			var change logbook.Change
			if err := conn.ReadJSON(&change); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Warn("feed read error", "dateKey", dateKey, "error", err)
				}
				return
			}
			fn(change)
		}
	}()

	return sub, nil
}

func (c *Client) feedURL(dateKey string) string {
	url := fmt.Sprintf("%s/api/days/%s/feed", c.baseURL, dateKey)
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	return "ws://" + strings.TrimPrefix(url, "http://")
}
