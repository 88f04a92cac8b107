package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// FeedURL converts an intake base or submission URL into its feed URL
func FeedURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid intake URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("intake URL has no host")
	}

	base := strings.TrimSuffix(u.Path, "/")
	base = strings.TrimSuffix(base, SubmitPath)
	base = strings.TrimSuffix(base, "/feed")
	u.Path = base + "/feed"
	u.RawQuery = ""
	return u.String(), nil
}

// Watch subscribes to the feed at rawURL and calls fn for every event
// until ctx is cancelled or the connection drops.
func Watch(ctx context.Context, rawURL string, fn func(Event)) error {
	feed, err := FeedURL(rawURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feed, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", feed, err)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("feed closed: %w", err)
		}
		fn(ev)
	}
}
