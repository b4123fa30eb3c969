package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketDriver sends one message per invocation over a persistent
// connection dialed once at construction, and reads one reply.
type WebSocketDriver struct {
	mu   sync.Mutex
	conn *websocket.Conn
	url  string
}

// NewWebSocketDriver is a driver.Constructor for type "websocket".
func NewWebSocketDriver(args map[string]any) (Driver, error) {
	url, _ := args["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("websocket driver: args.url is required")
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket driver: dial %s: %w", url, err)
	}
	return &WebSocketDriver{conn: conn, url: url}, nil
}

// Name returns a stable display name for the invocation.
func (d *WebSocketDriver) Name(req any) string {
	return "websocket " + d.url
}

// Do sends req as a text frame and returns the first reply frame as a
// string. Only one invocation may use the connection at a time.
func (d *WebSocketDriver) Do(ctx context.Context, req any) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	payload := fmt.Sprint(req)
	if s, ok := req.(string); ok {
		payload = s
	}

	if err := d.conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		return nil, fmt.Errorf("websocket write: %w", err)
	}

	type result struct {
		body string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		_, msg, err := d.conn.ReadMessage()
		done <- result{string(msg), err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("websocket read: %w", r.err)
		}
		return r.body, nil
	}
}

// Close releases the underlying connection.
func (d *WebSocketDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn.Close()
}
