package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/protocol"
)

// Subscribe opens the chat stream. The returned channel yields the initial
// onSubscribe replay frame followed by live onMessage frames, and is closed
// when the context is cancelled or the connection drops.
func (c *Client) Subscribe(ctx context.Context) (<-chan protocol.ChatEvent, error) {
	url := websocketURL(c.baseURL) + "/api/chat/subscribe"

	header := http.Header{}
	if c.sessionID != "" {
		header.Set("Cookie", common.SessionCookieName+"="+c.sessionID)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, decodeError(resp)
		}
		return nil, err
	}
	resp.Body.Close()

	events := make(chan protocol.ChatEvent)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var ev protocol.ChatEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func websocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
