package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/lumenfest/lumen/internal/protocol"
	"github.com/lumenfest/lumen/internal/server/chat"
)

// handleChatSubscribe upgrades to a websocket and streams chat events: one
// onSubscribe frame with the replay batch, then one onMessage frame per
// append. Replay and live attachment are atomic in the chat log, so the
// stream has no gap and no duplicate at the boundary.
func (a *API) handleChatSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		a.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	replay, sub := a.chat.Subscribe()
	defer a.chat.Unsubscribe(sub)

	a.metrics.ActiveSubscriptions.Inc()
	defer a.metrics.ActiveSubscriptions.Dec()

	if err := conn.WriteJSON(protocol.ChatEvent{
		Kind:     protocol.ChatEventSubscribe,
		Messages: replay,
	}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client frames so pings are answered and a close ends the stream.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		m, err := sub.Next(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, chat.ErrSubscriptionClosed) {
				a.logger.Warn(ctx, "subscription ended", "error", err)
			}
			return
		}
		resolved := a.chat.Resolve(m)
		if err := conn.WriteJSON(protocol.ChatEvent{
			Kind:    protocol.ChatEventMessage,
			Message: &resolved,
		}); err != nil {
			return
		}
	}
}
