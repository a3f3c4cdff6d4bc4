// Package chat implements the real-time chat subsystem: a durable append-only
// message log, an in-process broadcast bus, and the service that composes the
// two into replay-then-live subscriptions.
package chat

import "time"

// Message is immutable once created. Display identity is not stored; it is
// resolved from the sender's user record whenever the message is rendered.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	SentBy      string    `json:"sentBy"`
	Timestamp   time.Time `json:"timestamp"`
	IsAnonymous bool      `json:"isAnonymous"`
}
