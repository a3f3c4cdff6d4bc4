package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/protocol"
)

// NameResolver maps a sender to the name shown for a message. The users
// service satisfies this.
type NameResolver interface {
	DisplayName(userID string, anonymous bool) string
}

// Service validates and appends messages, and hands out replay-then-live
// subscriptions with display identity resolved at yield time.
type Service struct {
	log      *Log
	resolver NameResolver
}

func NewService(log *Log, resolver NameResolver) *Service {
	return &Service{log: log, resolver: resolver}
}

func (s *Service) Log() *Log {
	return s.log
}

// Send validates the text bound and appends a message on behalf of userID.
func (s *Service) Send(ctx context.Context, userID, text string, anonymous bool) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty message", common.ErrValidation)
	}
	if utf8.RuneCountInString(text) > common.MaxChatMessageLength {
		return fmt.Errorf("%w: message exceeds %d characters", common.ErrValidation, common.MaxChatMessageLength)
	}

	s.log.Append(Message{
		ID:          uuid.NewString(),
		Text:        text,
		SentBy:      userID,
		Timestamp:   time.Now(),
		IsAnonymous: anonymous,
	})
	return nil
}

// Subscribe returns the replay batch (already resolved) and a live
// subscription. The caller must Unsubscribe when the stream ends.
func (s *Service) Subscribe() ([]protocol.ChatMessage, *Subscription) {
	replay, sub := s.log.Subscribe()

	resolved := make([]protocol.ChatMessage, len(replay))
	for i, m := range replay {
		resolved[i] = s.Resolve(m)
	}
	return resolved, sub
}

func (s *Service) Unsubscribe(sub *Subscription) {
	s.log.Unsubscribe(sub)
}

// Resolve renders a stored message for delivery, resolving the display name
// at this moment rather than at send time.
func (s *Service) Resolve(m Message) protocol.ChatMessage {
	return protocol.ChatMessage{
		Text:        m.Text,
		SentBy:      m.SentBy,
		DisplayName: s.resolver.DisplayName(m.SentBy, m.IsAnonymous),
		Timestamp:   m.Timestamp,
		IsAnonymous: m.IsAnonymous,
	}
}
