package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenfest/lumen/internal/common"
)

type stubResolver struct {
	mu    sync.Mutex
	names map[string]string
}

func (r *stubResolver) DisplayName(userID string, anonymous bool) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if anonymous {
		return r.names[userID]
	}
	return userID
}

func (r *stubResolver) set(userID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[userID] = name
}

func newTestService() (*Service, *stubResolver) {
	r := &stubResolver{names: map[string]string{"u1": "silver-comet-7"}}
	return NewService(NewLog(), r), r
}

func collect(t *testing.T, sub *Subscription, n int) []Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out := make([]Message, 0, n)
	for len(out) < n {
		m, err := sub.Next(ctx)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func TestReplayThenLiveOrdering(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "u1", "M1", false))

	// Subscription opened after M1 and before M2.
	replay, sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	require.Len(t, replay, 1)
	assert.Equal(t, "M1", replay[0].Text)

	require.NoError(t, s.Send(ctx, "u1", "M2", false))
	require.NoError(t, s.Send(ctx, "u1", "M3", false))

	live := collect(t, sub, 2)
	assert.Equal(t, "M2", live[0].Text)
	assert.Equal(t, "M3", live[1].Text)
}

func TestSubscribeBeforeAnyMessages(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	replay, sub := s.Subscribe()
	defer s.Unsubscribe(sub)
	assert.Empty(t, replay)

	for _, text := range []string{"M1", "M2", "M3"} {
		require.NoError(t, s.Send(ctx, "u1", text, false))
	}

	live := collect(t, sub, 3)
	assert.Equal(t, "M1", live[0].Text)
	assert.Equal(t, "M2", live[1].Text)
	assert.Equal(t, "M3", live[2].Text)
}

func TestBroadcastFanOut(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, fast := s.Subscribe()
	defer s.Unsubscribe(fast)
	_, slow := s.Subscribe()
	defer s.Unsubscribe(slow)

	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, s.Send(ctx, "u1", fmt.Sprintf("m%03d", i), false))
	}

	// The fast consumer drains immediately; the slow one drains afterwards.
	// Both must see every message exactly once, in the same order.
	fastMsgs := collect(t, fast, n)
	slowMsgs := collect(t, slow, n)

	for i := 0; i < n; i++ {
		want := fmt.Sprintf("m%03d", i)
		assert.Equal(t, want, fastMsgs[i].Text)
		assert.Equal(t, want, slowMsgs[i].Text)
	}
}

func TestSlowConsumerDoesNotBlockProducer(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	// Never read from this subscription.
	_, stuck := s.Subscribe()
	defer s.Unsubscribe(stuck)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			_ = s.Send(ctx, "u1", "x", false)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer blocked by a slow consumer")
	}
}

func TestReplayCap(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	total := common.ChatReplayLimit + 20
	for i := 0; i < total; i++ {
		require.NoError(t, s.Send(ctx, "u1", fmt.Sprintf("m%d", i), false))
	}

	replay, sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	require.Len(t, replay, common.ChatReplayLimit)
	assert.Equal(t, "m20", replay[0].Text, "replay keeps the most recent messages")
	assert.Equal(t, fmt.Sprintf("m%d", total-1), replay[len(replay)-1].Text)
	assert.Equal(t, total, s.Log().Len(), "the log itself is never truncated")
}

func TestUnsubscribeDetachesListener(t *testing.T) {
	s, _ := newTestService()

	_, sub := s.Subscribe()
	assert.Equal(t, 1, s.Log().Subscribers())

	s.Unsubscribe(sub)
	assert.Equal(t, 0, s.Log().Subscribers())

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestSendValidation(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	err := s.Send(ctx, "u1", strings.Repeat("a", common.MaxChatMessageLength+1), false)
	assert.ErrorIs(t, err, common.ErrValidation)

	err = s.Send(ctx, "u1", "   ", false)
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.NoError(t, s.Send(ctx, "u1", strings.Repeat("a", common.MaxChatMessageLength), false))
	assert.Equal(t, 1, s.Log().Len())
}

// The length bound counts runes; a multibyte message at the limit is longer
// in bytes but still valid.
func TestSendLengthCountsRunes(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	assert.NoError(t, s.Send(ctx, "u1", strings.Repeat("ß", common.MaxChatMessageLength), false))
	assert.ErrorIs(t, s.Send(ctx, "u1", strings.Repeat("ß", common.MaxChatMessageLength+1), false), common.ErrValidation)
	assert.Equal(t, 1, s.Log().Len())
}

func TestDisplayIdentityResolvedAtYieldTime(t *testing.T) {
	s, r := newTestService()
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "u1", "hello", true))

	// Name changes after the message was sent; replay reflects the new name.
	r.set("u1", "violet-nova-3")

	replay, sub := s.Subscribe()
	defer s.Unsubscribe(sub)
	require.Len(t, replay, 1)
	assert.Equal(t, "violet-nova-3", replay[0].DisplayName)
}

func TestSeedSnapshotRoundTrip(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "u1", "first", false))
	require.NoError(t, s.Send(ctx, "u1", "second", true))

	snap, gen := s.Log().Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, s.Log().Dirty())
	s.Log().MarkSaved(gen)
	assert.False(t, s.Log().Dirty())

	restored := NewLog()
	restored.Seed(snap)
	replay, sub := restored.Subscribe()
	defer restored.Unsubscribe(sub)

	require.Len(t, replay, 2)
	assert.Equal(t, "first", replay[0].Text)
	assert.Equal(t, "second", replay[1].Text)
	assert.True(t, replay[1].IsAnonymous)
	assert.False(t, restored.Dirty())
}

func TestConcurrentSubscribersSeeAppendOrder(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	const subscribers = 8
	const n = 100

	subs := make([]*Subscription, subscribers)
	for i := range subs {
		_, subs[i] = s.Subscribe()
	}
	defer func() {
		for _, sub := range subs {
			s.Unsubscribe(sub)
		}
	}()

	var wg sync.WaitGroup
	results := make([][]Message, subscribers)
	for i := range subs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for len(results[i]) < n {
				m, err := subs[i].Next(ctx)
				if err != nil {
					return
				}
				results[i] = append(results[i], m)
			}
		}(i)
	}

	for i := 0; i < n; i++ {
		require.NoError(t, s.Send(ctx, "u1", fmt.Sprintf("m%03d", i), false))
	}
	wg.Wait()

	for i := 0; i < subscribers; i++ {
		require.Len(t, results[i], n)
		for j := 0; j < n; j++ {
			assert.Equal(t, fmt.Sprintf("m%03d", j), results[i][j].Text)
		}
	}
}
