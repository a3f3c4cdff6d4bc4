package chat

import (
	"sync"

	"github.com/lumenfest/lumen/internal/common"
)

// Log is the in-memory ordered chat history, mirrored to disk by the
// snapshot loop. Append publishes to the bus under the log lock, so every
// subscription observes the exact append order, and Subscribe takes its
// replay snapshot under the same lock, so the replay/live boundary has no
// gap and no duplicate.
type Log struct {
	mu       sync.Mutex
	messages []Message
	bus      *Bus

	gen      uint64
	savedGen uint64
}

func NewLog() *Log {
	return &Log{bus: NewBus()}
}

// Seed replaces the log content from persisted state. Startup only.
func (l *Log) Seed(messages []Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append([]Message(nil), messages...)
	l.savedGen = l.gen
}

// Append adds the message to the history and broadcasts it. It never blocks
// on persistence; the snapshot loop picks the change up via the dirty flag.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
	l.gen++
	l.bus.Publish(m)
}

// Subscribe atomically snapshots the most recent messages (up to the replay
// cap) and attaches a live listener. The caller must Unsubscribe when done.
func (l *Log) Subscribe() ([]Message, *Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if len(l.messages) > common.ChatReplayLimit {
		start = len(l.messages) - common.ChatReplayLimit
	}
	replay := append([]Message(nil), l.messages[start:]...)

	return replay, l.bus.Attach()
}

func (l *Log) Unsubscribe(sub *Subscription) {
	l.bus.Detach(sub)
}

func (l *Log) Subscribers() int {
	return l.bus.Subscribers()
}

// Snapshot returns a copy of the full history and the current generation for
// the dirty-tracking handshake with the snapshot loop.
func (l *Log) Snapshot() ([]Message, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...), l.gen
}

func (l *Log) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen != l.savedGen
}

func (l *Log) MarkSaved(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen > l.savedGen {
		l.savedGen = gen
	}
}

// Len reports the number of messages ever appended (the log never deletes).
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
