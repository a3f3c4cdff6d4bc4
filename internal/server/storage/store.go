// Package storage persists the two logical documents of the site — the user
// database (including the public message) and the chat log — behind a small
// Store interface. The default backend writes JSON files; a Postgres backend
// is selected by DSN. Writes are whole-snapshot and driven by the server's
// snapshot loop, not per-mutation.
package storage

import (
	"context"
	"strings"

	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/users"
)

type Store interface {
	// LoadUsers returns the persisted user snapshot, or (nil, nil) when no
	// state exists yet and the caller should seed defaults.
	LoadUsers(ctx context.Context) (*users.Snapshot, error)
	SaveUsers(ctx context.Context, snap *users.Snapshot) error

	// LoadMessages returns the persisted chat history in append order, or
	// (nil, nil) when no state exists yet.
	LoadMessages(ctx context.Context) ([]chat.Message, error)
	SaveMessages(ctx context.Context, messages []chat.Message) error

	Close() error
}

// Open selects a backend: a Postgres DSN gets the database store, anything
// else falls back to JSON files under dataDir. Two processes must never
// share one data directory.
func Open(ctx context.Context, databaseDSN, dataDir string) (Store, error) {
	if strings.HasPrefix(databaseDSN, "postgres://") || strings.HasPrefix(databaseDSN, "postgresql://") {
		return NewPostgresStore(ctx, databaseDSN)
	}
	return NewFileStore(dataDir)
}
