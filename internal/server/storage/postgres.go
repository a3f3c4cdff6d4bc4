package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/storage/migrations"
	"github.com/lumenfest/lumen/internal/server/users"
)

// PostgresStore persists the site documents in Postgres. Records are stored
// as JSONB documents keyed by id, so the schema never has to chase the Go
// structs. Chat rows carry a sequence column to preserve append order.
type PostgresStore struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

func (s *PostgresStore) LoadUsers(ctx context.Context) (*users.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM site_users`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var list []*users.User
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		var u users.User
		if err := json.Unmarshal(doc, &u); err != nil {
			return nil, fmt.Errorf("decoding user row: %w", err)
		}
		list = append(list, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	var public users.PublicMessage
	havePublic := true
	var doc []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM public_message WHERE id = 1`).Scan(&doc)
	switch {
	case err == sql.ErrNoRows:
		havePublic = false
	case err != nil:
		return nil, fmt.Errorf("querying public message: %w", err)
	default:
		if err := json.Unmarshal(doc, &public); err != nil {
			return nil, fmt.Errorf("decoding public message: %w", err)
		}
	}

	if len(list) == 0 && !havePublic {
		return nil, nil
	}
	return &users.Snapshot{Users: list, PublicMessage: public}, nil
}

func (s *PostgresStore) SaveUsers(ctx context.Context, snap *users.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range snap.Users {
		doc, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encoding user %s: %w", u.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO site_users (id, doc) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, u.ID, doc)
		if err != nil {
			return fmt.Errorf("upserting user %s: %w", u.ID, err)
		}
	}

	doc, err := json.Marshal(snap.PublicMessage)
	if err != nil {
		return fmt.Errorf("encoding public message: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO public_message (id, doc) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, doc)
	if err != nil {
		return fmt.Errorf("upserting public message: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) LoadMessages(ctx context.Context) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM chat_messages ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		var m chat.Message
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decoding message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}

// SaveMessages inserts new rows only. The chat log is append-only, so rows
// already present are left untouched.
func (s *PostgresStore) SaveMessages(ctx context.Context, messages []chat.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range messages {
		doc, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encoding message %s: %w", m.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chat_messages (id, doc) VALUES ($1, $2)
			 ON CONFLICT (id) DO NOTHING`, m.ID, doc)
		if err != nil {
			return fmt.Errorf("inserting message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Close() error { return s.db.Close() }
