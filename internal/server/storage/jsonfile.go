package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/users"
)

const (
	usersFileName = "users.json"
	chatFileName  = "chat.json"
)

// FileStore keeps the user database and the chat log in two JSON files.
// Saves go through a temp file and rename so a crash mid-write never leaves
// a truncated document behind.
type FileStore struct {
	usersPath string
	chatPath  string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{
		usersPath: filepath.Join(dir, usersFileName),
		chatPath:  filepath.Join(dir, chatFileName),
	}, nil
}

func (s *FileStore) LoadUsers(_ context.Context) (*users.Snapshot, error) {
	data, err := os.ReadFile(s.usersPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.usersPath, err)
	}
	var snap users.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.usersPath, err)
	}
	return &snap, nil
}

func (s *FileStore) SaveUsers(_ context.Context, snap *users.Snapshot) error {
	return writeFileAtomic(s.usersPath, snap)
}

func (s *FileStore) LoadMessages(_ context.Context) ([]chat.Message, error) {
	data, err := os.ReadFile(s.chatPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.chatPath, err)
	}
	var messages []chat.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.chatPath, err)
	}
	return messages, nil
}

func (s *FileStore) SaveMessages(_ context.Context, messages []chat.Message) error {
	if messages == nil {
		messages = []chat.Message{}
	}
	return writeFileAtomic(s.chatPath, messages)
}

func (s *FileStore) Close() error { return nil }

func writeFileAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
