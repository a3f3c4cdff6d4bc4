package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/users"
)

func testSnapshot(t *testing.T) *users.Snapshot {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	return &users.Snapshot{
		Users: []*users.User{
			{
				ID:            "u1",
				Username:      "alice",
				PasswordHash:  "$2a$10$hash",
				AnonymousName: "quiet-otter-7",
				Sessions:      []users.Session{{ID: "sess-1", CreatedAt: now}},
				SideQuests: map[string]*users.QuestState{
					users.QuestCipher: {Easy: &now},
				},
				CreatedAt: now,
			},
		},
		PublicMessage: users.PublicMessage{Text: "welcome", UpdatedAt: now},
	}
}

func TestFileStoreLoadUsersMissingFile(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)

	messages, err := s.LoadMessages(context.Background())
	require.NoError(t, err)
	assert.Nil(t, messages)
}

func TestFileStoreUsersRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := testSnapshot(t)
	require.NoError(t, s.SaveUsers(context.Background(), want))

	got, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.PublicMessage.Text, got.PublicMessage.Text)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "alice", got.Users[0].Username)
	require.NotNil(t, got.Users[0].SideQuests[users.QuestCipher])
	assert.NotNil(t, got.Users[0].SideQuests[users.QuestCipher].Easy)
	assert.Nil(t, got.Users[0].SideQuests[users.QuestCipher].Hard)
}

// A restart from the persisted file must reproduce the exact ordered message
// sequence that was flushed.
func TestFileStoreMessagesSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	log := chat.NewLog()
	svc := chat.NewService(log, staticResolver("ghost"))
	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, svc.Send(context.Background(), "u1", text, false))
	}

	snap, _ := log.Snapshot()
	require.NoError(t, s.SaveMessages(context.Background(), snap))
	require.NoError(t, s.Close())

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	loaded, err := reopened.LoadMessages(context.Background())
	require.NoError(t, err)

	restored := chat.NewLog()
	restored.Seed(loaded)

	got, _ := restored.Snapshot()
	require.Len(t, got, 3)
	for i, text := range []string{"first", "second", "third"} {
		assert.Equal(t, text, got[i].Text)
		assert.Equal(t, snap[i].ID, got[i].ID)
	}
}

func TestFileStoreSaveMessagesEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.SaveMessages(context.Background(), nil))

	data, err := os.ReadFile(filepath.Join(dir, chatFileName))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFileName), []byte("{not json"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.LoadUsers(context.Background())
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(context.Background(), "", t.TempDir())
	require.NoError(t, err)
	_, ok := s.(*FileStore)
	assert.True(t, ok)
}

type staticResolver string

func (r staticResolver) DisplayName(userID string, anonymous bool) string {
	return string(r)
}
