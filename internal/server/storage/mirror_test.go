package storage

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenfest/lumen/internal/logging"
	"github.com/lumenfest/lumen/internal/server/chat"
)

type fakePutter struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	f.keys = append(f.keys, *params.Key)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if params.Body != nil {
		io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakePutter) putKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func newTestMirror(t *testing.T, putter objectPutter) *MirrorStore {
	t.Helper()
	inner, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return &MirrorStore{
		Store:  inner,
		client: putter,
		bucket: "snapshots",
		logger: logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	}
}

// Saves return before the upload completes; Close drains all of them.
func TestMirrorUploadsAfterSave(t *testing.T) {
	putter := &fakePutter{}
	m := newTestMirror(t, putter)

	require.NoError(t, m.SaveUsers(context.Background(), testSnapshot(t)))
	require.NoError(t, m.SaveMessages(context.Background(), []chat.Message{{ID: "m1", Text: "hi"}}))
	require.NoError(t, m.Close())

	assert.ElementsMatch(t, []string{usersFileName, chatFileName}, putter.putKeys())
}

// A failed upload must not fail the local save.
func TestMirrorUploadFailureIsBestEffort(t *testing.T) {
	putter := &fakePutter{err: assert.AnError}
	m := newTestMirror(t, putter)

	require.NoError(t, m.SaveUsers(context.Background(), testSnapshot(t)))

	snap, err := m.LoadUsers(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "welcome", snap.PublicMessage.Text)

	require.NoError(t, m.Close())
	assert.Equal(t, []string{usersFileName}, putter.putKeys())
}
