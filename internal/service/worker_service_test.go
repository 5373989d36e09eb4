package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel-journal-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSweeper(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "sweep@example.com")
	created := createTestTravel(t, env, user.ID, point("A", photo("kept.jpg", "kept")))
	kept := created.Points[0].Photos[0].FilePath

	orphanOld, err := env.store.Save(mustDecode(t, env, "old.jpg", "old"))
	require.NoError(t, err)
	orphanNew, err := env.store.Save(mustDecode(t, env, "new.jpg", "new"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	for _, p := range []string{kept, orphanOld} {
		require.NoError(t, os.Chtimes(filepath.Join(env.store.Root(), filepath.Base(p)), past, past))
	}

	sweeper := NewUploadSweeper(env.photos, env.store, time.Minute, time.Hour)
	removed, err := sweeper.Sweep(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.True(t, env.fileExists(kept))
	assert.False(t, env.fileExists(orphanOld))
	assert.True(t, env.fileExists(orphanNew), "recent files are left for in-flight requests")

	removed, err = sweeper.Sweep(t.Context())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestUploadSweeperStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	sweeper := NewUploadSweeper(env.photos, env.store, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func mustDecode(t *testing.T, env *testEnv, name, content string) *storage.DecodedPhoto {
	t.Helper()
	decoded, err := env.store.Decode(name, b64(content))
	require.NoError(t, err)
	return decoded
}
