package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/pkg/adapters/fs"
	"github.com/aretw0/sealnote/pkg/core"
)

func waitEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return core.Event{}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, path := setupRepo(t, func(c *fs.Config) { c.DebounceInterval = 200 * time.Millisecond })

	events, err := repo.Watch(ctx)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, time.Second, 10*time.Millisecond)

	// A create writes both halves; they arrive as a single CREATE.
	require.NoError(t, repo.SaveBlob(ctx, idA, sampleBlob()))
	require.NoError(t, repo.SaveMetadata(ctx, sampleMeta(idA)))
	e := waitEvent(t, events)
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, idA, e.ID)

	time.Sleep(400 * time.Millisecond)
	require.NoError(t, repo.SaveMetadata(ctx, sampleMeta(idA)))
	e = waitEvent(t, events)
	assert.Equal(t, core.EventModify, e.Type)
	assert.Equal(t, idA, e.ID)

	time.Sleep(400 * time.Millisecond)
	require.NoError(t, repo.DeleteBlob(ctx, idA))
	require.NoError(t, repo.DeleteMetadata(ctx, idA))
	e = waitEvent(t, events)
	assert.Equal(t, core.EventDelete, e.Type)

	// Foreign files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(path, fs.NotesDir, "notes.txt"), []byte("x"), 0o600))
	select {
	case e := <-events:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_CancelledContext(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Watch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
