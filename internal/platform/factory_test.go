package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/internal/platform"
	"github.com/aretw0/sealnote/pkg/adapters/fs"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

func fastCrypto(t *testing.T) platform.Option {
	t.Helper()
	engine, err := crypto.New(crypto.Params{Memory: 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)
	return platform.WithCrypto(engine)
}

func TestNewWiresApp(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	app, err := platform.New(ctx, dir, fastCrypto(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, dir, app.Path)
	assert.Nil(t, app.Events())
	assert.DirExists(t, filepath.Join(dir, fs.NotesDir))

	require.True(t, app.API.CreateVault(ctx, "1234").Success)
	assert.FileExists(t, filepath.Join(dir, fs.VaultFile))

	res, err := app.API.CreateNote(ctx, core.CreateNote{Title: "hello"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.NoError(t, app.Close())
	assert.False(t, app.Session.IsAuthenticated())
	require.NoError(t, app.Close(), "close is idempotent")
}

func TestNewMustExist(t *testing.T) {
	_, err := platform.New(context.Background(), filepath.Join(t.TempDir(), "missing"),
		platform.WithMustExist(true), fastCrypto(t))
	assert.Error(t, err)
}

func TestNewReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	rw, err := platform.New(ctx, dir, fastCrypto(t))
	require.NoError(t, err)
	require.True(t, rw.API.CreateVault(ctx, "1234").Success)
	require.NoError(t, rw.Close())

	ro, err := platform.New(ctx, dir, platform.WithReadOnly(true), fastCrypto(t))
	require.NoError(t, err)
	defer ro.Close()

	require.True(t, ro.API.UnlockVault(ctx, "1234").Success)
	_, err = ro.API.CreateNote(ctx, core.CreateNote{Title: "nope"})
	assert.ErrorIs(t, err, core.ErrReadOnly)

	list, err := ro.API.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewWithWatch(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, fs.NotesDir), 0o700))

	app, err := platform.New(ctx, dir, platform.WithWatch(true), fastCrypto(t))
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Events())

	require.True(t, app.API.CreateVault(ctx, "1234").Success)
	res, err := app.API.CreateNote(ctx, core.CreateNote{Title: "watched"})
	require.NoError(t, err)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-app.Events():
			if ev.ID == res.Note.ID {
				assert.Equal(t, core.EventCreate, ev.Type)
				return
			}
		case <-timeout:
			t.Fatal("no event for created note")
		}
	}
}
