package api_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/pkg/adapters/fs"
	"github.com/aretw0/sealnote/pkg/api"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
	"github.com/aretw0/sealnote/pkg/session"
)

func newHandlers(t *testing.T) (*api.Handlers, *session.Manager) {
	t.Helper()

	engine, err := crypto.New(crypto.Params{Memory: 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)

	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "vault")})
	require.NoError(t, repo.Initialize(context.Background()))

	vault := core.NewVaultStore(repo, engine, nil)
	notes := core.NewNoteStore(repo, engine, vault, nil)
	sess := session.New(vault, engine, nil)
	t.Cleanup(sess.Clear)

	return api.New(vault, notes, sess, nil), sess
}

func doc(text string) core.Document {
	return core.Document(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"` + text + `"}]}]}`)
}

func TestFirstRunAndUnlock(t *testing.T) {
	ctx := context.Background()
	h, sess := newHandlers(t)

	assert.True(t, h.IsFirstTime(ctx))

	res := h.CreateVault(ctx, "abc")
	assert.False(t, res.Success)
	assert.Equal(t, core.KindValidation, res.Kind)
	assert.Contains(t, res.Error, "at least 4")

	res = h.CreateVault(ctx, "1234")
	require.True(t, res.Success, res.Error)
	assert.False(t, h.IsFirstTime(ctx))
	assert.True(t, sess.IsAuthenticated(), "create leaves the session unlocked")

	res = h.CreateVault(ctx, "5678")
	assert.False(t, res.Success)
	assert.Equal(t, core.KindState, res.Kind)

	assert.True(t, h.LockVault(ctx).Success)
	assert.False(t, sess.IsAuthenticated())

	res = h.UnlockVault(ctx, "0000")
	assert.False(t, res.Success)
	assert.Equal(t, core.KindAuthentication, res.Kind)
	assert.False(t, sess.IsAuthenticated())

	res = h.UnlockVault(ctx, "1234")
	assert.True(t, res.Success)
	assert.True(t, sess.IsAuthenticated())
}

func TestNotesRequireSession(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandlers(t)
	require.True(t, h.CreateVault(ctx, "1234").Success)
	h.LockVault(ctx)

	_, err := h.ListNotes(ctx)
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
	_, err = h.CreateNote(ctx, core.CreateNote{Title: "x"})
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
	_, err = h.SearchNotes(ctx, "x")
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
	_, err = h.GetNote(ctx, "id", "")
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
	_, err = h.DeleteNote(ctx, "id")
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)
	_, err = h.CheckNotes(ctx)
	assert.ErrorIs(t, err, core.ErrNotAuthenticated)

	st, err := h.VaultStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.Initialized)
	assert.False(t, st.Authenticated)
	require.NotNil(t, st.Vault)
	assert.Equal(t, core.VaultVersion, st.Vault.Version)
}

func TestNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandlers(t)
	require.True(t, h.CreateVault(ctx, "1234").Success)

	list, err := h.ListNotes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := h.CreateNote(ctx, core.CreateNote{Title: "  ", Content: doc("hello there")})
	require.NoError(t, err)
	require.True(t, created.Success)
	assert.Equal(t, core.DefaultNoteTitle, created.Note.Title)
	id := created.Note.ID

	n, err := h.GetNote(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, "hello there", n.Content.Text())

	title := "Greeting"
	updated, err := h.UpdateNote(ctx, id, core.NoteUpdate{Title: &title}, "")
	require.NoError(t, err)
	assert.Equal(t, "Greeting", updated.Note.Title)

	hits, err := h.SearchNotes(ctx, "THERE")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, core.MatchContent, hits[0].MatchedIn)

	found, err := h.CheckNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)

	st, err := h.VaultStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Vault.NotesCount)

	del, err := h.DeleteNote(ctx, id)
	require.NoError(t, err)
	assert.True(t, del.Success)

	_, err = h.GetNote(ctx, id, "")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestProtectedNoteFlow(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandlers(t)
	require.True(t, h.CreateVault(ctx, "1234").Success)

	created, err := h.CreateNote(ctx, core.CreateNote{Title: "Diary", Content: doc("secret"), HasPassword: true, Password: "pw"})
	require.NoError(t, err)
	id := created.Note.ID

	stub, err := h.GetNote(ctx, id, "")
	require.NoError(t, err)
	assert.True(t, stub.Locked)
	assert.Nil(t, stub.Content)

	_, err = h.UnlockNote(ctx, id, "wrong")
	assert.ErrorIs(t, err, core.ErrWrongPassword)

	n, err := h.UnlockNote(ctx, id, "pw")
	require.NoError(t, err)
	assert.Equal(t, "secret", n.Content.Text())

	hits, err := h.SearchNotes(ctx, "secret")
	require.NoError(t, err)
	assert.Empty(t, hits, "protected content is not searchable")
}
