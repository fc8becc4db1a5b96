// Package api is the request/response surface of a vault: the operations a
// user interface calls, each gated on the session where it needs the
// master key.
package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/session"
)

// Result reports the outcome of an operation that returns no data.
type Result struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Kind    core.Kind `json:"kind,omitempty"`
}

// NoteResult carries the note produced by a create or update.
type NoteResult struct {
	Success bool       `json:"success"`
	Note    *core.Note `json:"note,omitempty"`
}

// Status describes the vault without needing it unlocked.
type Status struct {
	Initialized   bool              `json:"initialized"`
	Authenticated bool              `json:"authenticated"`
	Vault         *core.VaultStatus `json:"vault,omitempty"`
}

// Handlers wires the stores and the session together.
type Handlers struct {
	vault   *core.VaultStore
	notes   *core.NoteStore
	session *session.Manager
	logger  *slog.Logger
}

// New creates Handlers. A nil logger discards output.
func New(vault *core.VaultStore, notes *core.NoteStore, sess *session.Manager, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{vault: vault, notes: notes, session: sess, logger: logger}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Kind: core.KindOf(err)}
}

// IsFirstTime reports whether no vault exists yet. A failed check counts
// as first time so the caller offers vault creation.
func (h *Handlers) IsFirstTime(ctx context.Context) bool {
	ok, err := h.vault.IsInitialized(ctx)
	if err != nil {
		h.logger.Error("failed to check vault", "error", err)
		return true
	}
	return !ok
}

// CreateVault creates the vault and leaves the session unlocked.
func (h *Handlers) CreateVault(ctx context.Context, password string) Result {
	if err := h.vault.Create(ctx, password); err != nil {
		return failure(err)
	}
	if err := h.session.Unlock(ctx, password); err != nil {
		return failure(err)
	}
	return Result{Success: true}
}

// UnlockVault opens a session with the master password.
func (h *Handlers) UnlockVault(ctx context.Context, password string) Result {
	if err := h.session.Unlock(ctx, password); err != nil {
		return failure(err)
	}
	return Result{Success: true}
}

// LockVault wipes the session key.
func (h *Handlers) LockVault(ctx context.Context) Result {
	h.session.Clear()
	return Result{Success: true}
}

// VaultStatus reports whether the vault exists and is unlocked.
func (h *Handlers) VaultStatus(ctx context.Context) (Status, error) {
	ok, err := h.vault.IsInitialized(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{Initialized: ok, Authenticated: h.session.IsAuthenticated()}
	if !ok {
		return st, nil
	}
	vs, err := h.vault.Status(ctx)
	if err != nil {
		return Status{}, err
	}
	st.Vault = &vs
	return st, nil
}

// ListNotes returns the metadata of every note.
func (h *Handlers) ListNotes(ctx context.Context) ([]core.NoteMetadata, error) {
	var metas []core.NoteMetadata
	err := h.session.WithKey(func([]byte) error {
		var err error
		metas, err = h.notes.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if metas == nil {
		metas = []core.NoteMetadata{}
	}
	return metas, nil
}

// GetNote returns a note, or its locked stub when it is protected and no
// password is given.
func (h *Handlers) GetNote(ctx context.Context, id, password string) (core.Note, error) {
	var n core.Note
	err := h.session.WithKey(func(key []byte) error {
		var err error
		n, err = h.notes.Get(ctx, id, key, password)
		return err
	})
	return n, err
}

// UnlockNote reads a protected note with its password.
func (h *Handlers) UnlockNote(ctx context.Context, id, password string) (core.Note, error) {
	return h.GetNote(ctx, id, password)
}

// CreateNote stores a new note. A blank title becomes core.DefaultNoteTitle.
func (h *Handlers) CreateNote(ctx context.Context, req core.CreateNote) (NoteResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		req.Title = core.DefaultNoteTitle
	}
	var n core.Note
	err := h.session.WithKey(func(key []byte) error {
		var err error
		n, err = h.notes.Create(ctx, req, key)
		return err
	})
	if err != nil {
		return NoteResult{}, err
	}
	return NoteResult{Success: true, Note: &n}, nil
}

// UpdateNote changes the title and/or content of a note.
func (h *Handlers) UpdateNote(ctx context.Context, id string, upd core.NoteUpdate, password string) (NoteResult, error) {
	var n core.Note
	err := h.session.WithKey(func(key []byte) error {
		var err error
		n, err = h.notes.Update(ctx, id, upd, key, password)
		return err
	})
	if err != nil {
		return NoteResult{}, err
	}
	return NoteResult{Success: true, Note: &n}, nil
}

// DeleteNote removes a note.
func (h *Handlers) DeleteNote(ctx context.Context, id string) (Result, error) {
	err := h.session.WithKey(func([]byte) error {
		return h.notes.Delete(ctx, id)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Success: true}, nil
}

// SearchNotes matches query against titles and unprotected content.
func (h *Handlers) SearchNotes(ctx context.Context, query string) ([]core.SearchResult, error) {
	var results []core.SearchResult
	err := h.session.WithKey(func(key []byte) error {
		var err error
		results, err = h.notes.Search(ctx, query, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CheckNotes reports inconsistencies between metadata and content records.
func (h *Handlers) CheckNotes(ctx context.Context) ([]core.Inconsistency, error) {
	var found []core.Inconsistency
	err := h.session.WithKey(func([]byte) error {
		var err error
		found, err = h.notes.Check(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = []core.Inconsistency{}
	}
	return found, nil
}
