package core

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/sealnote/pkg/crypto"
)

// NoteStore creates, reads, updates, deletes and searches notes. Content is
// always encrypted: with the session master key, or with a key derived from
// the note's own password when the note is protected.
//
// Writes go content first, metadata second, so an interrupted write leaves
// at worst an orphaned blob that NoteStore.Check reports.
type NoteStore struct {
	repo    NoteRepository
	crypto  Crypto
	counter NotesCounter
	logger  *slog.Logger
	locks   *keyedMutex
	now     func() time.Time
}

// NewNoteStore creates a NoteStore. counter may be nil.
func NewNoteStore(repo NoteRepository, c Crypto, counter NotesCounter, logger *slog.Logger) *NoteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NoteStore{
		repo:    repo,
		crypto:  c,
		counter: counter,
		logger:  logger,
		locks:   newKeyedMutex(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create encrypts and stores a new note.
func (s *NoteStore) Create(ctx context.Context, req CreateNote, masterKey []byte) (Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Note{}, ErrTitleRequired
	}
	if req.HasPassword && req.Password == "" {
		return Note{}, ErrNotePasswordMissing
	}
	content := req.Content
	if content == nil {
		content = EmptyDocument()
	}
	if !content.Valid() {
		return Note{}, ErrInvalidContent
	}

	now := s.now()
	meta := NoteMetadata{
		ID:          s.crypto.GenerateID(),
		Title:       title,
		CreatedAt:   now,
		UpdatedAt:   now,
		HasPassword: req.HasPassword,
		Encrypted:   true,
	}

	key := masterKey
	if req.HasPassword {
		salt, err := s.crypto.GenerateSalt()
		if err != nil {
			return Note{}, err
		}
		derived, err := s.crypto.DeriveKey(req.Password, salt)
		if err != nil {
			return Note{}, fmt.Errorf("failed to derive note key: %w", err)
		}
		defer crypto.Zero(derived)

		hash, err := s.crypto.HashPassword(req.Password)
		if err != nil {
			return Note{}, fmt.Errorf("failed to hash note password: %w", err)
		}
		key = derived
		meta.NoteSalt = salt
		meta.PasswordHash = hash
	}

	payload := NotePayload{
		ID:        meta.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	blob, err := s.seal(payload, key)
	if err != nil {
		return Note{}, err
	}

	unlock := s.locks.Lock(meta.ID)
	defer unlock()

	if err := s.repo.SaveBlob(ctx, meta.ID, blob); err != nil {
		return Note{}, fmt.Errorf("failed to write note content: %w", err)
	}
	if err := s.repo.SaveMetadata(ctx, meta); err != nil {
		return Note{}, fmt.Errorf("failed to write note metadata: %w", err)
	}

	s.logger.Debug("note created", "id", meta.ID, "protected", meta.HasPassword)
	s.refreshCount(ctx)

	return noteFrom(meta, payload.Content), nil
}

// Update applies upd to the note. A title-only update touches the
// metadata record alone and needs no password. Any content change
// re-encrypts the blob with a fresh IV under the same key.
func (s *NoteStore) Update(ctx context.Context, id string, upd NoteUpdate, masterKey []byte, password string) (Note, error) {
	if upd.Empty() {
		return Note{}, ErrNoUpdates
	}
	var title string
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
		if title == "" {
			return Note{}, ErrTitleRequired
		}
	}
	if upd.Content != nil && !upd.Content.Valid() {
		return Note{}, ErrInvalidContent
	}
	if !ValidID(id) {
		return Note{}, ErrNoteNotFound
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	meta, err := s.repo.GetMetadata(ctx, id)
	if err != nil {
		return Note{}, err
	}

	if upd.TitleOnly() {
		meta.Title = title
		meta.UpdatedAt = s.now()
		if err := s.repo.SaveMetadata(ctx, meta); err != nil {
			return Note{}, fmt.Errorf("failed to write note metadata: %w", err)
		}
		s.logger.Debug("note renamed", "id", id)
		return noteFrom(meta, nil), nil
	}

	key, release, err := s.noteKey(meta, masterKey, password)
	if err != nil {
		return Note{}, err
	}
	defer release()

	payload, err := s.open(ctx, id, key)
	if err != nil {
		return Note{}, err
	}

	// A title-only update may have left the payload title behind.
	payload.Title = meta.Title
	if upd.Title != nil {
		payload.Title = title
	}
	payload.Content = upd.Content
	payload.UpdatedAt = s.now()

	blob, err := s.seal(payload, key)
	if err != nil {
		return Note{}, err
	}
	if err := s.repo.SaveBlob(ctx, id, blob); err != nil {
		return Note{}, fmt.Errorf("failed to write note content: %w", err)
	}

	meta.Title = payload.Title
	meta.UpdatedAt = payload.UpdatedAt
	if err := s.repo.SaveMetadata(ctx, meta); err != nil {
		return Note{}, fmt.Errorf("failed to write note metadata: %w", err)
	}

	s.logger.Debug("note updated", "id", id)
	return noteFrom(meta, payload.Content), nil
}

// Delete removes both halves of a note, content first.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrNoteNotFound
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.DeleteBlob(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteMetadata(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to delete note metadata: %w", err)
		}
		s.logger.Warn("deleted note had no metadata", "id", id)
	}

	s.logger.Debug("note deleted", "id", id)
	s.refreshCount(ctx)
	return nil
}

// List returns every readable metadata record, most recently updated first.
func (s *NoteStore) List(ctx context.Context) ([]NoteMetadata, error) {
	metas, err := s.repo.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(metas, func(a, b NoteMetadata) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return metas, nil
}

// Get returns the decrypted note. A protected note read without a password
// comes back as a locked stub with no content.
func (s *NoteStore) Get(ctx context.Context, id string, masterKey []byte, password string) (Note, error) {
	if !ValidID(id) {
		return Note{}, ErrNoteNotFound
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	meta, err := s.repo.GetMetadata(ctx, id)
	if err != nil {
		return Note{}, err
	}

	if meta.HasPassword && password == "" {
		n := noteFrom(meta, nil)
		n.Locked = true
		n.Message = LockedMessage
		return n, nil
	}

	key, release, err := s.noteKey(meta, masterKey, password)
	if err != nil {
		return Note{}, err
	}
	defer release()

	payload, err := s.open(ctx, id, key)
	if err != nil {
		return Note{}, err
	}
	return noteFrom(meta, payload.Content), nil
}

// Check compares the two halves of every note on disk and reports what is
// out of place. It never modifies anything.
func (s *NoteStore) Check(ctx context.Context) ([]Inconsistency, error) {
	pairs, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var found []Inconsistency
	for _, p := range pairs {
		switch {
		case p.HasMetadata && !p.HasContent:
			found = append(found, Inconsistency{ID: p.ID, Problem: ProblemMissingContent})
		case p.HasContent && !p.HasMetadata:
			found = append(found, Inconsistency{ID: p.ID, Problem: ProblemMissingMetadata})
		}
		if !p.HasMetadata {
			continue
		}

		meta, err := s.repo.GetMetadata(ctx, p.ID)
		if err != nil {
			found = append(found, Inconsistency{ID: p.ID, Problem: ProblemUnreadableMetadata, Detail: err.Error()})
			continue
		}
		protected := meta.PasswordHash != "" || len(meta.NoteSalt) > 0
		switch {
		case meta.HasPassword && (meta.PasswordHash == "" || len(meta.NoteSalt) == 0):
			found = append(found, Inconsistency{ID: p.ID, Problem: ProblemMissingProtection})
		case !meta.HasPassword && protected:
			found = append(found, Inconsistency{ID: p.ID, Problem: ProblemUnexpectedProtected})
		}
	}

	slices.SortStableFunc(found, func(a, b Inconsistency) int { return cmp.Compare(a.ID, b.ID) })
	return found, nil
}

// noteKey picks the key that encrypts a note's content. The returned
// release func zeroes a derived key and is a no-op for the master key.
func (s *NoteStore) noteKey(meta NoteMetadata, masterKey []byte, password string) ([]byte, func(), error) {
	if !meta.HasPassword {
		return masterKey, func() {}, nil
	}
	if password == "" {
		return nil, nil, ErrNoteLocked
	}

	ok, err := s.crypto.VerifyPassword(meta.PasswordHash, password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify note password: %w", err)
	}
	if !ok {
		return nil, nil, ErrWrongPassword
	}

	key, err := s.crypto.DeriveKey(password, meta.NoteSalt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive note key: %w", err)
	}
	return key, func() { crypto.Zero(key) }, nil
}

func (s *NoteStore) seal(p NotePayload, key []byte) (crypto.Blob, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return crypto.Blob{}, fmt.Errorf("failed to encode note: %w", err)
	}
	defer crypto.Zero(plaintext)

	blob, err := s.crypto.Encrypt(plaintext, key)
	if err != nil {
		return crypto.Blob{}, fmt.Errorf("failed to encrypt note: %w", err)
	}
	return blob, nil
}

// open reads and decrypts a content blob. Callers hold the id lock.
func (s *NoteStore) open(ctx context.Context, id string, key []byte) (NotePayload, error) {
	blob, err := s.repo.GetBlob(ctx, id)
	if err != nil {
		return NotePayload{}, err
	}

	plaintext, err := s.crypto.Decrypt(blob, key)
	if err != nil {
		return NotePayload{}, decryptFailed(id, err)
	}
	defer crypto.Zero(plaintext)

	var p NotePayload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return NotePayload{}, fmt.Errorf("failed to decode note %s: %w", id, err)
	}
	return p, nil
}

func (s *NoteStore) refreshCount(ctx context.Context) {
	if s.counter == nil {
		return
	}
	metas, err := s.repo.ListMetadata(ctx)
	if err != nil {
		s.logger.Warn("failed to count notes", "error", err)
		return
	}
	s.counter.UpdateNotesCount(ctx, len(metas))
}

func noteFrom(meta NoteMetadata, content Document) Note {
	return Note{
		ID:          meta.ID,
		Title:       meta.Title,
		Content:     content,
		CreatedAt:   meta.CreatedAt,
		UpdatedAt:   meta.UpdatedAt,
		HasPassword: meta.HasPassword,
	}
}

// ValidID accepts only canonical lowercase UUIDs, which keeps ids safe to
// embed in file names.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
