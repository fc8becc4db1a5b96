package core

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/sealnote/pkg/crypto"
)

// memRepo is an in-memory VaultRepository and NoteRepository.
type memRepo struct {
	mu      sync.Mutex
	vault   *VaultRecord
	metas   map[string]NoteMetadata
	blobs   map[string]crypto.Blob
	corrupt map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		metas:   make(map[string]NoteMetadata),
		blobs:   make(map[string]crypto.Blob),
		corrupt: make(map[string]bool),
	}
}

func (r *memRepo) VaultExists(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vault != nil, nil
}

func (r *memRepo) LoadVault(ctx context.Context) (VaultRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.vault == nil {
		return VaultRecord{}, ErrVaultMissing
	}
	return *r.vault, nil
}

func (r *memRepo) CreateVault(ctx context.Context, rec VaultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.vault != nil {
		return ErrVaultExists
	}
	r.vault = &rec
	return nil
}

func (r *memRepo) SaveVault(ctx context.Context, rec VaultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vault = &rec
	return nil
}

func (r *memRepo) Initialize(ctx context.Context) error { return nil }

func (r *memRepo) SaveMetadata(ctx context.Context, meta NoteMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metas[meta.ID] = meta
	return nil
}

func (r *memRepo) GetMetadata(ctx context.Context, id string) (NoteMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.corrupt[id] {
		return NoteMetadata{}, errors.New("unexpected end of JSON input")
	}
	m, ok := r.metas[id]
	if !ok {
		return NoteMetadata{}, ErrNoteNotFound
	}
	return m, nil
}

func (r *memRepo) ListMetadata(ctx context.Context) ([]NoteMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []NoteMetadata
	for _, id := range slices.Sorted(maps.Keys(r.metas)) {
		if r.corrupt[id] {
			continue
		}
		out = append(out, r.metas[id])
	}
	return out, nil
}

func (r *memRepo) DeleteMetadata(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metas[id]; !ok {
		return ErrNoteNotFound
	}
	delete(r.metas, id)
	return nil
}

func (r *memRepo) SaveBlob(ctx context.Context, id string, blob crypto.Blob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[id] = blob
	return nil
}

func (r *memRepo) GetBlob(ctx context.Context, id string) (crypto.Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[id]
	if !ok {
		return crypto.Blob{}, ErrNoteNotFound
	}
	return crypto.Blob{
		IV:         bytes.Clone(b.IV),
		Ciphertext: bytes.Clone(b.Ciphertext),
		Tag:        bytes.Clone(b.Tag),
	}, nil
}

func (r *memRepo) DeleteBlob(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[id]; !ok {
		return ErrNoteNotFound
	}
	delete(r.blobs, id)
	return nil
}

func (r *memRepo) Scan(ctx context.Context) ([]RecordPair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]*RecordPair)
	for id := range r.metas {
		seen[id] = &RecordPair{ID: id, HasMetadata: true}
	}
	for id := range r.blobs {
		p, ok := seen[id]
		if !ok {
			p = &RecordPair{ID: id}
			seen[id] = p
		}
		p.HasContent = true
	}
	var out []RecordPair
	for _, id := range slices.Sorted(maps.Keys(seen)) {
		out = append(out, *seen[id])
	}
	return out, nil
}

func (r *memRepo) blob(id string) crypto.Blob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blobs[id]
}

func (r *memRepo) meta(id string) (NoteMetadata, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.metas[id]
	return m, ok
}

func testEngine(t *testing.T) *crypto.Engine {
	t.Helper()
	e, err := crypto.New(crypto.Params{Memory: 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)
	return e
}

// stepClock returns strictly increasing instants one second apart.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	repo      *memRepo
	engine    *crypto.Engine
	vault     *VaultStore
	notes     *NoteStore
	masterKey []byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := newMemRepo()
	engine := testEngine(t)
	vault := NewVaultStore(repo, engine, nil)
	notes := NewNoteStore(repo, engine, vault, nil)
	clock := stepClock()
	vault.now = clock
	notes.now = clock

	require.NoError(t, vault.Create(ctx, "master-pw"))
	salt, err := vault.Unlock(ctx, "master-pw")
	require.NoError(t, err)
	key, err := engine.DeriveKey("master-pw", salt)
	require.NoError(t, err)

	return &fixture{repo: repo, engine: engine, vault: vault, notes: notes, masterKey: key}
}
