package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

const (
	// VaultFile is the name of the vault record inside the data directory.
	VaultFile = "vault.meta"
	// NotesDir holds one metadata file and one content file per note.
	NotesDir = "notes"

	notePrefix    = "note-"
	metaExt       = ".meta"
	blobExt       = ".enc"
	metaPattern   = notePrefix + "*" + metaExt
	blobPattern   = notePrefix + "*" + blobExt
	recordPattern = notePrefix + "*.{meta,enc}"
)

// Repository implements core.VaultRepository and core.NoteRepository on a
// single data directory:
//
//	<root>/vault.meta
//	<root>/notes/note-<id>.meta
//	<root>/notes/note-<id>.enc
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	// ReadOnly rejects every write with core.ErrReadOnly.
	ReadOnly bool
	Logger   *slog.Logger
	// ErrorHandler receives watcher faults. Defaults to logging them.
	ErrorHandler func(error)
	// DebounceInterval merges bursts of file events per note. Defaults to 50ms.
	DebounceInterval time.Duration
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 50 * time.Millisecond
	}
	return &Repository{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the data and notes directories exist.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			if r.config.ReadOnly {
				return nil
			}
			return fmt.Errorf("data directory does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
		if r.config.ReadOnly {
			return nil
		}
	}

	if err := os.MkdirAll(r.NotesPath(), dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// VaultPath returns the location of the vault record.
func (r *Repository) VaultPath() string {
	return filepath.Join(r.Path, VaultFile)
}

// NotesPath returns the directory holding note records.
func (r *Repository) NotesPath() string {
	return filepath.Join(r.Path, NotesDir)
}

func (r *Repository) notePath(id, ext string) string {
	return filepath.Join(r.NotesPath(), notePrefix+id+ext)
}

func (r *Repository) checkWritable() error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	return nil
}

// --- Vault record ---

// VaultExists reports whether the vault record is present.
func (r *Repository) VaultExists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.VaultPath())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat vault record: %w", err)
}

// LoadVault reads and parses the vault record.
func (r *Repository) LoadVault(ctx context.Context) (core.VaultRecord, error) {
	data, err := os.ReadFile(r.VaultPath())
	if err != nil {
		if os.IsNotExist(err) {
			return core.VaultRecord{}, core.ErrVaultMissing
		}
		return core.VaultRecord{}, fmt.Errorf("failed to read vault record: %w", err)
	}
	rec, err := parseVault(data)
	if err != nil {
		return core.VaultRecord{}, fmt.Errorf("failed to parse vault record: %w", err)
	}
	return rec, nil
}

// CreateVault writes the first vault record and fails if one exists.
func (r *Repository) CreateVault(ctx context.Context, rec core.VaultRecord) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	data, err := serializeVault(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize vault record: %w", err)
	}
	if err := os.MkdirAll(r.Path, dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := createFileExclusive(r.VaultPath(), data, filePerm); err != nil {
		if errors.Is(err, errExists) {
			return core.ErrVaultExists
		}
		return err
	}
	return nil
}

// SaveVault replaces the vault record.
func (r *Repository) SaveVault(ctx context.Context, rec core.VaultRecord) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	data, err := serializeVault(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize vault record: %w", err)
	}
	return writeFileAtomic(r.VaultPath(), data, filePerm)
}

// --- Note records ---

// SaveMetadata writes the plaintext metadata record of a note.
func (r *Repository) SaveMetadata(ctx context.Context, meta core.NoteMetadata) error {
	if meta.ID == "" {
		return fmt.Errorf("note has no ID")
	}
	data, err := serializeMetadata(meta)
	if err != nil {
		return fmt.Errorf("failed to serialize note metadata: %w", err)
	}
	return r.writeNoteFile(ctx, r.notePath(meta.ID, metaExt), data)
}

// GetMetadata reads the metadata record of a note.
func (r *Repository) GetMetadata(ctx context.Context, id string) (core.NoteMetadata, error) {
	data, err := r.readNoteFile(ctx, r.notePath(id, metaExt))
	if err != nil {
		return core.NoteMetadata{}, err
	}
	meta, err := parseMetadata(data)
	if err != nil {
		return core.NoteMetadata{}, fmt.Errorf("failed to parse note metadata %s: %w", id, err)
	}
	if meta.ID != id {
		return core.NoteMetadata{}, fmt.Errorf("note metadata %s carries id %q", id, meta.ID)
	}
	return meta, nil
}

// ListMetadata returns every readable metadata record. Unreadable records
// and file names that do not carry a valid id are skipped and logged.
func (r *Repository) ListMetadata(ctx context.Context) ([]core.NoteMetadata, error) {
	ids, err := r.listIDs(ctx, metaPattern)
	if err != nil {
		return nil, err
	}

	metas := make([]core.NoteMetadata, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		meta, err := r.GetMetadata(ctx, id)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable note metadata", "id", id, "error", err)
			continue
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// DeleteMetadata removes the metadata record of a note.
func (r *Repository) DeleteMetadata(ctx context.Context, id string) error {
	return r.removeNoteFile(r.notePath(id, metaExt))
}

// SaveBlob writes the encrypted content record of a note.
func (r *Repository) SaveBlob(ctx context.Context, id string, blob crypto.Blob) error {
	if id == "" {
		return fmt.Errorf("note has no ID")
	}
	data, err := serializeBlob(blob)
	if err != nil {
		return fmt.Errorf("failed to serialize note content: %w", err)
	}
	return r.writeNoteFile(ctx, r.notePath(id, blobExt), data)
}

// GetBlob reads the encrypted content record of a note.
func (r *Repository) GetBlob(ctx context.Context, id string) (crypto.Blob, error) {
	data, err := r.readNoteFile(ctx, r.notePath(id, blobExt))
	if err != nil {
		return crypto.Blob{}, err
	}
	blob, err := parseBlob(data)
	if err != nil {
		return crypto.Blob{}, fmt.Errorf("failed to parse note content %s: %w", id, err)
	}
	return blob, nil
}

// DeleteBlob removes the encrypted content record of a note.
func (r *Repository) DeleteBlob(ctx context.Context, id string) error {
	return r.removeNoteFile(r.notePath(id, blobExt))
}

// Scan pairs up the metadata and content files found in the notes directory.
func (r *Repository) Scan(ctx context.Context) ([]core.RecordPair, error) {
	entries, err := r.readNotesDir(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var pairs []core.RecordPair
	for _, name := range entries {
		id, ext, ok := r.parseRecordName(name, recordPattern)
		if !ok {
			continue
		}
		i, seen := index[id]
		if !seen {
			i = len(pairs)
			index[id] = i
			pairs = append(pairs, core.RecordPair{ID: id})
		}
		switch ext {
		case metaExt:
			pairs[i].HasMetadata = true
		case blobExt:
			pairs[i].HasContent = true
		}
	}

	r.recordScan()
	return pairs, nil
}

func (r *Repository) listIDs(ctx context.Context, pattern string) ([]string, error) {
	entries, err := r.readNotesDir(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, name := range entries {
		if id, _, ok := r.parseRecordName(name, pattern); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// readNotesDir returns the sorted file names of the notes directory. A
// missing directory is an empty vault.
func (r *Repository) readNotesDir(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.NotesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notes directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// parseRecordName extracts the note id and extension from a record file
// name matching pattern.
func (r *Repository) parseRecordName(name, pattern string) (id, ext string, ok bool) {
	match, err := doublestar.Match(pattern, name)
	if err != nil || !match {
		return "", "", false
	}
	ext = filepath.Ext(name)
	id = strings.TrimSuffix(strings.TrimPrefix(name, notePrefix), ext)
	if !core.ValidID(id) {
		r.config.Logger.Debug("ignoring foreign file in notes directory", "name", name)
		return "", "", false
	}
	return id, ext, true
}

func (r *Repository) writeNoteFile(ctx context.Context, path string, data []byte) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	return writeFileAtomic(path, data, filePerm)
}

func (r *Repository) readNoteFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

func (r *Repository) removeNoteFile(path string) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return core.ErrNoteNotFound
		}
		return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
	}
	return nil
}

var (
	_ core.VaultRepository = (*Repository)(nil)
	_ core.NoteRepository  = (*Repository)(nil)
	_ core.Watchable       = (*Repository)(nil)
)
