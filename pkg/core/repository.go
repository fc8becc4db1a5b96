package core

import (
	"context"

	"github.com/aretw0/sealnote/pkg/crypto"
)

// VaultRepository persists the single vault record.
type VaultRepository interface {
	// VaultExists reports whether a vault record is present.
	VaultExists(ctx context.Context) (bool, error)

	// LoadVault returns the vault record, or ErrVaultMissing.
	LoadVault(ctx context.Context) (VaultRecord, error)

	// CreateVault writes the first vault record. It fails with
	// ErrVaultExists if one is already there, even under a race.
	CreateVault(ctx context.Context, rec VaultRecord) error

	// SaveVault replaces the vault record.
	SaveVault(ctx context.Context, rec VaultRecord) error
}

// NoteRepository persists the metadata record and the encrypted content
// blob of each note. Both halves are addressed by the note id.
type NoteRepository interface {
	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error

	SaveMetadata(ctx context.Context, meta NoteMetadata) error

	// GetMetadata returns ErrNoteNotFound when the record is absent.
	GetMetadata(ctx context.Context, id string) (NoteMetadata, error)

	// ListMetadata returns every readable metadata record. Records that
	// fail to read are skipped.
	ListMetadata(ctx context.Context) ([]NoteMetadata, error)

	// DeleteMetadata returns ErrNoteNotFound when the record is absent.
	DeleteMetadata(ctx context.Context, id string) error

	SaveBlob(ctx context.Context, id string, blob crypto.Blob) error

	// GetBlob returns ErrNoteNotFound when the blob is absent.
	GetBlob(ctx context.Context, id string) (crypto.Blob, error)

	// DeleteBlob returns ErrNoteNotFound when the blob is absent.
	DeleteBlob(ctx context.Context, id string) error

	// Scan lists every id that has at least one half on disk.
	Scan(ctx context.Context) ([]RecordPair, error)
}

// Watchable is implemented by repositories that can report external
// changes to the notes directory.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Crypto is the set of primitives the stores need.
type Crypto interface {
	GenerateSalt() ([]byte, error)
	GenerateID() string
	DeriveKey(password string, salt []byte) ([]byte, error)
	Encrypt(plaintext, key []byte) (crypto.Blob, error)
	Decrypt(b crypto.Blob, key []byte) ([]byte, error)
	HashPassword(password string) (string, error)
	VerifyPassword(encodedHash, password string) (bool, error)
}

var _ Crypto = (*crypto.Engine)(nil)

// NotesCounter receives the note count after create and delete.
type NotesCounter interface {
	UpdateNotesCount(ctx context.Context, n int)
}
