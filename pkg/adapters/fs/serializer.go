package fs

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

// On-disk shapes. Byte fields are hex; optional fields are null when unset.

type vaultFile struct {
	Version      string     `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	PasswordHash string     `json:"passwordHash"`
	MasterSalt   string     `json:"masterSalt"`
	NotesCount   int        `json:"notesCount"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type metaFile struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	HasPassword  bool      `json:"hasPassword"`
	PasswordHash *string   `json:"passwordHash"`
	NoteSalt     *string   `json:"noteSalt"`
	Encrypted    bool      `json:"encrypted"`
}

type blobFile struct {
	IV        string `json:"iv"`
	Encrypted string `json:"encrypted"`
	Tag       string `json:"tag"`
}

// encodeJSON renders v as indented JSON with a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func serializeVault(rec core.VaultRecord) ([]byte, error) {
	f := vaultFile{
		Version:      rec.Version,
		CreatedAt:    rec.CreatedAt,
		PasswordHash: rec.PasswordHash,
		MasterSalt:   hex.EncodeToString(rec.MasterSalt),
		NotesCount:   rec.NotesCount,
	}
	if !rec.UpdatedAt.IsZero() {
		f.UpdatedAt = &rec.UpdatedAt
	}
	return encodeJSON(f)
}

func parseVault(data []byte) (core.VaultRecord, error) {
	var f vaultFile
	if err := decodeJSON(data, &f); err != nil {
		return core.VaultRecord{}, err
	}
	salt, err := hex.DecodeString(f.MasterSalt)
	if err != nil {
		return core.VaultRecord{}, fmt.Errorf("invalid masterSalt: %w", err)
	}
	if f.PasswordHash == "" || len(salt) == 0 {
		return core.VaultRecord{}, fmt.Errorf("vault record is missing credentials")
	}

	rec := core.VaultRecord{
		Version:      f.Version,
		CreatedAt:    f.CreatedAt,
		PasswordHash: f.PasswordHash,
		MasterSalt:   salt,
		NotesCount:   f.NotesCount,
	}
	if f.UpdatedAt != nil {
		rec.UpdatedAt = *f.UpdatedAt
	}
	return rec, nil
}

func serializeMetadata(meta core.NoteMetadata) ([]byte, error) {
	f := metaFile{
		ID:          meta.ID,
		Title:       meta.Title,
		CreatedAt:   meta.CreatedAt,
		UpdatedAt:   meta.UpdatedAt,
		HasPassword: meta.HasPassword,
		Encrypted:   meta.Encrypted,
	}
	if meta.PasswordHash != "" {
		f.PasswordHash = &meta.PasswordHash
	}
	if len(meta.NoteSalt) > 0 {
		s := hex.EncodeToString(meta.NoteSalt)
		f.NoteSalt = &s
	}
	return encodeJSON(f)
}

func parseMetadata(data []byte) (core.NoteMetadata, error) {
	var f metaFile
	if err := decodeJSON(data, &f); err != nil {
		return core.NoteMetadata{}, err
	}

	meta := core.NoteMetadata{
		ID:          f.ID,
		Title:       f.Title,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		HasPassword: f.HasPassword,
		Encrypted:   f.Encrypted,
	}
	if f.PasswordHash != nil {
		meta.PasswordHash = *f.PasswordHash
	}
	if f.NoteSalt != nil {
		salt, err := hex.DecodeString(*f.NoteSalt)
		if err != nil {
			return core.NoteMetadata{}, fmt.Errorf("invalid noteSalt: %w", err)
		}
		meta.NoteSalt = salt
	}
	return meta, nil
}

func serializeBlob(b crypto.Blob) ([]byte, error) {
	return encodeJSON(blobFile{
		IV:        hex.EncodeToString(b.IV),
		Encrypted: hex.EncodeToString(b.Ciphertext),
		Tag:       hex.EncodeToString(b.Tag),
	})
}

func parseBlob(data []byte) (crypto.Blob, error) {
	var f blobFile
	if err := decodeJSON(data, &f); err != nil {
		return crypto.Blob{}, err
	}

	var (
		b   crypto.Blob
		err error
	)
	if b.IV, err = hex.DecodeString(f.IV); err != nil {
		return crypto.Blob{}, fmt.Errorf("invalid iv: %w", err)
	}
	if b.Ciphertext, err = hex.DecodeString(f.Encrypted); err != nil {
		return crypto.Blob{}, fmt.Errorf("invalid ciphertext: %w", err)
	}
	if b.Tag, err = hex.DecodeString(f.Tag); err != nil {
		return crypto.Blob{}, fmt.Errorf("invalid tag: %w", err)
	}
	return b, nil
}
