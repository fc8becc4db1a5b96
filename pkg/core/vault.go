package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// VaultStore owns the vault record: creation, master-password
// verification and the informational note count.
type VaultStore struct {
	repo   VaultRepository
	crypto Crypto
	logger *slog.Logger
	now    func() time.Time
}

// NewVaultStore creates a VaultStore. A nil logger discards output.
func NewVaultStore(repo VaultRepository, c Crypto, logger *slog.Logger) *VaultStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VaultStore{
		repo:   repo,
		crypto: c,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// IsInitialized reports whether a vault record exists.
func (s *VaultStore) IsInitialized(ctx context.Context) (bool, error) {
	return s.repo.VaultExists(ctx)
}

// Create writes a fresh vault protected by password.
func (s *VaultStore) Create(ctx context.Context, password string) error {
	exists, err := s.repo.VaultExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check vault: %w", err)
	}
	if exists {
		return ErrVaultExists
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := s.crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash master password: %w", err)
	}
	salt, err := s.crypto.GenerateSalt()
	if err != nil {
		return err
	}

	rec := VaultRecord{
		Version:      VaultVersion,
		CreatedAt:    s.now(),
		PasswordHash: hash,
		MasterSalt:   salt,
	}
	if err := s.repo.CreateVault(ctx, rec); err != nil {
		return err
	}

	s.logger.Info("vault created", "version", rec.Version)
	return nil
}

// Unlock verifies password against the stored hash and returns the master
// salt the caller needs to derive the master key.
func (s *VaultStore) Unlock(ctx context.Context, password string) ([]byte, error) {
	rec, err := s.repo.LoadVault(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.crypto.VerifyPassword(rec.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify master password: %w", err)
	}
	if !ok {
		s.logger.Warn("vault unlock rejected")
		return nil, ErrWrongPassword
	}

	return bytes.Clone(rec.MasterSalt), nil
}

// UpdateNotesCount stores n and a fresh UpdatedAt. The count is advisory,
// so failures are logged and dropped.
func (s *VaultStore) UpdateNotesCount(ctx context.Context, n int) {
	rec, err := s.repo.LoadVault(ctx)
	if err != nil {
		if !errors.Is(err, ErrVaultMissing) {
			s.logger.Warn("failed to load vault for count refresh", "error", err)
		}
		return
	}

	rec.NotesCount = n
	rec.UpdatedAt = s.now()
	if err := s.repo.SaveVault(ctx, rec); err != nil {
		s.logger.Warn("failed to update notes count", "error", err)
	}
}

// Status returns the non-secret fields of the vault record.
func (s *VaultStore) Status(ctx context.Context) (VaultStatus, error) {
	rec, err := s.repo.LoadVault(ctx)
	if err != nil {
		return VaultStatus{}, err
	}
	return VaultStatus{
		Version:    rec.Version,
		CreatedAt:  rec.CreatedAt,
		NotesCount: rec.NotesCount,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
