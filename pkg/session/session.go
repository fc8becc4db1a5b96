// Package session holds the master key of an unlocked vault for the
// lifetime of the process and wipes it on lock or shutdown.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

// Unlocker verifies the master password and returns the master salt.
type Unlocker interface {
	Unlock(ctx context.Context, password string) ([]byte, error)
}

// KeyDeriver turns a password and salt into a key.
type KeyDeriver interface {
	DeriveKey(password string, salt []byte) ([]byte, error)
}

// Manager is the single owner of the master key.
type Manager struct {
	mu         sync.RWMutex
	unlocker   Unlocker
	deriver    KeyDeriver
	logger     *slog.Logger
	key        []byte
	salt       []byte
	unlockedAt time.Time
}

// New creates a locked Manager. A nil logger discards output.
func New(unlocker Unlocker, deriver KeyDeriver, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{unlocker: unlocker, deriver: deriver, logger: logger}
}

// Unlock verifies password, derives the master key and keeps it. Any key
// from a previous unlock is wiped first.
func (m *Manager) Unlock(ctx context.Context, password string) error {
	salt, err := m.unlocker.Unlock(ctx, password)
	if err != nil {
		return err
	}
	key, err := m.deriver.DeriveKey(password, salt)
	if err != nil {
		crypto.Zero(salt)
		return fmt.Errorf("failed to derive master key: %w", err)
	}

	if err := crypto.Lock(key); err != nil {
		m.logger.Debug("mlock unavailable for master key", "error", err)
	}

	m.mu.Lock()
	m.wipe()
	m.key = key
	m.salt = salt
	m.unlockedAt = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Debug("vault unlocked")
	return nil
}

// IsAuthenticated reports whether a master key is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key != nil
}

// WithKey runs fn with the master key. The key must not be retained after
// fn returns. Clear blocks until fn is done.
func (m *Manager) WithKey(fn func(key []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.key == nil {
		return core.ErrNotAuthenticated
	}
	return fn(m.key)
}

// Clear wipes the master key and salt. It is safe to call when locked.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return
	}
	m.wipe()
	m.logger.Debug("vault locked")
}

func (m *Manager) wipe() {
	if m.key != nil {
		crypto.Zero(m.key)
		if err := crypto.Unlock(m.key); err != nil {
			m.logger.Debug("munlock failed", "error", err)
		}
	}
	crypto.Zero(m.salt)
	m.key = nil
	m.salt = nil
	m.unlockedAt = time.Time{}
}

// State is the introspection view of a Manager. It never carries key material.
type State struct {
	Authenticated bool      `json:"authenticated"`
	UnlockedAt    time.Time `json:"unlocked_at,omitzero"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{Authenticated: m.key != nil, UnlockedAt: m.unlockedAt}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "session"
}

var (
	_ introspection.Introspectable = (*Manager)(nil)
	_ introspection.Component      = (*Manager)(nil)
)
