package core

import (
	"github.com/aretw0/introspection"
)

// NoteStoreState exposes internal state for observability.
type NoteStoreState struct {
	ActiveLocks    int    `json:"active_locks"`
	RepositoryType string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *NoteStore) State() any {
	return NoteStoreState{
		ActiveLocks:    s.locks.Len(),
		RepositoryType: componentType(s.repo),
	}
}

// ComponentType implements introspection.Component.
func (s *NoteStore) ComponentType() string {
	return "note_store"
}

// VaultStoreState exposes internal state for observability. It never
// includes the password hash or salt.
type VaultStoreState struct {
	RepositoryType string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *VaultStore) State() any {
	return VaultStoreState{RepositoryType: componentType(s.repo)}
}

// ComponentType implements introspection.Component.
func (s *VaultStore) ComponentType() string {
	return "vault_store"
}

func componentType(repo any) string {
	if repo == nil {
		return "unknown"
	}
	if comp, ok := repo.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "repository"
}

var (
	_ introspection.Introspectable = (*NoteStore)(nil)
	_ introspection.Component      = (*NoteStore)(nil)
	_ introspection.Introspectable = (*VaultStore)(nil)
	_ introspection.Component      = (*VaultStore)(nil)
)
