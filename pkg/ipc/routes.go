package ipc

import (
	"context"
	"encoding/json"

	"github.com/aretw0/sealnote/pkg/core"
)

type route func(ctx context.Context, params json.RawMessage) (any, error)

type passwordParams struct {
	Password string `json:"password"`
}

type noteParams struct {
	ID       string `json:"id"`
	Password string `json:"password,omitempty"`
}

type updateParams struct {
	ID       string          `json:"id"`
	Updates  core.NoteUpdate `json:"updates"`
	Password string          `json:"password,omitempty"`
}

type searchParams struct {
	Query string `json:"query"`
}

// Channel names.
const (
	ChannelIsFirstTime = "vault:is-first-time"
	ChannelCreateVault = "vault:create"
	ChannelUnlockVault = "vault:unlock"
	ChannelLockVault   = "vault:lock"
	ChannelVaultStatus = "vault:status"
	ChannelListNotes   = "notes:list"
	ChannelGetNote     = "notes:get"
	ChannelUnlockNote  = "notes:unlock"
	ChannelCreateNote  = "notes:create"
	ChannelUpdateNote  = "notes:update"
	ChannelDeleteNote  = "notes:delete"
	ChannelSearchNotes = "notes:search"
	ChannelCheckNotes  = "notes:check"
)

func (s *Server) buildRoutes() map[string]route {
	h := s.api
	return map[string]route{
		ChannelIsFirstTime: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return h.IsFirstTime(ctx), nil
		},
		ChannelCreateVault: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p passwordParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.CreateVault(ctx, p.Password), nil
		},
		ChannelUnlockVault: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p passwordParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.UnlockVault(ctx, p.Password), nil
		},
		ChannelLockVault: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return h.LockVault(ctx), nil
		},
		ChannelVaultStatus: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return h.VaultStatus(ctx)
		},
		ChannelListNotes: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return h.ListNotes(ctx)
		},
		ChannelGetNote: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p noteParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.GetNote(ctx, p.ID, p.Password)
		},
		ChannelUnlockNote: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p noteParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.UnlockNote(ctx, p.ID, p.Password)
		},
		ChannelCreateNote: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p core.CreateNote
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.CreateNote(ctx, p)
		},
		ChannelUpdateNote: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p updateParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.UpdateNote(ctx, p.ID, p.Updates, p.Password)
		},
		ChannelDeleteNote: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p noteParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.DeleteNote(ctx, p.ID)
		},
		ChannelSearchNotes: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p searchParams
			if err := decodeParams(raw, &p); err != nil {
				return nil, err
			}
			return h.SearchNotes(ctx, p.Query)
		},
		ChannelCheckNotes: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return h.CheckNotes(ctx)
		},
	}
}

// Channels lists every channel the server answers.
func (s *Server) Channels() []string {
	out := make([]string, 0, len(s.routes))
	for name := range s.routes {
		out = append(out, name)
	}
	return out
}
