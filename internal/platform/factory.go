package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/sealnote/pkg/api"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
	"github.com/aretw0/sealnote/pkg/session"
)

// App is a fully wired vault.
type App struct {
	Path    string
	Repo    Repository
	Vault   *core.VaultStore
	Notes   *core.NoteStore
	Session *session.Manager
	API     *api.Handlers

	events    <-chan core.Event
	stopWatch context.CancelFunc
	closeOnce sync.Once
}

// app, err := platform.New(ctx, "/path/to/data", platform.WithWatch(true))
func New(ctx context.Context, path string, opts ...Option) (*App, error) {
	repo, resolved, err := Init(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c := o.crypto
	if c == nil {
		c = crypto.Default()
	}

	vault := core.NewVaultStore(repo, c, o.logger)
	notes := core.NewNoteStore(repo, c, vault, o.logger)
	sess := session.New(vault, c, o.logger)

	app := &App{
		Path:    resolved,
		Repo:    repo,
		Vault:   vault,
		Notes:   notes,
		Session: sess,
		API:     api.New(vault, notes, sess, o.logger),
	}

	if o.watch {
		w, ok := repo.(core.Watchable)
		if !ok {
			return nil, fmt.Errorf("repository does not support watching")
		}
		watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		events, err := w.Watch(watchCtx)
		if err != nil {
			cancel()
			return nil, err
		}
		app.events = events
		app.stopWatch = cancel
	}

	if o.logger != nil {
		o.logger.Debug("vault opened", slog.String("path", resolved), slog.Bool("watch", o.watch))
	}
	return app, nil
}

// Events returns note change events, or nil when the app was opened
// without WithWatch.
func (a *App) Events() <-chan core.Event {
	return a.events
}

// Close stops the watcher and wipes the session key.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.stopWatch != nil {
			a.stopWatch()
		}
		a.Session.Clear()
	})
	return nil
}
