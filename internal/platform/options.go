package platform

import (
	"log/slog"

	"github.com/aretw0/sealnote/pkg/core"
)

// Repository is the storage a vault needs: the vault record and the notes.
type Repository interface {
	core.VaultRepository
	core.NoteRepository
}

// options holds the internal configuration of an App.
type options struct {
	repository   Repository
	crypto       core.Crypto
	logger       *slog.Logger
	readOnly     bool
	mustExist    bool
	devSafety    bool
	watch        bool
	errorHandler func(error)
}

// Option configures an App.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCrypto replaces the default crypto engine, typically with one using
// cheaper key derivation parameters in tests.
func WithCrypto(c core.Crypto) Option {
	return func(o *options) {
		o.crypto = c
	}
}

// WithRepository injects a custom storage adapter. The filesystem adapter
// is skipped when set.
func WithRepository(repo Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithMustExist fails Open when the data directory does not exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly and skips creating
// directories. Read-only apps also bypass the dev sandbox.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`: by default the default data directory is replaced by one under
// the system temp dir.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatch starts the note watcher on Open. Events are read from
// App.Events.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithWatcherErrorHandler receives faults of the note watcher, which are
// otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
