package sealnote

import (
	"context"
	"log/slog"

	"github.com/aretw0/sealnote/internal/platform"
	"github.com/aretw0/sealnote/pkg/core"
)

// --- Types ---

// App is a fully wired vault. See platform.App.
type App = platform.App

// Repository is the storage a vault needs.
type Repository = platform.Repository

// FileConfig is the content of the optional config.yaml.
type FileConfig = platform.FileConfig

// --- Configuration ---

// Option configures Open.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithCrypto replaces the default crypto engine.
func WithCrypto(c core.Crypto) Option {
	return platform.WithCrypto(c)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo Repository) Option {
	return platform.WithRepository(repo)
}

// WithMustExist fails Open when the data directory does not exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` / `go test` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatch starts the note watcher on Open.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// WithWatcherErrorHandler receives faults of the note watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open wires a vault on the data directory at path. The vault itself is
// created or unlocked through App.API.
func Open(ctx context.Context, path string, opts ...Option) (*App, error) {
	return platform.New(ctx, path, opts...)
}

// --- Paths & Config ---

// LoadConfig reads a config.yaml. A missing file yields the zero config.
func LoadConfig(path string) (FileConfig, error) {
	return platform.LoadConfig(path)
}

// DefaultConfigPath returns the location of the user's config.yaml.
func DefaultConfigPath() (string, error) {
	return platform.DefaultConfigPath()
}

// ResolveDataDir picks the data directory from the flag value,
// $SEALNOTE_DIR, the config file and the platform default, in that order.
func ResolveDataDir(flagDir string, cfg FileConfig) (string, error) {
	return platform.ResolveDataDir(flagDir, cfg)
}

// IsDevRun reports whether the process runs via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
