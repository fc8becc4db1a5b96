package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/sealnote/pkg/adapters/fs"
)

// Init prepares the repository for the data directory at path and returns
// it along with the path actually used.
func Init(ctx context.Context, path string, opts ...Option) (Repository, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if o.repository != nil {
		if err := o.repository.Initialize(ctx); err != nil {
			return nil, "", err
		}
		return o.repository, path, nil
	}

	resolved := path
	if o.devSafety && !o.readOnly && IsDevRun() {
		resolved = SandboxPath(path)
		if resolved != path {
			logger.Warn("running in SAFE MODE (dev/test sandbox)", "original_path", path, "resolved_path", resolved)
		}
	}

	_ = CheckPermissions(resolved, logger)

	repo := fs.NewRepository(fs.Config{
		Path:         resolved,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	})
	if err := repo.Initialize(ctx); err != nil {
		return nil, "", err
	}
	return repo, resolved, nil
}
