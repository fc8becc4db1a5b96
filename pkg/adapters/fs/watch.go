package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/sealnote/pkg/core"
)

// Watch reports changes to note records made by anyone, this process
// included. Bursts touching the same note (content then metadata) are
// merged into a single event. The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.NotesPath()); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.NotesPath(), err)
	}

	pairs, err := r.Scan(ctx)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	known := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		known[p.ID] = true
	}

	w := &noteWatcher{
		repo:    r,
		watcher: watcher,
		known:   known,
		pending: make(map[string]core.EventType),
		due:     make(chan string, 64),
		out:     make(chan core.Event),
	}

	r.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.handleError(fmt.Errorf("watcher: %w", err))
	}))

	return w.out, nil
}

func (r *Repository) handleError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("fs watcher fault", "error", err)
}

type noteWatcher struct {
	repo    *Repository
	watcher *fsnotify.Watcher
	known   map[string]bool
	pending map[string]core.EventType
	due     chan string
	out     chan core.Event
}

func (w *noteWatcher) run(ctx context.Context) (err error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
		cancel()
		_ = w.watcher.Close()
		w.repo.setWatcherActive(false)
		close(w.out)
	}()

	for {
		select {
		case <-runCtx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(runCtx, event)

		case id := <-w.due:
			t, ok := w.pending[id]
			if !ok {
				continue
			}
			delete(w.pending, id)
			select {
			case w.out <- core.Event{Type: t, ID: id, Timestamp: time.Now().Unix()}:
			case <-runCtx.Done():
				return nil
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.handleError(wErr)
		}
	}
}

// process maps a raw fsnotify event onto a pending note event.
func (w *noteWatcher) process(ctx context.Context, event fsnotify.Event) {
	id, _, ok := w.repo.parseRecordName(filepath.Base(event.Name), recordPattern)
	if !ok {
		return
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		// Atomic writes land as a rename, which shows up as Create.
		if w.known[id] {
			t = core.EventModify
		} else {
			t = core.EventCreate
		}
		w.known[id] = true
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
		delete(w.known, id)
	default:
		return
	}

	w.repo.config.Logger.Debug("note file event", "id", id, "type", t)

	prev, scheduled := w.pending[id]
	if prev == core.EventCreate && t == core.EventModify {
		t = core.EventCreate
	}
	w.pending[id] = t
	if scheduled {
		return
	}

	time.AfterFunc(w.repo.config.DebounceInterval, func() {
		select {
		case w.due <- id:
		case <-ctx.Done():
		}
	})
}
