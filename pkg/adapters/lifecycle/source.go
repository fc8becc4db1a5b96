// Package lifecycle exposes note change events as a lifecycle.Source so
// they can be consumed next to other process signals.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/sealnote/pkg/core"
)

// Option configures a note event source.
type Option func(*noteSource)

// WithFilter drops events for which keep returns false.
func WithFilter(keep func(core.Event) bool) Option {
	return func(s *noteSource) {
		s.keep = keep
	}
}

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	keep   func(core.Event) bool
}

// NewSource bridges a typed note event channel to lifecycle.Event.
// core.Event satisfies lifecycle.Event through its String method.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input closes, then closes
// the output channel.
func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.keep != nil && !s.keep(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
