// Package ipc serves the vault API as newline-delimited JSON over any
// reader/writer pair, one request per line:
//
//	{"id":1,"channel":"notes:get","params":{"id":"...","password":"..."}}
//	{"id":1,"result":{...}}
//	{"id":2,"error":{"kind":"authentication","message":"..."}}
//
// File watcher events are pushed unsolicited as
//
//	{"event":"notes:changed","type":"MODIFY","noteId":"..."}
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/sealnote/pkg/api"
	"github.com/aretw0/sealnote/pkg/core"
)

// MaxRequestSize bounds a single request line.
const MaxRequestSize = 16 << 20

// Request is one call from the client.
type Request struct {
	ID      json.RawMessage `json:"id"`
	Channel string          `json:"channel"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the wire form of a failed call.
type ErrorBody struct {
	Kind    core.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Notification is pushed when a note changes on disk.
type Notification struct {
	Event  string         `json:"event"`
	Type   core.EventType `json:"type"`
	NoteID string         `json:"noteId"`
}

// NotesChanged is the Notification event name.
const NotesChanged = "notes:changed"

// Option configures a Server.
type Option func(*Server)

// WithNotifications pushes every event of src to the client.
func WithNotifications(src lifecycle.Source) Option {
	return func(s *Server) {
		s.events = src
	}
}

// Server dispatches requests to api.Handlers.
type Server struct {
	api    *api.Handlers
	logger *slog.Logger
	events lifecycle.Source
	routes map[string]route

	writeMu sync.Mutex
}

// NewServer creates a Server. A nil logger discards output.
func NewServer(h *api.Handlers, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{api: h, logger: logger}
	s.routes = s.buildRoutes()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve handles requests from r until r is exhausted or ctx is done, then
// locks the vault.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.api.LockVault(context.WithoutCancel(ctx))

	enc := json.NewEncoder(w)

	if s.events != nil {
		if err := s.events.Start(ctx); err != nil {
			return fmt.Errorf("failed to start notifications: %w", err)
		}
		lifecycle.Go(ctx, func(ctx context.Context) error {
			return s.pump(ctx, enc)
		}, lifecycle.WithErrorHandler(func(err error) {
			s.logger.Error("notification pump failed", "error", err)
		}))
	}

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	// Plain goroutine: a blocked Read cannot observe ctx.
	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), MaxRequestSize)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read request: %w", err)
			}
			return nil
		case line := <-lines:
			if len(line) == 0 {
				continue
			}
			if err := s.write(enc, s.handle(ctx, line)); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(nil, fmt.Errorf("%w: malformed request: %v", core.ErrValidation, err))
	}

	rt, ok := s.routes[req.Channel]
	if !ok {
		return errorResponse(req.ID, fmt.Errorf("%w: %q", core.ErrUnknownChannel, req.Channel))
	}

	result, err := rt(ctx, req.Params)
	if err != nil {
		if core.KindOf(err) == core.KindInternal {
			s.logger.Error("request failed", "channel", req.Channel, "error", err)
		} else {
			s.logger.Debug("request rejected", "channel", req.Channel, "error", err)
		}
		return errorResponse(req.ID, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errorResponse(req.ID, fmt.Errorf("failed to encode result: %w", err))
	}
	return Response{ID: req.ID, Result: data}
}

func (s *Server) pump(ctx context.Context, enc *json.Encoder) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.events.Events():
			if !ok {
				return nil
			}
			ce, ok := ev.(core.Event)
			if !ok {
				continue
			}
			n := Notification{Event: NotesChanged, Type: ce.Type, NoteID: ce.ID}
			if err := s.write(enc, n); err != nil {
				return err
			}
		}
	}
}

func (s *Server) write(enc *json.Encoder, v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return enc.Encode(v)
}

func errorResponse(id json.RawMessage, err error) Response {
	if id == nil {
		id = json.RawMessage("null")
	}
	kind := core.KindOf(err)
	if kind == "" {
		kind = core.KindInternal
	}
	return Response{ID: id, Error: &ErrorBody{Kind: kind, Message: err.Error()}}
}

// decodeParams unmarshals params into v. Absent params leave v untouched.
func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("%w: invalid params: %v", core.ErrValidation, err)
	}
	return nil
}
