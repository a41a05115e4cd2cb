// Package viewmodel holds the per-view loading state machine shared by
// every page and HTMX partial.
//
// A Hook owns one view's state. Each Load bumps a generation counter;
// when the fetch returns, the outcome is applied only if no newer Load
// started meanwhile. Hooks live in a Registry keyed by session and view
// so the counter survives across HTTP requests.
package viewmodel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// State is where a view is in its load cycle.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "idle"
}

// ErrSuperseded is returned by Load when a newer Load on the same hook
// started before this one finished. Its result was discarded.
var ErrSuperseded = errors.New("view load superseded")

// Snapshot is a hook's applied state.
type Snapshot[T any] struct {
	State      State
	Data       T
	Err        error
	Generation uint64
}

// Hook is one view's state slice. It is safe for concurrent use.
type Hook[T any] struct {
	name      string
	isEmpty   func(T) bool
	propagate func(error) bool
	log       *zap.Logger

	mu   sync.Mutex
	gen  uint64
	snap Snapshot[T]
}

// NewHook builds a standalone hook. isEmpty may be nil, in which case
// a successful fetch is always Ready.
func NewHook[T any](name string, isEmpty func(T) bool, logger *zap.Logger) *Hook[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hook[T]{name: name, isEmpty: isEmpty, log: logger}
}

// Snapshot returns the currently applied state.
func (h *Hook[T]) Snapshot() Snapshot[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}

// begin starts a new generation and enters Loading. Earlier data stays
// in place until the new outcome is applied.
func (h *Hook[T]) begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.snap.State = Loading
	h.snap.Generation = h.gen
	return h.gen
}

// Load runs fetch and applies its outcome.
//
// Errors the hook was told to propagate (session expiry) come back to
// the caller untouched. Any other error is logged and becomes Failed.
// If a newer Load began while fetch ran, nothing is applied and
// ErrSuperseded is returned.
func (h *Hook[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (Snapshot[T], error) {
	gen := h.begin()

	data, err := fetch(ctx)
	if err != nil && h.propagate != nil && h.propagate(err) {
		return Snapshot[T]{State: Failed, Err: err, Generation: gen}, err
	}

	next := Snapshot[T]{Generation: gen}
	switch {
	case err != nil:
		next.State = Failed
		next.Err = err
	case h.isEmpty != nil && h.isEmpty(data):
		next.State = Empty
		next.Data = data
	default:
		next.State = Ready
		next.Data = data
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen != gen {
		return next, ErrSuperseded
	}
	if err != nil {
		h.log.Warn("view load failed", zap.String("view", h.name), zap.Error(err))
	}
	h.snap = next
	return next, nil
}
