package viewmodel

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultSize bounds the number of live hooks when no size is configured.
const DefaultSize = 4096

// Options configures a Registry.
type Options struct {
	Size int
	// Propagate selects errors a hook must hand back to its caller
	// instead of turning them into Failed.
	Propagate func(error) bool
}

// Registry is a bounded LRU of hooks. A hook evicted and later re-created
// starts a fresh generation, which only ever loses a stale reply.
type Registry struct {
	mu        sync.Mutex
	cache     *lru.Cache[string, any]
	propagate func(error) bool
	log       *zap.Logger
}

// NewRegistry builds a registry.
func NewRegistry(opts Options, logger *zap.Logger) (*Registry, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, any](opts.Size)
	if err != nil {
		return nil, fmt.Errorf("viewmodel registry: %w", err)
	}
	return &Registry{cache: cache, propagate: opts.Propagate, log: logger}, nil
}

// Len reports the number of live hooks.
func (r *Registry) Len() int { return r.cache.Len() }

// Forget drops every hook belonging to sid. Called on logout.
func (r *Registry) Forget(sid string) {
	prefix := sid + "|"
	for _, k := range r.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			r.cache.Remove(k)
		}
	}
}

// Key identifies one hook: a session, a view and the view's inputs.
func Key(sid, view string, deps ...string) string {
	parts := append([]string{sid, view}, deps...)
	return strings.Join(parts, "|")
}

// For returns the hook stored under key, creating it on first use.
// A hook of a different type under the same key is replaced.
func For[T any](r *Registry, key, view string, isEmpty func(T) bool) *Hook[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(key); ok {
		if h, ok := v.(*Hook[T]); ok {
			return h
		}
	}
	h := NewHook(view, isEmpty, r.log)
	h.propagate = r.propagate
	r.cache.Add(key, h)
	return h
}
