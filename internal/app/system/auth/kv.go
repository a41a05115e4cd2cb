package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// cookieKV stores Session Store entries inside the signed cookie and
// rewrites the cookie on every change. Concurrent upstream calls in one
// request share it, so every access to sess and the response headers
// goes through mu.
type cookieKV struct {
	mu   sync.Mutex
	m    *SessionManager
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

func (c *cookieKV) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.sess.Values[key].(string)
	if !ok || v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

func (c *cookieKV) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.ensureSIDLocked(); err != nil {
		return err
	}
	c.sess.Values[key] = string(value)
	return c.save()
}

func (c *cookieKV) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sess.Values[key]; !ok {
		return nil
	}
	delete(c.sess.Values, key)
	return c.save()
}

// sid returns the cookie's session id, or "".
func (c *cookieKV) sid() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, _ := c.sess.Values[sidKey].(string)
	return id
}

// ensureSID returns the cookie's session id, minting one if needed.
func (c *cookieKV) ensureSID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureSIDLocked()
}

func (c *cookieKV) ensureSIDLocked() (string, error) {
	if id, _ := c.sess.Values[sidKey].(string); id != "" {
		return id, nil
	}
	id := uuid.NewString()
	c.sess.Values[sidKey] = id
	return id, c.save()
}

// save must be called with mu held.
func (c *cookieKV) save() error {
	dropSetCookie(c.w.Header(), c.m.name)
	return c.sess.Save(c.r, c.w)
}

// recordKV resolves the server-side record lazily so anonymous visitors
// never get one.
type recordKV struct {
	cookie  *cookieKV
	records RecordBackend
}

func (k *recordKV) id() string {
	return k.cookie.sid()
}

func (k *recordKV) Get(ctx context.Context, key string) ([]byte, error) {
	id := k.id()
	if id == "" {
		return nil, nil
	}
	return k.records.For(id).Get(ctx, key)
}

func (k *recordKV) Set(ctx context.Context, key string, value []byte) error {
	id, err := k.cookie.ensureSID()
	if err != nil {
		return err
	}
	return k.records.For(id).Set(ctx, key, value)
}

func (k *recordKV) Delete(ctx context.Context, key string) error {
	id := k.id()
	if id == "" {
		return nil
	}
	return k.records.For(id).Delete(ctx, key)
}

// dropSetCookie removes pending Set-Cookie headers for name so that a
// cookie rewritten several times in one request is sent once.
func dropSetCookie(h http.Header, name string) {
	prefix := name + "="
	kept := h["Set-Cookie"][:0]
	for _, v := range h["Set-Cookie"] {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		h.Del("Set-Cookie")
		return
	}
	h["Set-Cookie"] = kept
}
