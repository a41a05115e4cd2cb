// Package sessionstore persists the signed-in user's Session under two
// well-known keys: the full record and the bare bearer token.
//
// The store itself is backend-agnostic. It sits on a small key/value
// interface so the same logic runs against a signed cookie, a MongoDB
// collection, or an in-memory map in tests.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalemusser/ezdash/internal/domain/models"
	"go.uber.org/zap"
)

// Keys used for the two persisted entries.
const (
	AuthKey  = "ezquote_auth"
	TokenKey = "ezquote_token"
)

// KV is the storage a Store writes through to.
// Get returns (nil, nil) when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes a Session through a KV.
type Store struct {
	kv  KV
	log *zap.Logger
}

// New wraps kv. A nil logger is replaced with a no-op logger.
func New(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, log: logger}
}

// Save persists the full record and the bare token.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, AuthKey, raw); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey, []byte(sess.AuthToken)); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

// Load returns the stored Session. Missing, unreadable or malformed
// records all come back as (zero, false).
func (s *Store) Load(ctx context.Context) (models.Session, bool) {
	raw, err := s.kv.Get(ctx, AuthKey)
	if err != nil {
		s.log.Warn("session record read failed", zap.Error(err))
		return models.Session{}, false
	}
	if len(raw) == 0 {
		return models.Session{}, false
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("discarding malformed session record", zap.Error(err))
		return models.Session{}, false
	}
	return sess, true
}

// Token returns the bearer token, preferring the bare token key and
// falling back to the full record.
func (s *Store) Token(ctx context.Context) string {
	raw, err := s.kv.Get(ctx, TokenKey)
	if err == nil && len(raw) > 0 {
		return string(raw)
	}
	if sess, ok := s.Load(ctx); ok {
		return sess.AuthToken
	}
	return ""
}

// Clear removes both keys. Both deletes are attempted even if the
// first one fails.
func (s *Store) Clear(ctx context.Context) error {
	errAuth := s.kv.Delete(ctx, AuthKey)
	errTok := s.kv.Delete(ctx, TokenKey)
	if errAuth != nil {
		return fmt.Errorf("clear session record: %w", errAuth)
	}
	if errTok != nil {
		return fmt.Errorf("clear session token: %w", errTok)
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	raw, err := s.kv.Get(ctx, TokenKey)
	return err == nil && len(raw) > 0
}
