package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// sidKey holds the per-browser session id inside the cookie.
const sidKey = "sid"

// RecordBackend keeps Session Store entries server-side, keyed by the
// session id carried in the cookie.
type RecordBackend interface {
	For(id string) sessionstore.KV
	Delete(ctx context.Context, id string) error
}

// SessionManager owns the signed session cookie and hands out a
// per-request Session Store bound to it.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	records RecordBackend
}

// NewSessionManager builds the cookie store.
//
// In production (secure=true) cookies are Secure + SameSite=None. In
// local dev over http://localhost use secure=false so cookies are
// accepted (SameSite=Lax).
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "ezdash-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	store.MaxAge(opts.MaxAge)

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// UseRecords switches Session Store entries from the cookie itself to
// a server-side backend. The cookie then only carries the session id.
func (m *SessionManager) UseRecords(b RecordBackend) {
	m.records = b
}

// Store exposes the underlying cookie store.
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// Name is the cookie name.
func (m *SessionManager) Name() string { return m.name }

// GetSession returns the gorilla session for r. On decode failure a
// fresh session is returned together with the error.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SessionID returns the id stored in the cookie, or "".
func (m *SessionManager) SessionID(r *http.Request) string {
	sess, _ := m.GetSession(r)
	if sess == nil {
		return ""
	}
	id, _ := sess.Values[sidKey].(string)
	return id
}

// SessionStore returns a Session Store bound to this request's cookie.
func (m *SessionManager) SessionStore(w http.ResponseWriter, r *http.Request) *sessionstore.Store {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Debug("session cookie decode failed; starting fresh", zap.Error(err))
	}
	c := &cookieKV{m: m, w: w, r: r, sess: sess}
	if m.records == nil {
		return sessionstore.New(c, m.log)
	}
	return sessionstore.New(&recordKV{cookie: c, records: m.records}, m.log)
}

// Destroy clears the Session Store, removes any server-side record and
// expires the cookie.
func (m *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	if err := m.SessionStore(w, r).Clear(ctx); err != nil {
		m.log.Warn("session clear failed", zap.Error(err))
	}

	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during destroy", zap.Error(err))
	}
	if m.records != nil {
		if id, _ := sess.Values[sidKey].(string); id != "" {
			if err := m.records.Delete(ctx, id); err != nil {
				m.log.Warn("session record delete failed", zap.Error(err))
			}
		}
	}

	// Deletion cookie must match the store's settings.
	if opts := m.store.Options; opts != nil {
		cp := *opts
		sess.Options = &cp
	}
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	dropSetCookie(w.Header(), m.name)
	return sess.Save(r, w)
}
