package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"github.com/dalemusser/ezdash/internal/domain/models"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in user injected into r.Context().
type SessionUser struct {
	SID     string
	Session models.Session
}

// Name is what the navigation chrome shows.
func (u *SessionUser) Name() string { return u.Session.DisplayName() }

type ctxKey string

const (
	currentUserKey  ctxKey = "currentUser"
	sessionStoreKey ctxKey = "sessionStore"
)

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// StoreFrom returns the request's Session Store set by LoadSessionUser.
func StoreFrom(r *http.Request) (*sessionstore.Store, bool) {
	s, ok := r.Context().Value(sessionStoreKey).(*sessionstore.Store)
	return s, ok && s != nil
}

// LoadSessionUser resolves the CheckingSession state: it binds a
// Session Store to the request and, when that store holds a token,
// injects the user into context.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := m.SessionStore(w, r)
		ctx := context.WithValue(r.Context(), sessionStoreKey, store)

		if store.IsAuthenticated(ctx) {
			if sess, ok := store.Load(ctx); ok {
				u := &SessionUser{SID: m.SessionID(r), Session: sess}
				if u.Session.AuthToken == "" {
					u.Session.AuthToken = store.Token(ctx)
				}
				ctx = context.WithValue(ctx, currentUserKey, u)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		RedirectToLogin(w, r)
	})
}

// RedirectToLogin sends the browser to the login entry point, keeping
// the current URI as the return target.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	dest := "/login?return=" + url.QueryEscape(returnTarget(r))

	// HTMX: full-page client redirect (no partial swap)
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// returnTarget is the page to come back to. An HTMX partial returns to
// the page that requested it, not to the fragment URL.
func returnTarget(r *http.Request) string {
	if IsHTMX(r) {
		if u, err := url.Parse(r.Header.Get("HX-Current-URL")); err == nil && strings.HasPrefix(u.Path, "/") {
			return u.RequestURI()
		}
	}
	return r.URL.RequestURI()
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// WithTestUser injects u without a cookie. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestStore injects a Session Store without a cookie. Tests only.
func WithTestStore(r *http.Request, s *sessionstore.Store) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionStoreKey, s))
}

func wantsHTML(r *http.Request) bool {
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
