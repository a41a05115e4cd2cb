package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents a signed-in session for testing HTTP handlers.
type TestUser struct {
	SID       string
	Email     string
	FirstName string
	LastName  string
	Token     string
}

// DefaultUser returns a TestUser with a fresh session id and token.
func DefaultUser() TestUser {
	return TestUser{
		SID:       uuid.NewString(),
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Token:     "test-token",
	}
}

func (u TestUser) session() models.Session {
	return models.Session{
		AuthToken: u.Token,
		UserID:    "u-1",
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// WithUser puts the user and a memory-backed Session Store holding its
// session into the request context. This bypasses the session
// middleware. The store is returned so tests can observe Clear.
func WithUser(t *testing.T, r *http.Request, user TestUser) (*http.Request, *sessionstore.Store) {
	t.Helper()
	store := sessionstore.New(sessionstore.NewMemory(), zap.NewNop())
	if err := store.Save(context.Background(), user.session()); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	r = auth.WithTestUser(r, &auth.SessionUser{SID: user.SID, Session: user.session()})
	return auth.WithTestStore(r, store), store
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a signed-in user.
func NewAuthenticatedRequest(t *testing.T, method, target string, user TestUser) *http.Request {
	t.Helper()
	r, _ := WithUser(t, httptest.NewRequest(method, target, nil), user)
	return r
}

// HTMX marks r as an HTMX request.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertHXRedirect checks for an HTMX client-side redirect whose target
// starts with prefix.
func (r *ResponseRecorder) AssertHXRedirect(t interface{ Errorf(string, ...any) }, prefix string) {
	if got := r.Header().Get("HX-Redirect"); !strings.HasPrefix(got, prefix) {
		t.Errorf("HX-Redirect: got %q, want prefix %q", got, prefix)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
