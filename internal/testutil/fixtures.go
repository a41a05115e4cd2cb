package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	uierrors "github.com/dalemusser/ezdash/internal/app/features/errors"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"go.uber.org/zap"
)

// Reply is a canned analytics response. Body is encoded as JSON unless
// it is a string, which is written as-is.
type Reply struct {
	Status int
	Body   any
}

// JSON returns a 200 reply carrying body.
func JSON(body any) Reply { return Reply{Status: http.StatusOK, Body: body} }

// Status returns a reply with no body.
func Status(code int) Reply { return Reply{Status: code} }

// Backend is a fake analytics service keyed by request path. Unknown
// paths answer 404.
type Backend struct {
	Server *httptest.Server

	mu      sync.Mutex
	replies map[string]Reply
	hits    map[string][]url.Values
	auth    []string
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T, replies map[string]Reply) *Backend {
	t.Helper()
	b := &Backend{replies: map[string]Reply{}, hits: map[string][]url.Values{}}
	for k, v := range replies {
		b.replies[k] = v
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.URL.Path] = append(b.hits[r.URL.Path], r.URL.Query())
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	reply, ok := b.replies[r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if reply.Body == nil {
		w.WriteHeader(reply.Status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	if s, ok := reply.Body.(string); ok {
		_, _ = w.Write([]byte(s))
		return
	}
	_ = json.NewEncoder(w).Encode(reply.Body)
}

// URL is the backend base URL.
func (b *Backend) URL() string { return b.Server.URL }

// Set replaces the reply for path.
func (b *Backend) Set(path string, reply Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[path] = reply
}

// Hits returns the query of every request made to path.
func (b *Backend) Hits(path string) []url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]url.Values(nil), b.hits[path]...)
}

// Authorizations returns every Authorization header seen, in order.
func (b *Backend) Authorizations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth...)
}

// PageDeps builds page dependencies against baseURL with a fixed clock.
func PageDeps(t *testing.T, baseURL string, now time.Time) *shared.Deps {
	t.Helper()
	logger := zap.NewNop()
	reg, err := viewmodel.NewRegistry(viewmodel.Options{Size: 64, Propagate: analytics.IsSessionExpired}, logger)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	d := shared.NewDeps(analytics.New(baseURL, nil, nil, logger), reg, nil, uierrors.NewErrorLogger(logger), logger)
	d.Now = func() time.Time { return now }
	return d
}
