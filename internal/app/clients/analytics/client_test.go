package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, token string) *sessionstore.Store {
	t.Helper()
	s := sessionstore.New(sessionstore.NewMemory(), nil)
	require.NoError(t, s.Save(context.Background(), models.Session{Email: "a@b.co", AuthToken: token}))
	return s
}

func backend(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequest_AttachesBearerAndQuery(t *testing.T) {
	var gotAuth string
	var gotQuery url.Values
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"companies":3}`))
	})

	c := New(srv.URL+"/", nil, nil, nil).For(signedIn(t, "tok-1"))
	resp, err := c.Request(context.Background(), "/metrics/summary", url.Values{"a": {"1"}})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, "1", gotQuery.Get("a"))
	require.Equal(t, map[string]any{"companies": float64(3)}, resp)
}

func TestRequest_ReadsTokenFreshEachCall(t *testing.T) {
	var seen []string
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})
	store := signedIn(t, "old")
	c := New(srv.URL, nil, nil, nil).For(store)

	_, err := c.Request(context.Background(), "/x", nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), models.Session{AuthToken: "new"}))
	_, err = c.Request(context.Background(), "/x", nil)
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer old", "Bearer new"}, seen)
}

func TestRequest_401ClearsStore(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	store := signedIn(t, "stale")

	_, err := New(srv.URL, nil, nil, nil).For(store).Request(context.Background(), "/metrics/summary", nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.False(t, store.IsAuthenticated(context.Background()))
	_, ok := store.Load(context.Background())
	require.False(t, ok)
}

func TestRequest_NoTokenNeverCallsBackend(t *testing.T) {
	var calls int32
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	store := sessionstore.New(sessionstore.NewMemory(), nil)

	_, err := New(srv.URL, nil, nil, nil).For(store).Request(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Zero(t, atomic.LoadInt32(&calls))

	_, err = New(srv.URL, nil, nil, nil).Request(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestRequest_Non2xxIsAPIError(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	store := signedIn(t, "tok")

	_, err := New(srv.URL, nil, nil, nil).For(store).Request(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.Status)
	require.Equal(t, "API Error: 404 Not Found", apiErr.Error())
	require.True(t, store.IsAuthenticated(context.Background()))
}

func TestRequest_MalformedAndEmptyBodies(t *testing.T) {
	body := "not json"
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	c := New(srv.URL, nil, nil, nil).For(signedIn(t, "tok"))

	_, err := c.Request(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrMalformedResponse)

	body = "  "
	resp, err := c.Request(context.Background(), "/x", nil)
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestRequest_RecordsMetrics(t *testing.T) {
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(srv.URL, nil, m, nil).For(signedIn(t, "tok"))

	_, err := c.Request(context.Background(), "/metrics/summary", nil)
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/metrics/summary", "200")))
}

func TestEndpoints_QueryShapes(t *testing.T) {
	var got *http.Request
	srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{}`))
	})
	c := New(srv.URL, nil, nil, nil).For(signedIn(t, "tok"))
	ctx := context.Background()
	start := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 19, 23, 59, 59, 999e6, time.UTC)

	_, err := c.MetricsSummary(ctx, start, end)
	require.NoError(t, err)
	require.Equal(t, "/metrics/summary", got.URL.Path)
	q := got.URL.Query()
	require.Equal(t, "2026-10-13T00:00:00.000Z", q.Get("start_date"))
	require.Equal(t, "2026-10-19T23:59:59.999Z", q.Get("end_date"))
	var metrics []string
	require.NoError(t, json.Unmarshal([]byte(q.Get("metrics")), &metrics))
	require.Equal(t, []string{"companies", "documents", "users", "sessions"}, metrics)

	_, err = c.UserGrowth(ctx, "paying", start, end, "day")
	require.NoError(t, err)
	require.Equal(t, "/analytics/users/growth", got.URL.Path)
	require.Equal(t, "paying", got.URL.Query().Get("metric"))
	require.Equal(t, "day", got.URL.Query().Get("interval"))

	_, err = c.CompaniesDetailed(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "/companies/detailed", got.URL.Path)
	require.Equal(t, "100", got.URL.Query().Get("limit"))
	require.Equal(t, "last_activity_desc", got.URL.Query().Get("order_by"))

	_, err = c.CityAnalytics(ctx, "", 0)
	require.NoError(t, err)
	require.False(t, got.URL.Query().Has("state"))
	require.Equal(t, "20", got.URL.Query().Get("limit"))

	_, err = c.CompanyEngagement(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, "[]", got.URL.Query().Get("company_ids"))

	_, err = c.ComparativeAnalytics(ctx, "this_month", "last_month")
	require.NoError(t, err)
	require.Equal(t, `["all"]`, got.URL.Query().Get("metrics"))
}

func TestIsSessionExpired_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("other"), ErrSessionExpired)
	require.True(t, IsSessionExpired(err))
	require.False(t, IsSessionExpired(&APIError{Status: 500}))
}
