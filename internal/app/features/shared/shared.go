// Package shared holds what every analytics page handler needs: the
// analytics client bound to the request's session, the view-model hook
// registry and the common failure paths.
package shared

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	uierrors "github.com/dalemusser/ezdash/internal/app/features/errors"
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"go.uber.org/zap"
)

// ErrAllSourcesFailed is returned by Gather when no source succeeded.
var ErrAllSourcesFailed = errors.New("every source failed")

// Deps is embedded by page handlers.
type Deps struct {
	Analytics  *analytics.Client
	Hooks      *viewmodel.Registry
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Now        func() time.Time
}

// NewDeps bundles page dependencies. Now defaults to time.Now.
func NewDeps(client *analytics.Client, hooks *viewmodel.Registry, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Deps {
	return &Deps{
		Analytics:  client,
		Hooks:      hooks,
		SessionMgr: sm,
		ErrLog:     errLog,
		Log:        logger,
		Now:        time.Now,
	}
}

// Client returns the analytics client bound to r's Session Store.
func (d *Deps) Client(r *http.Request) *analytics.Client {
	store, _ := auth.StoreFrom(r)
	if store == nil {
		return d.Analytics
	}
	return d.Analytics.For(store)
}

// HookKey identifies a view for the current session.
func (d *Deps) HookKey(r *http.Request, view string, deps ...string) string {
	sid := "anonymous"
	if u, ok := auth.CurrentUser(r); ok && u.SID != "" {
		sid = u.SID
	}
	return viewmodel.Key(sid, view, deps...)
}

// Handled writes the response for errors a view cannot render around:
// an expired session signs the user out, a superseded HTMX reply is
// dropped without a swap. It returns false for anything else.
func (d *Deps) Handled(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case analytics.IsSessionExpired(err):
		d.ErrLog.LogSessionExpired(w, r, d.SessionMgr)
		return true
	case errors.Is(err, viewmodel.ErrSuperseded):
		d.Log.Debug("dropping superseded view reply", zap.String("path", r.URL.Path))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// Load runs fetch through the hook for view and handles the common
// failure paths. ok is false when the response has already been written.
func Load[T any](d *Deps, w http.ResponseWriter, r *http.Request, key, view string, isEmpty func(T) bool,
	fetch func(ctx context.Context, c *analytics.Client) (T, error)) (snap viewmodel.Snapshot[T], ok bool) {

	client := d.Client(r)
	hook := viewmodel.For[T](d.Hooks, key, view, isEmpty)
	snap, err := hook.Load(r.Context(), func(ctx context.Context) (T, error) {
		return fetch(ctx, client)
	})
	if d.Handled(w, r, err) {
		return snap, false
	}
	return snap, true
}

// Panel is what every panel template receives: the view state plus
// the view-specific data.
type Panel[T any] struct {
	State  string
	Data   T
	Reason string
}

// PanelFrom converts a snapshot for a template.
func PanelFrom[T any](snap viewmodel.Snapshot[T]) Panel[T] {
	p := Panel[T]{State: snap.State.String(), Data: snap.Data}
	if snap.State == viewmodel.Failed {
		p.Reason = FailureReason(snap.Err)
	}
	return p
}

// FailureReason is the short text shown under "Unable to load data".
func FailureReason(err error) string {
	var apiErr *analytics.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, analytics.ErrMalformedResponse):
		return "The analytics service returned an unexpected response."
	case errors.Is(err, context.DeadlineExceeded):
		return "The analytics service took too long to respond."
	case errors.Is(err, viewmodel.ErrAllSeriesFailed), errors.Is(err, ErrAllSourcesFailed):
		return "None of the series could be loaded."
	}
	return "The analytics service is unavailable."
}
