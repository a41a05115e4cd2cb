// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// pageData is the view model for the error page.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// inlineData is the view model for an HTMX error fragment.
type inlineData struct {
	Message string
}

// ErrorLogger logs handler failures and renders a friendly response.
// Internal detail goes to the log only; the user sees userMsg.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) log(level func(string, ...zap.Field), r *http.Request, msg string, err error) {
	level(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
}

func (e *ErrorLogger) page(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Status:  status,
		Message: userMsg,
	})
}

func (e *ErrorLogger) inline(w http.ResponseWriter, userMsg string) {
	// htmx only swaps 2xx responses by default.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	templates.RenderSnippet(w, "error_inline", inlineData{Message: userMsg})
}

// LogServerError logs err and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(e.Log.Error, r, msg, err)
	e.page(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// HTMXLogServerError logs err and renders an inline error fragment.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(e.Log.Error, r, msg, err)
	if !auth.IsHTMX(r) {
		e.page(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
		return
	}
	e.inline(w, userMsg)
}

// LogBadRequest logs err at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(e.Log.Warn, r, msg, err)
	e.page(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogSessionExpired handles a token the analytics backend rejected.
// The Session Store is already cleared; this tears down the cookie and
// sends the browser to sign in.
func (e *ErrorLogger) LogSessionExpired(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager) {
	e.Log.Info("session expired upstream; signing out",
		zap.String("path", r.URL.Path))
	if sm != nil {
		if err := sm.Destroy(w, r); err != nil {
			e.Log.Warn("destroy session after expiry failed", zap.Error(err))
		}
	}
	auth.RedirectToLogin(w, r)
}
