package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/ezdash/internal/app/clients/authapi"
	uierrors "github.com/dalemusser/ezdash/internal/app/features/errors"
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/limits"
	"github.com/dalemusser/ezdash/internal/app/system/navigation"
	"github.com/dalemusser/ezdash/internal/app/system/ratelimit"
	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials for a Session and saves it.
type Authenticator interface {
	Login(ctx context.Context, store authapi.SessionSaver, email, password string) (models.Session, error)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Auth       Authenticator
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(sessionMgr *auth.SessionManager, authClient Authenticator, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Auth:       authClient,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.LoginReturn), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLoginFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	if h.Limiter != nil {
		if msg := h.Limiter.Check(r, email); msg != "" {
			h.Log.Warn("login throttled",
				zap.String("email", email),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithError(w, r, msg, email)
			return
		}
	}

	store, ok := auth.StoreFrom(r)
	if !ok {
		store = h.SessionMgr.SessionStore(w, r)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "login")
	defer cancel()

	if _, err := h.Auth.Login(ctx, store, email, password); err != nil {
		var authErr *authapi.AuthenticationError
		if errors.As(err, &authErr) {
			h.Log.Info("login rejected",
				zap.String("email", email),
				zap.Int("status", authErr.Status))
		} else {
			h.Log.Error("login request failed", zap.String("email", email), zap.Error(err))
		}
		h.renderFormWithError(w, r, FailureMessage(err), email)
		return
	}

	if h.Limiter != nil {
		h.Limiter.Succeeded(email)
	}
	h.Log.Info("user signed in", zap.String("email", email))

	dest := navigation.SafeBackURL(r, navigation.LoginReturn)
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// FailureMessage is the text shown under the form for a failed login.
func FailureMessage(err error) string {
	var authErr *authapi.AuthenticationError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The sign-in service took too long to respond. Please try again."
	}
	return "Unable to reach the sign-in service. Please try again."
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: strings.TrimSpace(r.FormValue("return")),
	})
}
