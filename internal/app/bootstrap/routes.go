// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/clients/authapi"
	customersuccessfeature "github.com/dalemusser/ezdash/internal/app/features/customersuccess"
	dashboardfeature "github.com/dalemusser/ezdash/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/ezdash/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ezdash/internal/app/features/health"
	homefeature "github.com/dalemusser/ezdash/internal/app/features/home"
	loginfeature "github.com/dalemusser/ezdash/internal/app/features/login"
	logoutfeature "github.com/dalemusser/ezdash/internal/app/features/logout"
	reportsfeature "github.com/dalemusser/ezdash/internal/app/features/reports"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for EzDash.
//
// WAFFLE calls this after configuration, backends and Startup are done.
// It builds the session manager, the two backend clients, the
// view-model registry and the template engine, then mounts one router
// per feature area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	if deps.SessionRecords != nil {
		sessionMgr.UseRecords(deps.SessionRecords)
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Backend clients
	authClient := authapi.New(authapi.Config{
		BaseURL:       appCfg.AuthBaseURL,
		PasswordField: appCfg.AuthPasswordField,
		TokenFields:   appCfg.AuthTokenFields,
		EnvelopeKeys:  appCfg.AuthEnvelopeKeys,
	}, &http.Client{Timeout: timeouts.Short()}, logger)
	analyticsClient := analytics.New(appCfg.AnalyticsBaseURL, nil, analytics.NewMetrics(reg), logger)

	hooks, err := viewmodel.NewRegistry(viewmodel.Options{
		Size:      appCfg.ViewModelCacheSize,
		Propagate: analytics.IsSessionExpired,
	}, logger)
	if err != nil {
		logger.Error("view-model registry init failed", zap.Error(err))
		return nil, err
	}

	pageDeps := shared.NewDeps(analyticsClient, hooks, sessionMgr, errLog, logger)

	csrfMW, err := csrfProtect(appCfg.CSRFKey, secure, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: resolves the Session Store and the
	// SessionUser for every request.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check for load balancers
	var pinger healthfeature.Pinger
	if deps.MongoClient != nil {
		pinger = deps.MongoClient
	}
	healthHandler := healthfeature.NewHandler(pinger, appCfg.SessionBackend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Entry point and catch-all
	homeHandler := homefeature.NewHandler(logger)
	r.Get("/", homeHandler.ServeRoot)
	r.NotFound(homeHandler.ServeNotFound)

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, authClient, errLog, logger)
	r.With(csrfMW).Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, hooks, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Dashboard and its HTMX panels
	dashboardHandler := dashboardfeature.NewHandler(pageDeps)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Reports
	reportsHandler := reportsfeature.NewHandler(pageDeps)
	r.Mount("/analytics", reportsfeature.AnalyticsRoutes(reportsHandler, sessionMgr))
	r.Mount("/geographic", reportsfeature.GeographicRoutes(reportsHandler, sessionMgr))
	r.Mount("/usage", reportsfeature.UsageRoutes(reportsHandler, sessionMgr))
	r.Mount("/documents", reportsfeature.DocumentsRoutes(reportsHandler, sessionMgr))

	// Customer Success roster
	csHandler := customersuccessfeature.NewHandler(pageDeps)
	r.Mount("/customer-success", customersuccessfeature.Routes(csHandler, sessionMgr))

	return r, nil
}

var errCSRFKey = errors.New("could not generate a CSRF key")

// csrfProtect builds the login form CSRF middleware. A blank key gets a
// random one, so tokens do not survive a restart.
func csrfProtect(key string, secure bool, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	authKey := []byte(key)
	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(32)
		if authKey == nil {
			return nil, errCSRFKey
		}
		logger.Warn("csrf_key not set; generated a per-process key")
	}

	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	if secure {
		return protect, nil
	}
	// Over plain http the origin check must be told the scheme.
	return func(next http.Handler) http.Handler {
		inner := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}
