// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/ezdash/internal/app/clients/authapi"
	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for EzDash.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: auth_base_url, session_name, etc.
//   - Environment variables: EZDASH_AUTH_BASE_URL, EZDASH_SESSION_NAME, etc.
//   - Command-line flags: --auth_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "auth_base_url", Default: "http://localhost:8000", Desc: "Authentication API base URL"},
	{Name: "analytics_base_url", Default: "http://localhost:8000", Desc: "Analytics API base URL"},

	// Auth response contract
	{Name: "auth_password_field", Default: authapi.DefaultPasswordField, Desc: "Login request field that carries the password"},
	{Name: "auth_token_fields", Default: strings.Join(authapi.DefaultTokenFields, ","), Desc: "Comma-separated response fields searched for the bearer token"},
	{Name: "auth_envelope_keys", Default: strings.Join(authapi.DefaultEnvelopeKeys, ","), Desc: "Comma-separated wrapper objects searched before the top level"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "ezdash-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},
	{Name: "session_backend", Default: SessionBackendCookie, Desc: "Session store backend: 'cookie' or 'mongo'"},

	// MongoDB
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (session_backend=mongo)"},
	{Name: "mongo_database", Default: "ezdash", Desc: "MongoDB database name"},

	// View-model hooks
	{Name: "viewmodel_cache_size", Default: viewmodel.DefaultSize, Desc: "Maximum live view-model hooks"},

	// Outbound calls
	{Name: "upstream_timeout", Default: timeouts.DefaultUpstream.String(), Desc: "Deadline for one analytics request"},

	// CSRF
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank generates one per process)"},
}

// LoadConfig loads WAFFLE core config and EzDash config.
//
// Precedence is flags > env (EZDASH_*) > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EZDASH", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		AuthBaseURL:      appValues.String("auth_base_url"),
		AnalyticsBaseURL: appValues.String("analytics_base_url"),

		AuthPasswordField: appValues.String("auth_password_field"),
		AuthTokenFields:   splitList(appValues.String("auth_token_fields")),
		AuthEnvelopeKeys:  splitList(appValues.String("auth_envelope_keys")),

		SessionKey:     appValues.String("session_key"),
		SessionName:    appValues.String("session_name"),
		SessionDomain:  appValues.String("session_domain"),
		SessionMaxAge:  appValues.Duration("session_max_age", 24*time.Hour),
		SessionBackend: strings.ToLower(strings.TrimSpace(appValues.String("session_backend"))),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		ViewModelCacheSize: appValues.Int("viewmodel_cache_size"),
		UpstreamTimeout:    appValues.Duration("upstream_timeout", timeouts.DefaultUpstream),

		CSRFKey: appValues.String("csrf_key"),
	}
	if appCfg.SessionBackend == "" {
		appCfg.SessionBackend = SessionBackendCookie
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig rejects configs that cannot serve a single request:
// relative or non-http backend URLs, an empty session key, an unknown
// session backend, or a bad Mongo URI when Mongo is in use.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	for _, u := range []struct{ key, val string }{
		{"auth_base_url", appCfg.AuthBaseURL},
		{"analytics_base_url", appCfg.AnalyticsBaseURL},
	} {
		if err := validateBaseURL(u.val); err != nil {
			logger.Error("invalid backend URL", zap.String("key", u.key), zap.Error(err))
			return fmt.Errorf("%s: %w", u.key, err)
		}
	}

	if strings.TrimSpace(appCfg.SessionKey) == "" {
		return fmt.Errorf("session_key must not be empty")
	}

	switch appCfg.SessionBackend {
	case SessionBackendCookie:
	case SessionBackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("session_backend=mongo requires mongo_database")
		}
	default:
		return fmt.Errorf("session_backend must be %q or %q, got %q",
			SessionBackendCookie, SessionBackendMongo, appCfg.SessionBackend)
	}

	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
