// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Session backends.
const (
	SessionBackendCookie = "cookie"
	SessionBackendMongo  = "mongo"
)

// AppConfig holds EzDash-specific configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and CORS. Everything
// the dashboard itself needs lives here and is passed to every
// lifecycle hook.
type AppConfig struct {
	// Backends
	AuthBaseURL      string // base URL of the authentication API (POST /auth/login)
	AnalyticsBaseURL string // base URL of the analytics API

	// Auth response contract
	AuthPasswordField string   // request body field carrying the password
	AuthTokenFields   []string // response fields searched for the bearer token
	AuthEnvelopeKeys  []string // wrapper objects unwrapped before the token search

	// Session management
	SessionKey     string        // secret for signing the session cookie
	SessionName    string        // cookie name (default: ezdash-session)
	SessionDomain  string        // cookie domain (blank means current host)
	SessionMaxAge  time.Duration // cookie lifetime and idle threshold for server-side records
	SessionBackend string        // "cookie" or "mongo"

	// MongoDB (only used when SessionBackend is "mongo")
	MongoURI      string
	MongoDatabase string

	// View-model hooks
	ViewModelCacheSize int // max live hooks across all sessions

	// Outbound calls
	UpstreamTimeout time.Duration // deadline for one analytics request

	// CSRF protection for the login form. Blank generates a per-process key.
	CSRFKey string
}

// UsesMongo reports whether server-side session records are enabled.
func (c AppConfig) UsesMongo() bool {
	return c.SessionBackend == SessionBackendMongo
}
