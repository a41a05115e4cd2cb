// Package authapi exchanges credentials with the hosted authentication
// backend and persists the resulting Session.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"go.uber.org/zap"
)

// Defaults for the login response contract. The first token field and
// the first user field are the pinned contract; the rest are accepted
// fallbacks and logged when used.
var (
	DefaultPasswordField = "pass"
	DefaultTokenFields   = []string{`"authToken"`, "authToken", "auth_token", "token", "Token", "access_token", "accessToken", "jwt", "JWT"}
	DefaultEnvelopeKeys  = []string{"result"}
	userFields           = []string{`"user"`, "user"}
)

// ErrNoToken is wrapped by the AuthenticationError returned when a 2xx
// response carries no token anywhere we look.
var ErrNoToken = errors.New("no token in login response")

// AuthenticationError is a login failure shown to the user as-is.
type AuthenticationError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string { return e.Message }
func (e *AuthenticationError) Unwrap() error { return e.Err }

// HTTPClient is the subset of *http.Client the client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionSaver is where a successful login is persisted.
type SessionSaver interface {
	Save(ctx context.Context, sess models.Session) error
}

// SessionClearer is what Logout clears.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Config describes the backend and its response contract.
type Config struct {
	BaseURL       string
	PasswordField string
	TokenFields   []string
	EnvelopeKeys  []string
}

// Client talks to the authentication backend.
type Client struct {
	cfg  Config
	http HTTPClient
	log  *zap.Logger
}

// New builds a Client. Empty contract fields fall back to the defaults.
func New(cfg Config, httpc HTTPClient, logger *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PasswordField == "" {
		cfg.PasswordField = DefaultPasswordField
	}
	if len(cfg.TokenFields) == 0 {
		cfg.TokenFields = DefaultTokenFields
	}
	if cfg.EnvelopeKeys == nil {
		cfg.EnvelopeKeys = DefaultEnvelopeKeys
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, http: httpc, log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Login                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Login posts the credentials to {base}/auth/login, extracts the
// Session from the response and saves it into store.
func (c *Client) Login(ctx context.Context, store SessionSaver, email, password string) (models.Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":             email,
		c.cfg.PasswordField: password,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("encode login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return models.Session{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Session{}, fmt.Errorf("read login response: %w", err)
	}

	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := probe.String(payload, "message", "error")
		if msg == "" {
			msg = fmt.Sprintf("Login failed: %d", resp.StatusCode)
		}
		return models.Session{}, &AuthenticationError{Status: resp.StatusCode, Message: msg}
	}

	sess, err := c.extract(payload)
	if err != nil {
		return models.Session{}, err
	}
	sess.Email = email

	if err := store.Save(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Logout clears the stored session. The backend holds no server-side
// logout endpoint.
func (c *Client) Logout(ctx context.Context, store SessionClearer) error {
	return store.Clear(ctx)
}

// extract locates the token and user profile in a 2xx login payload.
// Envelopes are searched first, then the top level.
func (c *Client) extract(payload map[string]any) (models.Session, error) {
	candidates := make([]map[string]any, 0, len(c.cfg.EnvelopeKeys)+1)
	for _, k := range c.cfg.EnvelopeKeys {
		if env, ok := probe.Object(payload, k); ok {
			candidates = append(candidates, env)
		}
	}
	if payload != nil {
		candidates = append(candidates, payload)
	}

	for _, obj := range candidates {
		token, field := c.token(obj)
		if token == "" {
			continue
		}
		if field != c.cfg.TokenFields[0] {
			c.log.Warn("login response token found under fallback field",
				zap.String("field", field),
				zap.String("expected", c.cfg.TokenFields[0]))
		}

		sess := models.Session{AuthToken: token}
		user, ok := probe.Object(obj, userFields...)
		if !ok {
			user = obj
		}
		sess.UserID = probe.String(user, "id", "user_id")
		if sess.UserID == "" {
			sess.UserID = probe.String(obj, "id", "user_id")
		}
		sess.FirstName = probe.String(user, "first_name", "firstName")
		sess.LastName = probe.String(user, "last_name", "lastName")
		return sess, nil
	}

	c.log.Warn("login response carried no token", zap.Int("top_level_keys", len(payload)))
	return models.Session{}, &AuthenticationError{
		Status:  http.StatusOK,
		Message: "Authentication failed - no token received",
		Err:     ErrNoToken,
	}
}

func (c *Client) token(obj map[string]any) (string, string) {
	for _, f := range c.cfg.TokenFields {
		if s, ok := obj[f].(string); ok && s != "" {
			return s, f
		}
	}
	return "", ""
}
