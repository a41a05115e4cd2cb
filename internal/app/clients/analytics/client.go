// Package analytics is the authenticated client for the analytics
// backend. Every call attaches the bearer token from the session store
// and a 401 clears that store.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// TokenStore is the part of the session store the client needs.
type TokenStore interface {
	Token(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Client is safe for concurrent use. Bind it to a request's session
// with For before calling Request.
type Client struct {
	base    string
	rt      http.RoundTripper
	metrics *Metrics
	log     *zap.Logger
	store   TokenStore
}

// New builds an unbound Client. rt may be nil for the default transport.
func New(baseURL string, rt http.RoundTripper, metrics *Metrics, logger *zap.Logger) *Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		rt:      rt,
		metrics: metrics,
		log:     logger,
	}
}

// For returns a copy of c bound to store.
func (c *Client) For(store TokenStore) *Client {
	cp := *c
	cp.store = store
	return &cp
}

// storeTokenSource hands the stored token to oauth2.Transport.
type storeTokenSource struct {
	ctx   context.Context
	store TokenStore
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	if s.store == nil {
		return nil, ErrSessionExpired
	}
	tok := s.store.Token(s.ctx)
	if tok == "" {
		return nil, ErrSessionExpired
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// Request performs GET {base}{path}?query and returns the decoded JSON
// body. An empty body decodes to nil.
func (c *Client) Request(ctx context.Context, path string, query url.Values) (any, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), c.log, "analytics "+path)
	defer cancel()

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := &http.Client{Transport: &oauth2.Transport{
		Source: storeTokenSource{ctx: ctx, store: c.store},
		Base:   c.rt,
	}}

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.metrics.observe(path, 0, started)
		if IsSessionExpired(err) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("analytics %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.metrics.observe(path, resp.StatusCode, started)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.store.Clear(ctx); err != nil {
			c.log.Warn("clear session after 401 failed", zap.Error(err))
		}
		c.log.Info("analytics backend rejected token", zap.String("path", path))
		return nil, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("analytics response is not JSON", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, path)
	}
	return out, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
