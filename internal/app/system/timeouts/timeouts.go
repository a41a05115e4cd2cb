// Package timeouts holds the deadlines applied to outbound work.
//
// Every call to the auth or analytics backend runs under one of these
// so a hung upstream turns into a Failed view instead of a page that
// never finishes loading.
//
//   - Ping: health checks (Mongo ping)
//   - Short: login and single session-store reads/writes
//   - Upstream: one analytics request
//   - Long: a page that fans out several analytics requests, background sweeps
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultUpstream = 10 * time.Second
	DefaultLong     = 30 * time.Second
)

var (
	mu       sync.RWMutex
	ping     = DefaultPing
	short    = DefaultShort
	upstream = DefaultUpstream
	long     = DefaultLong
)

func get(p *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *p
}

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration { return get(&ping) }

// Short returns the timeout for login and session-store access.
func Short() time.Duration { return get(&short) }

// Upstream returns the timeout for a single analytics request.
func Upstream() time.Duration { return get(&upstream) }

// Long returns the timeout for a whole multi-request page load.
func Long() time.Duration { return get(&long) }

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Upstream time.Duration
	Long     time.Duration
}

// Configure applies non-zero values from cfg. Call it during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, s := range []struct {
		dst *time.Duration
		v   time.Duration
	}{
		{&ping, cfg.Ping},
		{&short, cfg.Short},
		{&upstream, cfg.Upstream},
		{&long, cfg.Long},
	} {
		if s.v > 0 {
			*s.dst = s.v
		}
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, upstream, long = DefaultPing, DefaultShort, DefaultUpstream, DefaultLong
}

// ConfigureFromEnv reads EZDASH_TIMEOUT_PING, EZDASH_TIMEOUT_SHORT,
// EZDASH_TIMEOUT_UPSTREAM and EZDASH_TIMEOUT_LONG (Go duration syntax).
// Unset or invalid values are ignored. It returns how many were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, e := range []struct {
		name string
		dst  *time.Duration
	}{
		{"EZDASH_TIMEOUT_PING", &cfg.Ping},
		{"EZDASH_TIMEOUT_SHORT", &cfg.Short},
		{"EZDASH_TIMEOUT_UPSTREAM", &cfg.Upstream},
		{"EZDASH_TIMEOUT_LONG", &cfg.Long},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*e.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Upstream: upstream, Long: long}
}

// WithTimeout wraps context.WithTimeout and logs a warning naming the
// operation if the deadline is what ended it.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "metrics summary")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
