// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ezdash/internal/app/resources"
	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the backends are ready and
// before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// EZDASH_TIMEOUT_* env vars override upstream_timeout.
	timeouts.Configure(timeouts.Config{Upstream: appCfg.UpstreamTimeout})
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("upstream", cur.Upstream),
		zap.Duration("long", cur.Long))

	resources.LoadSharedTemplates()

	if deps.SessionCleanup != nil {
		deps.SessionCleanup.Start()
	}
	return nil
}
