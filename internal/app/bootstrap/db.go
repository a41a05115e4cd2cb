// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	sessionrecords "github.com/dalemusser/ezdash/internal/app/store/sessions"
	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"github.com/dalemusser/ezdash/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// sessionSweepInterval is how often idle session records are purged.
const sessionSweepInterval = 10 * time.Minute

// ConnectDB connects to MongoDB when server-side sessions are enabled.
// With the cookie backend it returns empty deps and touches no network.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if !appCfg.UsesMongo() {
		logger.Info("session backend is cookie; skipping MongoDB")
		return DBDeps{}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, timeouts.Ping())
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	records := sessionrecords.New(db)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:    client,
		MongoDatabase:  db,
		SessionRecords: records,
		SessionCleanup: workers.NewSessionCleanup(records, logger, sessionSweepInterval, appCfg.SessionMaxAge),
	}, nil
}

// EnsureSchema creates the session record indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.SessionRecords == nil {
		return nil
	}
	if err := deps.SessionRecords.EnsureIndexes(ctx); err != nil {
		logger.Error("ensure session record indexes failed", zap.Error(err))
		return fmt.Errorf("ensure session indexes: %w", err)
	}
	return nil
}
