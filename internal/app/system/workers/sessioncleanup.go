// internal/app/system/workers/sessioncleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// IdleSweeper deletes session records that have been idle for longer
// than a threshold. The Mongo session store implements it.
type IdleSweeper interface {
	DeleteIdle(ctx context.Context, idle time.Duration) (int64, error)
}

// SessionCleanup is a background worker that purges idle server-side
// session records.
type SessionCleanup struct {
	sweeper  IdleSweeper
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSessionCleanup creates a new session cleanup worker.
//
// Parameters:
//   - sweeper: the server-side session store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 10 minutes)
//   - idle: how long a record may go untouched before removal (usually the cookie max age)
func NewSessionCleanup(sweeper IdleSweeper, logger *zap.Logger, interval, idle time.Duration) *SessionCleanup {
	return &SessionCleanup{
		sweeper:  sweeper,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *SessionCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("session cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_threshold", w.idle))
}

// Stop signals the worker to stop and waits for it to finish.
// Calling Stop more than once is safe.
func (w *SessionCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("session cleanup worker stopped")
}

func (w *SessionCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one cleanup pass.
func (w *SessionCleanup) Sweep() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), w.log, "session record sweep")
	defer cancel()

	count, err := w.sweeper.DeleteIdle(ctx, w.idle)
	if err != nil {
		w.log.Error("failed to purge idle session records", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged idle session records", zap.Int64("count", count))
	}
}
