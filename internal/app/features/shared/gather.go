package shared

import (
	"context"
	"sync"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is one independent fetch feeding a page section.
type Source struct {
	Name string
	Run  func(ctx context.Context) error
}

// Gather runs sources concurrently. A failing source is logged and
// reported in failed so its section can render "Unable to load data";
// the others still complete. An expired session cancels the rest and
// is returned.
func Gather(ctx context.Context, log *zap.Logger, sources ...Source) (failed map[string]bool, err error) {
	var mu sync.Mutex
	failed = make(map[string]bool)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sources {
		g.Go(func() error {
			err := s.Run(gctx)
			switch {
			case err == nil:
				return nil
			case analytics.IsSessionExpired(err):
				return err
			}
			log.Warn("source failed", zap.String("source", s.Name), zap.Error(err))
			mu.Lock()
			failed[s.Name] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(failed) == len(sources) && len(sources) > 0 {
		return failed, ErrAllSourcesFailed
	}
	return failed, nil
}
