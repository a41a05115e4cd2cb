package viewmodel

import (
	"context"
	"errors"

	"github.com/dalemusser/ezdash/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAllSeriesFailed is returned by Batch when no series loaded.
var ErrAllSeriesFailed = errors.New("every series failed to load")

// SeriesSpec names one series and how to fetch it.
type SeriesSpec struct {
	Name  string
	Title string
	Fetch func(ctx context.Context) ([]models.TimeSeriesPoint, error)
}

// Batch fetches every series concurrently. Each outcome is recorded on
// its own: a failed series is marked Failed and the rest still render.
// Errors selected by propagate cancel the batch and are returned.
func Batch(ctx context.Context, specs []SeriesSpec, propagate func(error) bool, logger *zap.Logger) ([]models.Series, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]models.Series, len(specs))
	g, gctx := errgroup.WithContext(ctx)

	for i, spec := range specs {
		out[i] = models.Series{Name: spec.Name, Title: spec.Title}
		g.Go(func() error {
			pts, err := spec.Fetch(gctx)
			if err != nil {
				if propagate != nil && propagate(err) {
					return err
				}
				logger.Warn("series load failed", zap.String("series", spec.Name), zap.Error(err))
				out[i].Failed = true
				return nil
			}
			out[i].Points = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range out {
		if !s.Failed {
			return out, nil
		}
	}
	if len(out) == 0 {
		return out, nil
	}
	return out, ErrAllSeriesFailed
}

// SeriesEmpty reports whether no series carries a point.
func SeriesEmpty(series []models.Series) bool {
	for _, s := range series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}
