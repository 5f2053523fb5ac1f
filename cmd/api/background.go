package main

import (
	"context"
	"time"
)

// startBackground launches the periodic jobs. They stop when ctx is done.
func (app *application) startBackground(ctx context.Context) {
	if app.config.sweep > 0 {
		go app.every(ctx, app.config.sweep, app.sweepFileDeletions)
	}
	if app.rateLimiter != nil && app.config.rateLimiter.timeFrame > 0 {
		go app.every(ctx, app.config.rateLimiter.timeFrame, func(context.Context) {
			app.rateLimiter.Prune()
		})
	}
}

// every runs fn once immediately and then on each tick.
func (app *application) every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (app *application) sweepFileDeletions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	n, err := app.catalog.SweepFileDeletions(ctx)
	if err != nil {
		app.logger.Errorw("file deletion sweep failed", "err", err)
		if app.metrics != nil {
			app.metrics.sweepFailures.Inc()
		}
		return
	}
	if n > 0 {
		app.logger.Infow("swept pending file deletions", "deleted", n)
		if app.metrics != nil {
			app.metrics.filesSwept.Add(float64(n))
		}
	}
}
