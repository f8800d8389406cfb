package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OverdueSweeper moves stale unpaid fees to overdue and reports how many moved.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// StartOverdueSweepJob runs the sweep every interval until ctx is cancelled.
// A non-positive interval leaves the sweep to the manual endpoint.
func StartOverdueSweepJob(ctx context.Context, interval, timeout time.Duration, sweeper OverdueSweeper, logger zerolog.Logger) {
	if interval <= 0 {
		logger.Info().Msg("Scheduled overdue sweep disabled")
		return
	}
	if sweeper == nil {
		logger.Warn().Msg("Scheduled overdue sweep disabled: no fee service configured")
		return
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info().Dur("interval", interval).Msg("Scheduled overdue sweep started")

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Scheduled overdue sweep stopped")
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				moved, err := sweeper.SweepOverdue(tickCtx)
				cancel()
				if err != nil {
					logger.Error().Err(err).Msg("Scheduled overdue sweep failed")
					continue
				}
				if moved > 0 {
					logger.Info().Int("moved", moved).Msg("Scheduled overdue sweep moved fees")
				}
			}
		}
	}()
}
