// Package scheduler runs the periodic cleanup of never-activated accounts.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"careid/config"
	"careid/internal/delivery"
	"careid/internal/usecase"

	"go.uber.org/fx"
)

const defaultSweepInterval = 24 * time.Hour

// SchedulerParams holds dependencies for the sweep scheduler, injected by Fx.
type SchedulerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	Uc     usecase.AccountUsecase
}

type sweepScheduler struct {
	cfg      *config.Config
	logger   *slog.Logger
	uc       usecase.AccountUsecase
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates the background sweeper removing accounts that never
// activated within the retention window.
func NewScheduler(params SchedulerParams) delivery.Delivery {
	interval := defaultSweepInterval
	if params.Cfg.Sweeper != nil && params.Cfg.Sweeper.Interval > 0 {
		interval = params.Cfg.Sweeper.Interval
	}

	s := &sweepScheduler{
		cfg:      params.Cfg,
		logger:   params.Logger,
		uc:       params.Uc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.shutdown,
	})

	return s
}

// Serve runs the sweep loop until shutdown. A disabled sweeper parks until
// the lifecycle stops it.
func (s *sweepScheduler) Serve(ctx context.Context) error {
	defer close(s.done)

	if s.cfg.Sweeper == nil || !s.cfg.Sweeper.Enabled {
		s.logger.Info("Account sweeper disabled")
		<-s.stop

		return nil
	}

	s.logger.Info("Starting account sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		}
	}
}

func (s *sweepScheduler) sweep(ctx context.Context) {
	removed, err := s.uc.RemoveNotActivatedUsers(ctx)
	if err != nil {
		s.logger.Error("Account sweep failed", slog.Any("error", err))

		return
	}

	s.logger.Info("Account sweep finished", slog.Int("removed", removed))
}

func (s *sweepScheduler) shutdown(ctx context.Context) error {
	close(s.stop)

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
