package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"photomarket/internal/calendarsync/service"
	"photomarket/pkg/config"
)

// Scheduler runs the reconciler on a cron cadence. A run that overlaps
// the previous one is skipped rather than stacked, so a slow feed can
// never pile up concurrent sweeps over the same rooms.
type Scheduler struct {
	cron    *cron.Cron
	sync    service.SyncService
	cfg     *config.Config
	running atomic.Bool
}

func New(syncService service.SyncService, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		sync: syncService,
		cfg:  cfg,
	}
}

// Run installs the cron entry, fires one immediate sweep, and blocks
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.SyncCronSpec, func() {
		s.sweep(ctx)
	}); err != nil {
		return err
	}

	s.cfg.Log.Info("Scheduler started", "cron_spec", s.cfg.SyncCronSpec)
	s.sweep(ctx)
	s.cron.Start()

	<-ctx.Done()
	s.cfg.Log.Info("Scheduler stopping")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return nil
}

func (s *Scheduler) sweep(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.cfg.Log.Warn("Previous sync run still in progress; skipping")
		return
	}
	defer s.running.Store(false)

	s.sync.SyncAll(ctx)
}
