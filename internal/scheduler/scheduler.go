// Package scheduler runs the daily report on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	log        *slog.Logger
}

// New creates a scheduler for spec, a standard five-field cron expression in UTC.
// An empty spec disables reports.
func New(spec string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info("report schedule empty, daily reports disabled")
		return nil
	}
	if s.reportFunc == nil {
		s.log.Warn("report function not set, scheduler will not generate reports")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec)
	return nil
}

// RunNow generates a report immediately, outside the schedule.
func (s *Scheduler) RunNow() error {
	if s.reportFunc == nil {
		return nil
	}
	return s.reportFunc(s.ctx)
}

func (s *Scheduler) run() {
	s.log.Info("daily report triggered")
	if err := s.reportFunc(s.ctx); err != nil {
		s.log.Error("daily report failed", "err", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
