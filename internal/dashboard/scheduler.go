package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher is the work a Scheduler runs
type Refresher interface {
	Refresh(ctx context.Context) (RefreshReport, error)
}

// Scheduler runs periodic refreshes on a cron spec
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewScheduler validates spec (standard 5-field cron) and timezone and registers the refresh job.
// Runs that would overlap a still-running refresh are skipped.
func NewScheduler(spec, timezone string, timeout time.Duration, refresher Refresher, logger *logrus.Logger) (*Scheduler, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
		}
		loc = l
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		refresher: refresher,
		timeout:   timeout,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("scheduling refresh %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled refresh failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"week":     report.CurrentWeek,
		"live":     report.IsLiveData,
		"duration": time.Since(start).String(),
	}).Info("Scheduled refresh finished")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("entries", len(s.cron.Entries())).Info("Refresh scheduler started")
}

// Stop halts the scheduler and returns a context that is done once any running refresh finishes
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
