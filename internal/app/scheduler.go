package app

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Scheduler drives the app's three cadences: a one-second countdown
// tick, a one-minute period and weather cycle, and a daily midnight
// refetch. Jobs run in singleton mode so a slow network cycle never
// stacks behind itself.
type Scheduler struct {
	inner *gocron.Scheduler
	log   *zap.Logger
}

// NewScheduler wires the app's tick handlers into a gocron scheduler in
// the given location. The midnight job fires in local civil time, which
// is what the timetable's date key follows.
func NewScheduler(ctx context.Context, a *App, loc *time.Location, log *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()

	if _, err := s.Every(1).Second().Do(func() { a.OnSecond(ctx) }); err != nil {
		return nil, err
	}
	if _, err := s.Every(60).Seconds().Do(func() { a.OnMinute(ctx) }); err != nil {
		return nil, err
	}
	if _, err := s.Every(1).Day().At("00:00").Do(func() { a.OnMidnight(ctx) }); err != nil {
		return nil, err
	}

	return &Scheduler{inner: s, log: log}, nil
}

// Start launches the tick loops without blocking.
func (s *Scheduler) Start() {
	s.log.Debug("starting scheduler",
		zap.Int("jobs", len(s.inner.Jobs())))
	s.inner.StartAsync()
}

// Stop halts all jobs and waits for running ones to finish.
func (s *Scheduler) Stop() {
	s.inner.Stop()
	s.log.Debug("scheduler stopped")
}
