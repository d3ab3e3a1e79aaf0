// Package cron runs in-process maintenance jobs on a fixed interval.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/simplezakka/zakka-backend/pkg/logger"
)

const defaultInterval = 10 * time.Minute

type jobRecorder interface {
	ObserveJob(job, outcome string, duration time.Duration)
}

// ServiceParams configure the cron service. Metrics may be nil.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Metrics  jobRecorder
	Interval time.Duration
}

// Service executes registered jobs until its context ends.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	metrics  jobRecorder
	interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run ticks until ctx is canceled. Jobs are not run at startup; a fresh
// process has nothing to reclaim.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron.stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle runs every job once. A failing job does not stop the others.
func (s *Service) runCycle(ctx context.Context) {
	for _, job := range s.registry.Jobs() {
		s.runJob(ctx, job)
	}
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
		s.logg.Error(jobCtx, "cron.job_failed", err)
	} else {
		s.logg.Debug(jobCtx, "cron.job_completed")
	}
	if s.metrics != nil {
		s.metrics.ObserveJob(job.Name(), outcome, duration)
	}
}
