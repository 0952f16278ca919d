package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler triggers recurring pipeline runs on a cron expression. Runs
// never overlap: a tick that fires while a run is still in progress is
// dropped with a warning.
type Scheduler struct {
	pipeline *Pipeline
	cron     *cron.Cron
	logger   arbor.ILogger

	mu      sync.Mutex
	running bool
}

// minRunInterval is the smallest allowed gap between scheduled runs. Each
// run makes dozens of external calls; anything tighter is a configuration
// mistake.
const minRunInterval = time.Minute

// NewScheduler creates a scheduler over the given pipeline. The expression
// is validated eagerly so a bad schedule fails at startup, not at first
// tick.
func NewScheduler(pipeline *Pipeline, cronExpr string, logger arbor.ILogger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	first := schedule.Next(time.Now())
	if gap := schedule.Next(first).Sub(first); gap < minRunInterval {
		return nil, fmt.Errorf("schedule %q fires every %v, minimum interval is %v", cronExpr, gap, minRunInterval)
	}

	s := &Scheduler{
		pipeline: pipeline,
		cron:     cron.New(),
		logger:   logger,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.tick))

	return s, nil
}

// Start begins scheduling. Returns immediately; ticks fire on the cron's
// own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	if s.logger != nil {
		s.logger.Info().Msg("Scheduler started")
	}
}

// Stop halts scheduling and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info().Msg("Scheduler stopped")
	}
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn().Msg("Previous run still in progress, skipping tick")
		}
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	_, err := s.pipeline.Run(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, ErrNoArticles), errors.Is(err, ErrNoMentions):
		if s.logger != nil {
			s.logger.Info().Err(err).Msg("Scheduled run finished with empty result")
		}
	default:
		if s.logger != nil {
			s.logger.Error().Err(err).Msg("Scheduled run failed")
		}
	}
}
