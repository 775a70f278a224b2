package usecase

import (
	"context"
	"fmt"
	"sync"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// EvaluationScheduler re-evaluates every catalog company on a cron spec (with seconds field).
type EvaluationScheduler struct {
	cron *cron.Cron
	uc   *ForecastUseCase
	l    *applogger.Logger

	mu      sync.Mutex
	running bool
}

func NewEvaluationScheduler(uc *ForecastUseCase, spec string, l *applogger.Logger) (*EvaluationScheduler, error) {
	if l == nil {
		l = applogger.Nop()
	}
	s := &EvaluationScheduler{
		cron: cron.New(cron.WithSeconds()),
		uc:   uc,
		l:    l,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("register evaluation task %q: %w", spec, err)
	}
	return s, nil
}

func (s *EvaluationScheduler) Start() {
	s.cron.Start()
	s.l.Info("evaluation scheduler started", applogger.Int("companies", len(s.uc.Companies())))
}

// Stop waits for a running evaluation to finish or ctx to expire.
func (s *EvaluationScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.l.Info("evaluation scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for scheduler to stop: %w", ctx.Err())
	}
}

// RunOnce evaluates each company in turn. A tick that fires while the previous one
// is still running is skipped. It returns the number of successful runs.
func (s *EvaluationScheduler) RunOnce(ctx context.Context) int {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.l.Warn("evaluation still running, tick skipped")
		return 0
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ok := 0
	companies := s.uc.Companies()
	for _, co := range companies {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.uc.RunCompany(ctx, co, models.TriggerScheduler, ""); err == nil {
			ok++
		}
	}
	s.l.Info("scheduled evaluation finished",
		applogger.Int("companies", len(companies)),
		applogger.Int("ok", ok),
	)
	return ok
}
