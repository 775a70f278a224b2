package usecase

import (
	"context"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnceIsolatesCompanies(t *testing.T) {
	f := &fakeForecaster{errs: map[string]error{"TSLA.csv": forecast.NotFoundf("no price file TSLA.csv")}}
	p, m := &fakePublisher{}, newFakeMetrics()
	s, err := NewEvaluationScheduler(newTestUseCase(f, p, m), "0 30 18 * * 1-5", nil)
	require.NoError(t, err)

	ok := s.RunOnce(context.Background())
	assert.Equal(t, 1, ok)
	assert.Equal(t, []string{"TSLA.csv", "Amazon.csv"}, f.calls)
	require.Len(t, p.events, 2)
	for _, ev := range p.events {
		assert.Equal(t, models.TriggerScheduler, ev.Trigger)
	}
	assert.NotEqual(t, p.events[0].RunID, p.events[1].RunID)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewEvaluationScheduler(newTestUseCase(&fakeForecaster{}, &fakePublisher{}, newFakeMetrics()), "not a spec", nil)
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewEvaluationScheduler(newTestUseCase(&fakeForecaster{}, &fakePublisher{}, newFakeMetrics()), "@every 1h", nil)
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestSchedulerStopsOnCancelledContext(t *testing.T) {
	f := &fakeForecaster{}
	s, err := NewEvaluationScheduler(newTestUseCase(f, &fakePublisher{}, newFakeMetrics()), "@every 1h", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Zero(t, s.RunOnce(ctx))
	assert.Empty(t, f.calls)
}
