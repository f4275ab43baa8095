package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenants struct {
	ids []uuid.UUID
	err error
}

func (f *fakeTenants) ListTenantIDs(context.Context) ([]uuid.UUID, error) {
	return f.ids, f.err
}

type fakeSweep struct {
	mu      sync.Mutex
	calls   map[uuid.UUID]time.Time
	results map[uuid.UUID]int
	fail    map[uuid.UUID]error
}

func newFakeSweep() *fakeSweep {
	return &fakeSweep{
		calls:   map[uuid.UUID]time.Time{},
		results: map[uuid.UUID]int{},
		fail:    map[uuid.UUID]error{},
	}
}

func (f *fakeSweep) SweepOverdue(_ context.Context, tenantID uuid.UUID, asOf time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[tenantID] = asOf
	return f.results[tenantID], f.fail[tenantID]
}

func (f *fakeSweep) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestOverdueSweeperConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultOverdueSweeperConfig().Validate())
	assert.ErrorIs(t, OverdueSweeperConfig{}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, OverdueSweeperConfig{Interval: time.Minute, TenantTimeout: -1}.Validate(), ErrInvalidConfig)
}

func TestOverdueSweeper_RunOnce(t *testing.T) {
	t1, t2, t3 := uuid.New(), uuid.New(), uuid.New()
	sweep := newFakeSweep()
	sweep.results[t1] = 2
	sweep.results[t3] = 1
	sweep.fail[t2] = errors.New("db down")

	s, err := NewOverdueSweeper(DefaultOverdueSweeperConfig(), &fakeTenants{ids: []uuid.UUID{t1, t2, t3}}, sweep, zap.NewNop())
	require.NoError(t, err)
	fixed := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	result := s.RunOnce(context.Background())

	assert.Equal(t, 3, result.Tenants)
	assert.Equal(t, 3, result.Transitioned)
	assert.Equal(t, []uuid.UUID{t2}, result.FailedTenants)
	assert.Equal(t, fixed, sweep.calls[t1])
	assert.Equal(t, fixed, s.LastRun())
}

func TestOverdueSweeper_RunOnce_TenantListError(t *testing.T) {
	sweep := newFakeSweep()
	s, err := NewOverdueSweeper(DefaultOverdueSweeperConfig(), &fakeTenants{err: errors.New("boom")}, sweep, zap.NewNop())
	require.NoError(t, err)

	result := s.RunOnce(context.Background())
	assert.Zero(t, result.Tenants)
	assert.Zero(t, sweep.callCount())
}

func TestOverdueSweeper_RunOnce_StopsOnCancel(t *testing.T) {
	sweep := newFakeSweep()
	s, err := NewOverdueSweeper(DefaultOverdueSweeperConfig(), &fakeTenants{ids: []uuid.UUID{uuid.New(), uuid.New()}}, sweep, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)
	assert.Zero(t, sweep.callCount())
}

func TestOverdueSweeper_StartStop(t *testing.T) {
	tenant := uuid.New()
	sweep := newFakeSweep()
	cfg := OverdueSweeperConfig{Interval: time.Hour, RunOnStart: true}
	s, err := NewOverdueSweeper(cfg, &fakeTenants{ids: []uuid.UUID{tenant}}, sweep, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return sweep.callCount() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(ctx))
}
