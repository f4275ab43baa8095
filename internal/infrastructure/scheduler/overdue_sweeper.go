// Package scheduler runs background jobs for the ledger service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants that own invoices
type TenantProvider interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OverdueSweep moves one tenant's past-due invoices to overdue and reports
// how many changed.
type OverdueSweep interface {
	SweepOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int, error)
}

// OverdueSweeperConfig holds configuration for the overdue sweeper
type OverdueSweeperConfig struct {
	Interval      time.Duration
	RunOnStart    bool
	TenantTimeout time.Duration
}

// DefaultOverdueSweeperConfig returns default sweeper configuration
func DefaultOverdueSweeperConfig() OverdueSweeperConfig {
	return OverdueSweeperConfig{
		Interval:      time.Hour,
		TenantTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration
func (c OverdueSweeperConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.TenantTimeout < 0 {
		return fmt.Errorf("%w: tenant timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// SweepResult summarises one pass over all tenants
type SweepResult struct {
	Tenants       int
	Transitioned  int
	FailedTenants []uuid.UUID
}

// OverdueSweeper periodically moves invoices past their due date to overdue.
// One tenant failing does not stop the pass for the others.
type OverdueSweeper struct {
	config  OverdueSweeperConfig
	tenants TenantProvider
	sweep   OverdueSweep
	logger  *zap.Logger
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
}

// NewOverdueSweeper creates a new overdue sweeper
func NewOverdueSweeper(config OverdueSweeperConfig, tenants TenantProvider, sweep OverdueSweep, logger *zap.Logger) (*OverdueSweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &OverdueSweeper{
		config:  config,
		tenants: tenants,
		sweep:   sweep,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Start launches the sweep loop
func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Overdue sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight pass, bounded by ctx
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *OverdueSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastRun returns when the last pass started, zero if none has
func (s *OverdueSweeper) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *OverdueSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps every tenant once using the current time
func (s *OverdueSweeper) RunOnce(ctx context.Context) SweepResult {
	asOf := s.now()
	s.mu.Lock()
	s.lastRun = asOf
	s.mu.Unlock()

	var result SweepResult
	tenantIDs, err := s.tenants.ListTenantIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list tenants for overdue sweep", zap.Error(err))
		return result
	}
	result.Tenants = len(tenantIDs)

	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			break
		}
		n, err := s.sweepTenant(ctx, tenantID, asOf)
		result.Transitioned += n
		if err != nil {
			result.FailedTenants = append(result.FailedTenants, tenantID)
			s.logger.Error("Overdue sweep failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Overdue sweep completed",
		zap.Int("tenants", result.Tenants),
		zap.Int("transitioned", result.Transitioned),
		zap.Int("failed_tenants", len(result.FailedTenants)),
	)
	return result
}

func (s *OverdueSweeper) sweepTenant(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int, error) {
	if s.config.TenantTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.TenantTimeout)
		defer cancel()
	}
	return s.sweep.SweepOverdue(ctx, tenantID, asOf)
}
