package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter used for ledger business metrics.
const MeterName = "github.com/ledgerdesk/backend/ledger"

var (
	attrTenant  = attribute.Key("tenant_id")
	attrFrom    = attribute.Key("from_status")
	attrTo      = attribute.Key("to_status")
	attrOutcome = attribute.Key("outcome")
	attrStatus  = attribute.Key("status")
	attrResult  = attribute.Key("result")
)

// Import row outcomes recorded by RecordImportRows.
const (
	RowOutcomeInserted = "inserted"
	RowOutcomeUpdated  = "updated"
	RowOutcomeSkipped  = "skipped"
	RowOutcomeFailed   = "failed"
)

// LedgerMetrics records invoice and import activity. A nil *LedgerMetrics is
// valid and records nothing.
type LedgerMetrics struct {
	transitions      metric.Int64Counter
	rejections       metric.Int64Counter
	payments         metric.Int64Counter
	overdueSwept     metric.Int64Counter
	importRuns       metric.Int64Counter
	importRows       metric.Int64Counter
	importDuration   metric.Float64Histogram
	summaryCacheHits metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.transitions, err = meter.Int64Counter("ledger.invoice.transitions",
		metric.WithDescription("Invoice status transitions applied"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, metricErr("ledger.invoice.transitions", err)
	}
	if m.rejections, err = meter.Int64Counter("ledger.invoice.transition_rejections",
		metric.WithDescription("Invoice status transitions refused by the state machine"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, metricErr("ledger.invoice.transition_rejections", err)
	}
	if m.payments, err = meter.Int64Counter("ledger.invoice.payments",
		metric.WithDescription("Payments recorded against invoices"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, metricErr("ledger.invoice.payments", err)
	}
	if m.overdueSwept, err = meter.Int64Counter("ledger.invoice.overdue_swept",
		metric.WithDescription("Invoices moved to overdue by the sweeper"),
		metric.WithUnit("{invoice}")); err != nil {
		return nil, metricErr("ledger.invoice.overdue_swept", err)
	}
	if m.importRuns, err = meter.Int64Counter("ledger.import.runs",
		metric.WithDescription("Account import runs by final status"),
		metric.WithUnit("{import}")); err != nil {
		return nil, metricErr("ledger.import.runs", err)
	}
	if m.importRows, err = meter.Int64Counter("ledger.import.rows",
		metric.WithDescription("Account import rows by outcome"),
		metric.WithUnit("{row}")); err != nil {
		return nil, metricErr("ledger.import.rows", err)
	}
	if m.importDuration, err = meter.Float64Histogram("ledger.import.duration",
		metric.WithDescription("Account import processing time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ImportDurationBuckets...)); err != nil {
		return nil, metricErr("ledger.import.duration", err)
	}
	if m.summaryCacheHits, err = meter.Int64Counter("ledger.summary_cache.requests",
		metric.WithDescription("Receivables summary cache lookups by result"),
		metric.WithUnit("{request}")); err != nil {
		return nil, metricErr("ledger.summary_cache.requests", err)
	}

	return m, nil
}

func metricErr(name string, err error) error {
	return fmt.Errorf("failed to create metric %s: %w", name, err)
}

// RecordTransition counts an applied invoice transition.
func (m *LedgerMetrics) RecordTransition(ctx context.Context, tenantID uuid.UUID, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attrTenant.String(tenantID.String()), attrFrom.String(from), attrTo.String(to)))
}

// RecordRejectedTransition counts a transition the state machine refused.
func (m *LedgerMetrics) RecordRejectedTransition(ctx context.Context, tenantID uuid.UUID, from, to string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attrTenant.String(tenantID.String()), attrFrom.String(from), attrTo.String(to)))
}

// RecordPayment counts a payment applied to an invoice.
func (m *LedgerMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.payments.Add(ctx, 1, metric.WithAttributes(attrTenant.String(tenantID.String())))
}

// RecordOverdueSwept counts invoices a sweep moved to overdue.
func (m *LedgerMetrics) RecordOverdueSwept(ctx context.Context, tenantID uuid.UUID, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.overdueSwept.Add(ctx, int64(n), metric.WithAttributes(attrTenant.String(tenantID.String())))
}

// ImportTally is the row breakdown of one import run.
type ImportTally struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

// RecordImport records the final status, row outcomes and duration of an import.
func (m *LedgerMetrics) RecordImport(ctx context.Context, tenantID uuid.UUID, status string, tally ImportTally, elapsed time.Duration) {
	if m == nil {
		return
	}
	tenant := attrTenant.String(tenantID.String())
	m.importRuns.Add(ctx, 1, metric.WithAttributes(tenant, attrStatus.String(status)))
	for outcome, n := range map[string]int{
		RowOutcomeInserted: tally.Inserted,
		RowOutcomeUpdated:  tally.Updated,
		RowOutcomeSkipped:  tally.Skipped,
		RowOutcomeFailed:   tally.Failed,
	} {
		if n > 0 {
			m.importRows.Add(ctx, int64(n), metric.WithAttributes(tenant, attrOutcome.String(outcome)))
		}
	}
	m.importDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(tenant))
}

// RecordSummaryCache counts a summary cache lookup.
func (m *LedgerMetrics) RecordSummaryCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.summaryCacheHits.Add(ctx, 1, metric.WithAttributes(attrResult.String(result)))
}
