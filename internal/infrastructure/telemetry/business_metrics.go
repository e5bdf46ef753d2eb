package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the call center.
// It tracks call activity, lead conversion, and follow-up backlog health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	callCompletedTotal *Counter
	callDurationTotal  *Counter
	leadCreatedTotal   *Counter
	leadConvertedTotal *Counter

	// Gauge metrics (point-in-time values)
	openLeadCount        *Gauge
	overdueFollowUpCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	leadProvider LeadMetricsProvider
}

// LeadMetricsProvider provides lead pipeline data for periodic metrics collection.
// This interface allows the telemetry layer to query lead state without
// depending on the call center domain directly.
type LeadMetricsProvider interface {
	// GetOpenLeadCountByCampaign returns the number of unresolved leads per campaign for a tenant
	GetOpenLeadCountByCampaign(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)

	// GetOverdueFollowUpCount returns the number of calls with a follow-up time in the past for a tenant
	GetOverdueFollowUpCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	LeadProvider    LeadMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:        cfg.Meter,
		logger:       logger,
		stopChan:     make(chan struct{}),
		leadProvider: cfg.LeadProvider,
	}

	// Initialize counter metrics
	var err error

	// Call metrics
	bm.callCompletedTotal, err = NewCounter(
		cfg.Meter,
		"crm_call_completed_total",
		"Total number of completed calls",
		"{calls}",
	)
	if err != nil {
		return nil, err
	}

	bm.callDurationTotal, err = NewCounter(
		cfg.Meter,
		"crm_call_duration_seconds_total",
		"Total talk time in seconds",
		"s",
	)
	if err != nil {
		return nil, err
	}

	// Lead metrics
	bm.leadCreatedTotal, err = NewCounter(
		cfg.Meter,
		"crm_lead_created_total",
		"Total number of leads created",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	bm.leadConvertedTotal, err = NewCounter(
		cfg.Meter,
		"crm_lead_converted_total",
		"Total number of leads converted",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	// Pipeline gauge metrics
	bm.openLeadCount, err = NewGauge(
		cfg.Meter,
		"crm_lead_open_count",
		"Current number of unresolved leads",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	bm.overdueFollowUpCount, err = NewGauge(
		cfg.Meter,
		"crm_followup_overdue_count",
		"Number of calls with an overdue follow-up",
		"{calls}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Call Metrics
// =============================================================================

// RecordCallCompleted records a completed call with its outcome.
// This should be called from the application layer when a call is closed out.
func (bm *BusinessMetrics) RecordCallCompleted(ctx context.Context, tenantID uuid.UUID, direction, outcome string) {
	bm.callCompletedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrCallDirection.String(direction),
		AttrCallOutcome.String(outcome),
	)
}

// RecordCallDuration records the talk time of a completed call.
func (bm *BusinessMetrics) RecordCallDuration(ctx context.Context, tenantID uuid.UUID, direction string, seconds int64) {
	bm.callDurationTotal.Add(ctx, seconds,
		AttrTenantID.String(tenantID.String()),
		AttrCallDirection.String(direction),
	)
}

// RecordCallWithDuration is a convenience method that records both call count and talk time.
func (bm *BusinessMetrics) RecordCallWithDuration(ctx context.Context, tenantID uuid.UUID, direction, outcome string, seconds int64) {
	bm.RecordCallCompleted(ctx, tenantID, direction, outcome)
	bm.RecordCallDuration(ctx, tenantID, direction, seconds)
}

// =============================================================================
// Lead Metrics
// =============================================================================

// RecordLeadCreated records a lead creation event.
func (bm *BusinessMetrics) RecordLeadCreated(ctx context.Context, tenantID uuid.UUID, source string) {
	bm.leadCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrLeadSource.String(source),
	)
}

// RecordLeadConverted records a lead conversion event.
// This should be called when a lead transitions to the converted status.
func (bm *BusinessMetrics) RecordLeadConverted(ctx context.Context, tenantID uuid.UUID, campaignID *uuid.UUID) {
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
	}
	if campaignID != nil {
		attrs = append(attrs, AttrCampaignID.String(campaignID.String()))
	}
	bm.leadConvertedTotal.Inc(ctx, attrs...)
}

// =============================================================================
// Pipeline Metrics
// =============================================================================

// RecordOpenLeadCount records the current number of unresolved leads for a campaign.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenLeadCount(ctx context.Context, tenantID, campaignID uuid.UUID, count int64) {
	bm.openLeadCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrCampaignID.String(campaignID.String()),
	)
}

// RecordOverdueFollowUpCount records the number of calls with an overdue follow-up.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueFollowUpCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.overdueFollowUpCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects lead pipeline metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectLeadMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectLeadMetrics(ctx, tenantProvider)
		}
	}
}

// collectLeadMetrics collects lead pipeline gauge metrics for all tenants.
func (bm *BusinessMetrics) collectLeadMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.leadProvider == nil {
		bm.logger.Debug("No lead provider configured, skipping lead metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantLeadMetrics(ctx, tenantID)
	}
}

// collectTenantLeadMetrics collects lead pipeline metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantLeadMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect open lead count by campaign
	openByCampaign, err := bm.leadProvider.GetOpenLeadCountByCampaign(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open lead counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for campaignID, count := range openByCampaign {
			bm.RecordOpenLeadCount(ctx, tenantID, campaignID, count)
		}
	}

	// Collect overdue follow-up count
	overdueCount, err := bm.leadProvider.GetOverdueFollowUpCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get overdue follow-up count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueFollowUpCount(ctx, tenantID, overdueCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
