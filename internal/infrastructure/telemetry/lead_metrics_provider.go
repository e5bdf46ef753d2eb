// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadMetricsProvider implements LeadMetricsProvider using GORM.
// It queries the leads and calls tables directly for aggregated metrics.
type GormLeadMetricsProvider struct {
	db *gorm.DB
}

// NewGormLeadMetricsProvider creates a new GormLeadMetricsProvider.
func NewGormLeadMetricsProvider(db *gorm.DB) *GormLeadMetricsProvider {
	return &GormLeadMetricsProvider{db: db}
}

// GetOpenLeadCountByCampaign returns the number of unresolved leads per campaign for a tenant.
func (p *GormLeadMetricsProvider) GetOpenLeadCountByCampaign(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		CampaignID uuid.UUID `gorm:"column:campaign_id"`
		OpenCount  int64     `gorm:"column:open_count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("leads").
		Select("campaign_id, COUNT(*) as open_count").
		Where("tenant_id = ?", tenantID).
		Where("campaign_id IS NOT NULL").
		Where("status NOT IN ?", []string{"converted", "lost"}).
		Group("campaign_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.CampaignID] = r.OpenCount
	}

	return m, nil
}

// GetOverdueFollowUpCount returns the number of calls with a follow-up time in the past for a tenant.
func (p *GormLeadMetricsProvider) GetOverdueFollowUpCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("calls").
		Where("tenant_id = ?", tenantID).
		Where("follow_up_at IS NOT NULL AND follow_up_at < ?", time.Now()).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the IDs of all active companies.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("companies").
		Where("status = ?", "active").
		Pluck("id", &ids).Error

	return ids, err
}
