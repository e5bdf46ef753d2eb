package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCallReportRepository implements ReportRepository using GORM
type GormCallReportRepository struct {
	db *gorm.DB
}

// NewGormCallReportRepository creates a new GormCallReportRepository
func NewGormCallReportRepository(db *gorm.DB) *GormCallReportRepository {
	return &GormCallReportRepository{db: db}
}

// Save creates or updates a call report
func (r *GormCallReportRepository) Save(ctx context.Context, report *callcenter.CallReport) error {
	model := models.CallReportModelFromDomain(report)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds a report by ID within a tenant
func (r *GormCallReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.CallReport, error) {
	var model models.CallReportModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all reports for a tenant with a total count
func (r *GormCallReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.CallReport, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.CallReportModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CallReportModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CallReportModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]*callcenter.CallReport, len(rows))
	for i := range rows {
		reports[i] = rows[i].ToDomain()
	}
	return reports, count, nil
}

// FindByCampaignForTenant finds all reports of a campaign, newest first
func (r *GormCallReportRepository) FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*callcenter.CallReport, error) {
	var rows []models.CallReportModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ?", tenantID, campaignID).
		Order("report_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	reports := make([]*callcenter.CallReport, len(rows))
	for i := range rows {
		reports[i] = rows[i].ToDomain()
	}
	return reports, nil
}

// DeleteForTenant deletes a report within a tenant
func (r *GormCallReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CallReportModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCallReportRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("report_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCallReportRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "report_type":
			query = query.Where("report_type = ?", value)
		case "report_date":
			query = query.Where("report_date = ?", value)
		case "campaign_id":
			query = query.Where("campaign_id = ?", value)
		}
	}

	return query
}

// Ensure GormCallReportRepository implements ReportRepository
var _ callcenter.ReportRepository = (*GormCallReportRepository)(nil)
