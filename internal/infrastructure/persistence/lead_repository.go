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

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *callcenter.Lead) error {
	model := models.LeadModelFromDomain(lead)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a lead with a version check. It fails with
// shared.ErrConcurrencyConflict when another transaction moved the
// version since the lead was loaded.
func (r *GormLeadRepository) SaveWithLock(ctx context.Context, lead *callcenter.Lead) error {
	model := models.LeadModelFromDomain(lead)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("tenant_id = ? AND id = ? AND version = ?", lead.TenantID, lead.ID, lead.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a lead by ID within a tenant
func (r *GormLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Lead, error) {
	var model models.LeadModel
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

// FindAllForTenant finds all leads for a tenant with a total count
func (r *GormLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Lead, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LeadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	leads := make([]*callcenter.Lead, len(rows))
	for i := range rows {
		leads[i] = rows[i].ToDomain()
	}
	return leads, count, nil
}

// FindByCampaignForTenant finds all leads attached to a campaign
func (r *GormLeadRepository) FindByCampaignForTenant(ctx context.Context, tenantID, campaignID uuid.UUID) ([]*callcenter.Lead, error) {
	var rows []models.LeadModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND campaign_id = ?", tenantID, campaignID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	leads := make([]*callcenter.Lead, len(rows))
	for i := range rows {
		leads[i] = rows[i].ToDomain()
	}
	return leads, nil
}

// FindByAgentForTenant finds all leads assigned to an agent
func (r *GormLeadRepository) FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*callcenter.Lead, error) {
	var rows []models.LeadModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND agent_id = ?", tenantID, agentID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	leads := make([]*callcenter.Lead, len(rows))
	for i := range rows {
		leads[i] = rows[i].ToDomain()
	}
	return leads, nil
}

// DeleteForTenant deletes a lead within a tenant
func (r *GormLeadRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "campaign_id":
			query = query.Where("campaign_id = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		}
	}

	return query
}

// Ensure GormLeadRepository implements LeadRepository
var _ callcenter.LeadRepository = (*GormLeadRepository)(nil)
