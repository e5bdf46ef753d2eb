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

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *callcenter.Campaign) error {
	model := models.CampaignModelFromDomain(campaign)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a campaign with a version check. It fails with
// shared.ErrConcurrencyConflict when another transaction moved the
// version since the campaign was loaded.
func (r *GormCampaignRepository) SaveWithLock(ctx context.Context, campaign *callcenter.Campaign) error {
	model := models.CampaignModelFromDomain(campaign)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("tenant_id = ? AND id = ? AND version = ?", campaign.TenantID, campaign.ID, campaign.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a campaign by ID within a tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Campaign, error) {
	var model models.CampaignModel
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

// FindAllForTenant finds all campaigns for a tenant with a total count
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Campaign, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CampaignModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	campaigns := make([]*callcenter.Campaign, len(rows))
	for i := range rows {
		campaigns[i] = rows[i].ToDomain()
	}
	return campaigns, count, nil
}

// CountForTenant counts all campaigns of a tenant
func (r *GormCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CampaignModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForTenant deletes a campaign within a tenant
func (r *GormCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CampaignModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormCampaignRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormCampaignRepository implements CampaignRepository
var _ callcenter.CampaignRepository = (*GormCampaignRepository)(nil)
