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

// GormAgentRepository implements AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// Save creates or updates a call agent
func (r *GormAgentRepository) Save(ctx context.Context, agent *callcenter.Agent) error {
	model := models.AgentModelFromDomain(agent)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds an agent by ID within a tenant
func (r *GormAgentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Agent, error) {
	var model models.AgentModel
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

// FindAllForTenant finds all agents for a tenant with a total count
func (r *GormAgentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Agent, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AgentModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AgentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AgentModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	agents := make([]*callcenter.Agent, len(rows))
	for i := range rows {
		agents[i] = rows[i].ToDomain()
	}
	return agents, count, nil
}

// CountForTenant counts all agents of a tenant
func (r *GormAgentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForTenant deletes an agent within a tenant
func (r *GormAgentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AgentModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormAgentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAgentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR extension ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "shift":
			query = query.Where("shift = ?", value)
		}
	}

	return query
}

// Ensure GormAgentRepository implements AgentRepository
var _ callcenter.AgentRepository = (*GormAgentRepository)(nil)
