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

// GormCallRepository implements CallRepository using GORM
type GormCallRepository struct {
	db *gorm.DB
}

// NewGormCallRepository creates a new GormCallRepository
func NewGormCallRepository(db *gorm.DB) *GormCallRepository {
	return &GormCallRepository{db: db}
}

// Save creates or updates a call
func (r *GormCallRepository) Save(ctx context.Context, call *callcenter.Call) error {
	model := models.CallModelFromDomain(call)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds a call by ID within a tenant
func (r *GormCallRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*callcenter.Call, error) {
	var model models.CallModel
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

// FindAllForTenant finds all calls for a tenant with a total count
func (r *GormCallRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*callcenter.Call, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.CallModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CallModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CallModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	calls := make([]*callcenter.Call, len(rows))
	for i := range rows {
		calls[i] = rows[i].ToDomain()
	}
	return calls, count, nil
}

// FindByAgentForTenant finds all calls made by an agent
func (r *GormCallRepository) FindByAgentForTenant(ctx context.Context, tenantID, agentID uuid.UUID) ([]*callcenter.Call, error) {
	var rows []models.CallModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND agent_id = ?", tenantID, agentID).
		Order("started_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	calls := make([]*callcenter.Call, len(rows))
	for i := range rows {
		calls[i] = rows[i].ToDomain()
	}
	return calls, nil
}

// FindByLeadForTenant finds all calls logged against a lead
func (r *GormCallRepository) FindByLeadForTenant(ctx context.Context, tenantID, leadID uuid.UUID) ([]*callcenter.Call, error) {
	var rows []models.CallModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("started_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	calls := make([]*callcenter.Call, len(rows))
	for i := range rows {
		calls[i] = rows[i].ToDomain()
	}
	return calls, nil
}

// DeleteForTenant deletes a call within a tenant
func (r *GormCallRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CallModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCallRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("started_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCallRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("notes ILIKE ? OR follow_up_note ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "outcome":
			query = query.Where("outcome = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "lead_id":
			query = query.Where("lead_id = ?", value)
		}
	}

	return query
}

// Ensure GormCallRepository implements CallRepository
var _ callcenter.CallRepository = (*GormCallRepository)(nil)
