package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *identity.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Employee, error) {
	var model models.EmployeeModel
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

// FindByUsernameForTenant finds an employee by username within a tenant
func (r *GormEmployeeRepository) FindByUsernameForTenant(ctx context.Context, tenantID uuid.UUID, username string) (*identity.Employee, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all employees for a tenant with a total count
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*identity.Employee, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	employees := make([]*identity.Employee, len(rows))
	for i := range rows {
		employees[i] = rows[i].ToDomain()
	}
	return employees, count, nil
}

// FindByRoleForTenant finds all employees carrying the given role
func (r *GormEmployeeRepository) FindByRoleForTenant(ctx context.Context, tenantID, roleID uuid.UUID) ([]*identity.Employee, error) {
	var rows []models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		Order("username ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	employees := make([]*identity.Employee, len(rows))
	for i := range rows {
		employees[i] = rows[i].ToDomain()
	}
	return employees, nil
}

// ExistsByUsernameForTenant checks if an employee with the username exists in the tenant
func (r *GormEmployeeRepository) ExistsByUsernameForTenant(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTenant counts all employees of a tenant
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForTenant deletes an employee within a tenant
func (r *GormEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("username ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR display_name ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "role_id":
			query = query.Where("role_id = ?", value)
		}
	}

	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ identity.EmployeeRepository = (*GormEmployeeRepository)(nil)
