package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM. Menu grants
// live in role_menu_grants; Save replaces them together with the role
// row in one transaction.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Save creates or updates a role and replaces its grants
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.RoleModelFromDomain(role)
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RoleMenuGrantModel{}).Error; err != nil {
			return err
		}

		if len(role.Grants) > 0 {
			rows := make([]models.RoleMenuGrantModel, len(role.Grants))
			for i, grant := range role.Grants {
				rows[i] = models.RoleMenuGrantModel{
					ID:        uuid.New(),
					RoleID:    role.ID,
					TenantID:  role.TenantID,
					MenuID:    grant.MenuID,
					SubMenuID: grant.SubMenuID,
					Resource:  grant.Resource,
					CanView:   grant.CanView,
					CanAdd:    grant.CanAdd,
					CanEdit:   grant.CanEdit,
					CanDelete: grant.CanDelete,
					CreatedAt: time.Now(),
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByIDForTenant finds a role by ID within a tenant, grants included
func (r *GormRoleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	role := model.ToDomain()
	if err := r.loadGrants(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// FindByCodeForTenant finds a role by code within a tenant, grants included
func (r *GormRoleRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND UPPER(code) = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	role := model.ToDomain()
	if err := r.loadGrants(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// FindAllForTenant finds all roles for a tenant with a total count.
// Grants are not loaded for listings.
func (r *GormRoleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*identity.Role, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.RoleModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.RoleModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	roles := make([]*identity.Role, len(rows))
	for i := range rows {
		roles[i] = rows[i].ToDomain()
	}
	return roles, count, nil
}

// ExistsByCodeForTenant checks if a role with the code exists in the tenant
func (r *GormRoleRepository) ExistsByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Where("tenant_id = ? AND UPPER(code) = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteForTenant deletes a role and its grants within a tenant
func (r *GormRoleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND role_id = ?", tenantID, id).
			Delete(&models.RoleMenuGrantModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.RoleModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// loadGrants loads the grant rows for a role
func (r *GormRoleRepository) loadGrants(ctx context.Context, role *identity.Role) error {
	var rows []models.RoleMenuGrantModel
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Find(&rows).Error; err != nil {
		return err
	}

	grants := make([]identity.MenuGrant, len(rows))
	for i := range rows {
		grants[i] = rows[i].ToDomain()
	}
	role.Grants = grants
	return nil
}

// applyFilter applies filter options to the query
func (r *GormRoleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("sort_order ASC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRoleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_enabled":
			query = query.Where("is_enabled = ?", value)
		}
	}

	return query
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
