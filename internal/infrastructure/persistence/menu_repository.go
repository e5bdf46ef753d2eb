package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuRepository implements MenuRepository using GORM
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GormMenuRepository
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// Save creates or updates a sidebar menu
func (r *GormMenuRepository) Save(ctx context.Context, menu *navigation.SidebarMenu) error {
	model := models.SidebarMenuModelFromDomain(menu)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds a menu by ID within a tenant
func (r *GormMenuRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*navigation.SidebarMenu, error) {
	var model models.SidebarMenuModel
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

// FindAllForTenant finds all menus for a tenant with a total count,
// ordered by level unless the filter says otherwise
func (r *GormMenuRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*navigation.SidebarMenu, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.SidebarMenuModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SidebarMenuModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SidebarMenuModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	menus := make([]*navigation.SidebarMenu, len(rows))
	for i := range rows {
		menus[i] = rows[i].ToDomain()
	}
	return menus, count, nil
}

// DeleteForTenant deletes a menu and its submenus within a tenant
func (r *GormMenuRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND menu_id = ?", tenantID, id).
			Delete(&models.SidebarSubMenuModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.SidebarMenuModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SaveSubMenu creates or updates a submenu
func (r *GormMenuRepository) SaveSubMenu(ctx context.Context, subMenu *navigation.SidebarSubMenu) error {
	model := models.SidebarSubMenuModelFromDomain(subMenu)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindSubMenuByIDForTenant finds a submenu by ID within a tenant
func (r *GormMenuRepository) FindSubMenuByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*navigation.SidebarSubMenu, error) {
	var model models.SidebarSubMenuModel
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

// FindSubMenusByMenuForTenant finds all submenus of a menu, ordered by level
func (r *GormMenuRepository) FindSubMenusByMenuForTenant(ctx context.Context, tenantID, menuID uuid.UUID) ([]*navigation.SidebarSubMenu, error) {
	var rows []models.SidebarSubMenuModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND menu_id = ?", tenantID, menuID).
		Order("level ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	subMenus := make([]*navigation.SidebarSubMenu, len(rows))
	for i := range rows {
		subMenus[i] = rows[i].ToDomain()
	}
	return subMenus, nil
}

// DeleteSubMenuForTenant deletes a submenu within a tenant
func (r *GormMenuRepository) DeleteSubMenuForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SidebarSubMenuModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindTreeForTenant returns active menus with their active submenus,
// both ordered by level. Submenus are fetched in one query and grouped
// in memory to avoid N+1.
func (r *GormMenuRepository) FindTreeForTenant(ctx context.Context, tenantID uuid.UUID) ([]*navigation.MenuTree, error) {
	var menuRows []models.SidebarMenuModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("level ASC, name ASC").
		Find(&menuRows).Error; err != nil {
		return nil, err
	}

	var subRows []models.SidebarSubMenuModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("level ASC, name ASC").
		Find(&subRows).Error; err != nil {
		return nil, err
	}

	subsByMenu := make(map[uuid.UUID][]*navigation.SidebarSubMenu)
	for i := range subRows {
		sub := subRows[i].ToDomain()
		subsByMenu[sub.MenuID] = append(subsByMenu[sub.MenuID], sub)
	}

	tree := make([]*navigation.MenuTree, len(menuRows))
	for i := range menuRows {
		menu := menuRows[i].ToDomain()
		subMenus := subsByMenu[menu.ID]
		if subMenus == nil {
			subMenus = []*navigation.SidebarSubMenu{}
		}
		tree[i] = &navigation.MenuTree{
			Menu:     menu,
			SubMenus: subMenus,
		}
	}
	return tree, nil
}

// applyFilter applies filter options to the query
func (r *GormMenuRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("level ASC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMenuRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR resource_key ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormMenuRepository implements MenuRepository
var _ navigation.MenuRepository = (*GormMenuRepository)(nil)
