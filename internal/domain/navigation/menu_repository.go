package navigation

import (
	"context"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MenuRepository defines the interface for sidebar menu persistence.
// Listing orders by level ascending.
type MenuRepository interface {
	Save(ctx context.Context, menu *SidebarMenu) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SidebarMenu, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*SidebarMenu, int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	SaveSubMenu(ctx context.Context, subMenu *SidebarSubMenu) error
	FindSubMenuByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SidebarSubMenu, error)
	FindSubMenusByMenuForTenant(ctx context.Context, tenantID, menuID uuid.UUID) ([]*SidebarSubMenu, error)
	DeleteSubMenuForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// FindTreeForTenant returns active menus with their active submenus,
	// both ordered by level
	FindTreeForTenant(ctx context.Context, tenantID uuid.UUID) ([]*MenuTree, error)
}

// MenuFilterKeys is the filter allow-list for menu listings
var MenuFilterKeys = []string{"is_active"}
