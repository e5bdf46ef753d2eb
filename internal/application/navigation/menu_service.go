package navigation

import (
	"context"

	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MenuService handles sidebar menu management for a company. Permission
// grants reference menus through their resource keys, so menu changes
// flow into what role matrices can grant.
type MenuService struct {
	menuRepo navigation.MenuRepository
	logger   *zap.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo navigation.MenuRepository, logger *zap.Logger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// CreateMenu creates a new sidebar menu
func (s *MenuService) CreateMenu(ctx context.Context, tenantID uuid.UUID, req CreateMenuRequest) (*MenuResponse, error) {
	menu, err := navigation.NewSidebarMenu(tenantID, req.Name, req.ResourceKey, req.Level)
	if err != nil {
		return nil, err
	}

	if req.Icon != "" || req.Route != "" {
		if err := menu.Update(req.Name, req.Icon, req.Route); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.Save(ctx, menu); err != nil {
		s.logger.Error("Failed to save menu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create menu")
	}

	s.logger.Info("Menu created",
		zap.String("menu_id", menu.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("resource_key", menu.ResourceKey))

	return ToMenuResponse(menu), nil
}

// GetMenu retrieves a menu by ID
func (s *MenuService) GetMenu(ctx context.Context, tenantID, id uuid.UUID) (*MenuResponse, error) {
	menu, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return ToMenuResponse(menu), nil
}

// ListMenus lists menus with pagination and filters, ordered by level
func (s *MenuService) ListMenus(ctx context.Context, tenantID uuid.UUID, input ListMenusInput) (*shared.Paginated[*MenuResponse], error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.PageSize < 1 || input.PageSize > 100 {
		input.PageSize = 20
	}

	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  "level",
		OrderDir: "asc",
		Search:   input.Search,
		Filters:  make(map[string]interface{}),
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	menus, total, err := s.menuRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list menus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list menus")
	}

	responses := make([]*MenuResponse, 0, len(menus))
	for _, m := range menus {
		responses = append(responses, ToMenuResponse(m))
	}

	result := shared.NewPaginated(responses, total, input.Page, input.PageSize)
	return &result, nil
}

// UpdateMenu updates a menu's display fields
func (s *MenuService) UpdateMenu(ctx context.Context, tenantID, id uuid.UUID, req UpdateMenuRequest) (*MenuResponse, error) {
	menu, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	name := menu.Name
	icon := menu.Icon
	route := menu.Route
	if req.Name != nil {
		name = *req.Name
	}
	if req.Icon != nil {
		icon = *req.Icon
	}
	if req.Route != nil {
		route = *req.Route
	}
	if err := menu.Update(name, icon, route); err != nil {
		return nil, err
	}

	if req.Level != nil {
		if err := menu.SetLevel(*req.Level); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.Save(ctx, menu); err != nil {
		s.logger.Error("Failed to update menu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update menu")
	}

	s.logger.Info("Menu updated", zap.String("menu_id", menu.ID.String()))

	return ToMenuResponse(menu), nil
}

// ActivateMenu makes a menu visible
func (s *MenuService) ActivateMenu(ctx context.Context, tenantID, id uuid.UUID) (*MenuResponse, error) {
	menu, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	menu.Activate()

	if err := s.menuRepo.Save(ctx, menu); err != nil {
		s.logger.Error("Failed to activate menu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate menu")
	}

	return ToMenuResponse(menu), nil
}

// DeactivateMenu hides a menu without deleting it
func (s *MenuService) DeactivateMenu(ctx context.Context, tenantID, id uuid.UUID) (*MenuResponse, error) {
	menu, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	menu.Deactivate()

	if err := s.menuRepo.Save(ctx, menu); err != nil {
		s.logger.Error("Failed to deactivate menu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate menu")
	}

	return ToMenuResponse(menu), nil
}

// DeleteMenu deletes a menu. Its submenus must be deleted first.
func (s *MenuService) DeleteMenu(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return shared.ErrNotFound
	}

	subMenus, err := s.menuRepo.FindSubMenusByMenuForTenant(ctx, tenantID, id)
	if err != nil {
		s.logger.Error("Failed to check submenus", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check submenus")
	}
	if len(subMenus) > 0 {
		return shared.NewDomainError("MENU_HAS_SUBMENUS", "Menu still has submenus")
	}

	if err := s.menuRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete menu", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete menu")
	}

	s.logger.Info("Menu deleted",
		zap.String("menu_id", id.String()),
		zap.String("tenant_id", tenantID.String()))
	return nil
}

// CreateSubMenu creates a new submenu under a menu
func (s *MenuService) CreateSubMenu(ctx context.Context, tenantID, menuID uuid.UUID, req CreateSubMenuRequest) (*SubMenuResponse, error) {
	if _, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, menuID); err != nil {
		return nil, shared.NewDomainError("MENU_NOT_FOUND", "Parent menu does not exist")
	}

	subMenu, err := navigation.NewSidebarSubMenu(tenantID, menuID, req.Name, req.ResourceKey, req.Level)
	if err != nil {
		return nil, err
	}

	if req.Route != "" {
		if err := subMenu.Update(req.Name, req.Route); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.SaveSubMenu(ctx, subMenu); err != nil {
		s.logger.Error("Failed to save submenu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create submenu")
	}

	s.logger.Info("Submenu created",
		zap.String("sub_menu_id", subMenu.ID.String()),
		zap.String("menu_id", menuID.String()))

	return ToSubMenuResponse(subMenu), nil
}

// GetSubMenu retrieves a submenu by ID
func (s *MenuService) GetSubMenu(ctx context.Context, tenantID, id uuid.UUID) (*SubMenuResponse, error) {
	subMenu, err := s.menuRepo.FindSubMenuByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return ToSubMenuResponse(subMenu), nil
}

// ListSubMenus lists the submenus of a menu, ordered by level
func (s *MenuService) ListSubMenus(ctx context.Context, tenantID, menuID uuid.UUID) ([]*SubMenuResponse, error) {
	subMenus, err := s.menuRepo.FindSubMenusByMenuForTenant(ctx, tenantID, menuID)
	if err != nil {
		s.logger.Error("Failed to list submenus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list submenus")
	}

	responses := make([]*SubMenuResponse, 0, len(subMenus))
	for _, sm := range subMenus {
		responses = append(responses, ToSubMenuResponse(sm))
	}
	return responses, nil
}

// UpdateSubMenu updates a submenu's display fields
func (s *MenuService) UpdateSubMenu(ctx context.Context, tenantID, id uuid.UUID, req UpdateSubMenuRequest) (*SubMenuResponse, error) {
	subMenu, err := s.menuRepo.FindSubMenuByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	name := subMenu.Name
	route := subMenu.Route
	if req.Name != nil {
		name = *req.Name
	}
	if req.Route != nil {
		route = *req.Route
	}
	if err := subMenu.Update(name, route); err != nil {
		return nil, err
	}

	if req.Level != nil {
		if err := subMenu.SetLevel(*req.Level); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.SaveSubMenu(ctx, subMenu); err != nil {
		s.logger.Error("Failed to update submenu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update submenu")
	}

	return ToSubMenuResponse(subMenu), nil
}

// ActivateSubMenu makes a submenu visible
func (s *MenuService) ActivateSubMenu(ctx context.Context, tenantID, id uuid.UUID) (*SubMenuResponse, error) {
	subMenu, err := s.menuRepo.FindSubMenuByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	subMenu.Activate()

	if err := s.menuRepo.SaveSubMenu(ctx, subMenu); err != nil {
		s.logger.Error("Failed to activate submenu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate submenu")
	}

	return ToSubMenuResponse(subMenu), nil
}

// DeactivateSubMenu hides a submenu without deleting it
func (s *MenuService) DeactivateSubMenu(ctx context.Context, tenantID, id uuid.UUID) (*SubMenuResponse, error) {
	subMenu, err := s.menuRepo.FindSubMenuByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	subMenu.Deactivate()

	if err := s.menuRepo.SaveSubMenu(ctx, subMenu); err != nil {
		s.logger.Error("Failed to deactivate submenu", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate submenu")
	}

	return ToSubMenuResponse(subMenu), nil
}

// DeleteSubMenu deletes a submenu
func (s *MenuService) DeleteSubMenu(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.menuRepo.FindSubMenuByIDForTenant(ctx, tenantID, id); err != nil {
		return shared.ErrNotFound
	}

	if err := s.menuRepo.DeleteSubMenuForTenant(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete submenu", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete submenu")
	}

	s.logger.Info("Submenu deleted",
		zap.String("sub_menu_id", id.String()),
		zap.String("tenant_id", tenantID.String()))
	return nil
}

// GetTree returns the active menu tree for a tenant, ordered by level
func (s *MenuService) GetTree(ctx context.Context, tenantID uuid.UUID) ([]*MenuTreeResponse, error) {
	tree, err := s.menuRepo.FindTreeForTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load menu tree", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load menu tree")
	}

	responses := make([]*MenuTreeResponse, 0, len(tree))
	for _, node := range tree {
		responses = append(responses, ToMenuTreeResponse(node))
	}
	return responses, nil
}
