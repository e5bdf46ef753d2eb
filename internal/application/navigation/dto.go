package navigation

import (
	"time"

	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/google/uuid"
)

// CreateMenuRequest contains input for creating a sidebar menu
type CreateMenuRequest struct {
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	Route       string `json:"route"`
	ResourceKey string `json:"resource_key" binding:"required"`
	Level       int    `json:"level"`
}

// UpdateMenuRequest contains input for updating a sidebar menu.
// Nil fields are left unchanged.
type UpdateMenuRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Route *string `json:"route"`
	Level *int    `json:"level"`
}

// ListMenusInput contains filters for listing menus
type ListMenusInput struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// MenuResponse is the sidebar menu representation returned by the API
type MenuResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Route       string    `json:"route,omitempty"`
	ResourceKey string    `json:"resource_key"`
	Level       int       `json:"level"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToMenuResponse converts a menu aggregate to a response
func ToMenuResponse(m *navigation.SidebarMenu) *MenuResponse {
	return &MenuResponse{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Icon:        m.Icon,
		Route:       m.Route,
		ResourceKey: m.ResourceKey,
		Level:       m.Level,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version,
	}
}

// CreateSubMenuRequest contains input for creating a submenu
type CreateSubMenuRequest struct {
	Name        string `json:"name" binding:"required"`
	Route       string `json:"route"`
	ResourceKey string `json:"resource_key" binding:"required"`
	Level       int    `json:"level"`
}

// UpdateSubMenuRequest contains input for updating a submenu.
// Nil fields are left unchanged.
type UpdateSubMenuRequest struct {
	Name  *string `json:"name"`
	Route *string `json:"route"`
	Level *int    `json:"level"`
}

// SubMenuResponse is the submenu representation returned by the API
type SubMenuResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	MenuID      uuid.UUID `json:"menu_id"`
	Name        string    `json:"name"`
	Route       string    `json:"route,omitempty"`
	ResourceKey string    `json:"resource_key"`
	Level       int       `json:"level"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToSubMenuResponse converts a submenu aggregate to a response
func ToSubMenuResponse(s *navigation.SidebarSubMenu) *SubMenuResponse {
	return &SubMenuResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		MenuID:      s.MenuID,
		Name:        s.Name,
		Route:       s.Route,
		ResourceKey: s.ResourceKey,
		Level:       s.Level,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// MenuTreeResponse is one menu with its submenus
type MenuTreeResponse struct {
	Menu     *MenuResponse      `json:"menu"`
	SubMenus []*SubMenuResponse `json:"sub_menus"`
}

// ToMenuTreeResponse converts a domain menu tree to a response
func ToMenuTreeResponse(t *navigation.MenuTree) *MenuTreeResponse {
	subMenus := make([]*SubMenuResponse, 0, len(t.SubMenus))
	for _, s := range t.SubMenus {
		subMenus = append(subMenus, ToSubMenuResponse(s))
	}
	return &MenuTreeResponse{
		Menu:     ToMenuResponse(t.Menu),
		SubMenus: subMenus,
	}
}
