package navigation

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SidebarMenu is one top-level entry of a company's navigation tree.
// Menus are tenant-scoped and ordered by Level; permission grants
// reference them through ResourceKey.
type SidebarMenu struct {
	shared.TenantAggregateRoot
	Name        string
	Icon        string
	Route       string
	ResourceKey string // Left side of resource:action permission codes
	Level       int    // Display order within the sidebar
	IsActive    bool
}

// NewSidebarMenu creates a new sidebar menu entry
func NewSidebarMenu(tenantID uuid.UUID, name, resourceKey string, level int) (*SidebarMenu, error) {
	if err := validateMenuName(name); err != nil {
		return nil, err
	}
	if err := validateResourceKey(resourceKey); err != nil {
		return nil, err
	}
	if level < 0 {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Menu level cannot be negative")
	}

	return &SidebarMenu{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		ResourceKey:         strings.ToLower(strings.TrimSpace(resourceKey)),
		Level:               level,
		IsActive:            true,
	}, nil
}

// Update updates the menu's display fields
func (m *SidebarMenu) Update(name, icon, route string) error {
	if err := validateMenuName(name); err != nil {
		return err
	}
	if len(icon) > 100 {
		return shared.NewDomainError("INVALID_ICON", "Icon cannot exceed 100 characters")
	}
	if len(route) > 200 {
		return shared.NewDomainError("INVALID_ROUTE", "Route cannot exceed 200 characters")
	}

	m.Name = strings.TrimSpace(name)
	m.Icon = icon
	m.Route = route
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetLevel moves the menu within the sidebar ordering
func (m *SidebarMenu) SetLevel(level int) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_LEVEL", "Menu level cannot be negative")
	}

	m.Level = level
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// Activate makes the menu visible
func (m *SidebarMenu) Activate() {
	m.IsActive = true
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// Deactivate hides the menu without deleting it
func (m *SidebarMenu) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// SidebarSubMenu is a second-level entry under one SidebarMenu
type SidebarSubMenu struct {
	shared.TenantAggregateRoot
	MenuID      uuid.UUID
	Name        string
	Route       string
	ResourceKey string
	Level       int
	IsActive    bool
}

// NewSidebarSubMenu creates a new submenu under the given menu
func NewSidebarSubMenu(tenantID, menuID uuid.UUID, name, resourceKey string, level int) (*SidebarSubMenu, error) {
	if menuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU_ID", "Menu ID cannot be empty")
	}
	if err := validateMenuName(name); err != nil {
		return nil, err
	}
	if err := validateResourceKey(resourceKey); err != nil {
		return nil, err
	}
	if level < 0 {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Submenu level cannot be negative")
	}

	return &SidebarSubMenu{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MenuID:              menuID,
		Name:                strings.TrimSpace(name),
		ResourceKey:         strings.ToLower(strings.TrimSpace(resourceKey)),
		Level:               level,
		IsActive:            true,
	}, nil
}

// Update updates the submenu's display fields
func (s *SidebarSubMenu) Update(name, route string) error {
	if err := validateMenuName(name); err != nil {
		return err
	}
	if len(route) > 200 {
		return shared.NewDomainError("INVALID_ROUTE", "Route cannot exceed 200 characters")
	}

	s.Name = strings.TrimSpace(name)
	s.Route = route
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetLevel moves the submenu within its menu's ordering
func (s *SidebarSubMenu) SetLevel(level int) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_LEVEL", "Submenu level cannot be negative")
	}

	s.Level = level
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate makes the submenu visible
func (s *SidebarSubMenu) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate hides the submenu without deleting it
func (s *SidebarSubMenu) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// MenuTree is one menu with its ordered submenus, as served to the
// sidebar after permission filtering
type MenuTree struct {
	Menu     *SidebarMenu      `json:"menu"`
	SubMenus []*SidebarSubMenu `json:"sub_menus"`
}

func validateMenuName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Menu name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Menu name cannot exceed 100 characters")
	}
	return nil
}

func validateResourceKey(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return shared.NewDomainError("INVALID_RESOURCE_KEY", "Resource key cannot be empty")
	}
	if len(key) > 50 {
		return shared.NewDomainError("INVALID_RESOURCE_KEY", "Resource key cannot exceed 50 characters")
	}
	for _, r := range key {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
			return shared.NewDomainError("INVALID_RESOURCE_KEY", "Resource key can only contain lowercase letters, numbers, and underscores")
		}
	}
	return nil
}
