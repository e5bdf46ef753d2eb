package models

import (
	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/google/uuid"
)

// SidebarMenuModel is the persistence model for navigation.SidebarMenu
type SidebarMenuModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Icon        string `gorm:"type:varchar(100)"`
	Route       string `gorm:"type:varchar(200)"`
	ResourceKey string `gorm:"type:varchar(50);not null;index"`
	Level       int    `gorm:"not null;default:0"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SidebarMenuModel) TableName() string {
	return "sidebar_menus"
}

// ToDomain converts the model to a domain SidebarMenu
func (m *SidebarMenuModel) ToDomain() *navigation.SidebarMenu {
	menu := &navigation.SidebarMenu{
		Name:        m.Name,
		Icon:        m.Icon,
		Route:       m.Route,
		ResourceKey: m.ResourceKey,
		Level:       m.Level,
		IsActive:    m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&menu.TenantAggregateRoot)
	return menu
}

// SidebarMenuModelFromDomain creates a persistence model from a domain SidebarMenu
func SidebarMenuModelFromDomain(menu *navigation.SidebarMenu) *SidebarMenuModel {
	m := &SidebarMenuModel{
		Name:        menu.Name,
		Icon:        menu.Icon,
		Route:       menu.Route,
		ResourceKey: menu.ResourceKey,
		Level:       menu.Level,
		IsActive:    menu.IsActive,
	}
	m.FromDomainTenantAggregateRoot(menu.TenantAggregateRoot)
	return m
}

// SidebarSubMenuModel is the persistence model for navigation.SidebarSubMenu
type SidebarSubMenuModel struct {
	TenantAggregateModel
	MenuID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Route       string    `gorm:"type:varchar(200)"`
	ResourceKey string    `gorm:"type:varchar(50);not null;index"`
	Level       int       `gorm:"not null;default:0"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SidebarSubMenuModel) TableName() string {
	return "sidebar_sub_menus"
}

// ToDomain converts the model to a domain SidebarSubMenu
func (m *SidebarSubMenuModel) ToDomain() *navigation.SidebarSubMenu {
	subMenu := &navigation.SidebarSubMenu{
		MenuID:      m.MenuID,
		Name:        m.Name,
		Route:       m.Route,
		ResourceKey: m.ResourceKey,
		Level:       m.Level,
		IsActive:    m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&subMenu.TenantAggregateRoot)
	return subMenu
}

// SidebarSubMenuModelFromDomain creates a persistence model from a domain SidebarSubMenu
func SidebarSubMenuModelFromDomain(subMenu *navigation.SidebarSubMenu) *SidebarSubMenuModel {
	m := &SidebarSubMenuModel{
		MenuID:      subMenu.MenuID,
		Name:        subMenu.Name,
		Route:       subMenu.Route,
		ResourceKey: subMenu.ResourceKey,
		Level:       subMenu.Level,
		IsActive:    subMenu.IsActive,
	}
	m.FromDomainTenantAggregateRoot(subMenu.TenantAggregateRoot)
	return m
}
