package models

import (
	"time"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// EmployeeModel is the persistence model for identity.Employee
type EmployeeModel struct {
	TenantAggregateModel
	Username       string                  `gorm:"type:varchar(50);not null"`
	Email          string                  `gorm:"type:varchar(200)"`
	Phone          string                  `gorm:"type:varchar(50)"`
	PasswordHash   string                  `gorm:"type:varchar(200);not null"`
	DisplayName    string                  `gorm:"type:varchar(200)"`
	Status         identity.EmployeeStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RoleID         *uuid.UUID              `gorm:"type:uuid;index"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(64)"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the model to a domain Employee
func (m *EmployeeModel) ToDomain() *identity.Employee {
	e := &identity.Employee{
		Username:       m.Username,
		Email:          m.Email,
		Phone:          m.Phone,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Status:         m.Status,
		RoleID:         m.RoleID,
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee
func EmployeeModelFromDomain(e *identity.Employee) *EmployeeModel {
	m := &EmployeeModel{
		Username:       e.Username,
		Email:          e.Email,
		Phone:          e.Phone,
		PasswordHash:   e.PasswordHash,
		DisplayName:    e.DisplayName,
		Status:         e.Status,
		RoleID:         e.RoleID,
		LastLoginAt:    e.LastLoginAt,
		LastLoginIP:    e.LastLoginIP,
		FailedAttempts: e.FailedAttempts,
		LockedUntil:    e.LockedUntil,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// RoleModel is the persistence model for identity.Role. Menu grants are
// stored in role_menu_grants and loaded separately by the repository.
type RoleModel struct {
	TenantAggregateModel
	Code         string `gorm:"type:varchar(50);not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsEnabled    bool   `gorm:"not null;default:true;index"`
	SortOrder    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the model to a domain Role without grants
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		IsSystemRole: m.IsSystemRole,
		IsEnabled:    m.IsEnabled,
		SortOrder:    m.SortOrder,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// RoleModelFromDomain creates a persistence model from a domain Role
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsEnabled:    r.IsEnabled,
		SortOrder:    r.SortOrder,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// RoleMenuGrantModel is one menu grant row of a role
type RoleMenuGrantModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoleID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	MenuID    uuid.UUID  `gorm:"type:uuid;not null"`
	SubMenuID *uuid.UUID `gorm:"type:uuid"`
	Resource  string     `gorm:"type:varchar(50);not null"`
	CanView   bool       `gorm:"not null;default:false"`
	CanAdd    bool       `gorm:"not null;default:false"`
	CanEdit   bool       `gorm:"not null;default:false"`
	CanDelete bool       `gorm:"not null;default:false"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RoleMenuGrantModel) TableName() string {
	return "role_menu_grants"
}

// ToDomain converts the row to a domain MenuGrant
func (m *RoleMenuGrantModel) ToDomain() identity.MenuGrant {
	return identity.MenuGrant{
		MenuID:    m.MenuID,
		SubMenuID: m.SubMenuID,
		Resource:  m.Resource,
		CanView:   m.CanView,
		CanAdd:    m.CanAdd,
		CanEdit:   m.CanEdit,
		CanDelete: m.CanDelete,
	}
}
