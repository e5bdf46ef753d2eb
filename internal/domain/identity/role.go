package identity

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Permission represents a functional permission (resource:action pattern).
// It is a value object.
type Permission struct {
	Code     string // e.g., "leads:edit"
	Resource string // e.g., "leads"
	Action   string // e.g., "edit"
}

// Permission actions mirror the four capability booleans of a menu grant
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	if resource == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource cannot be empty")
	}
	switch action {
	case ActionView, ActionAdd, ActionEdit, ActionDelete:
	default:
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission action must be one of view, add, edit, delete")
	}

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g., "leads:edit")
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1])
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// IsEmpty returns true if the permission is empty
func (p Permission) IsEmpty() bool {
	return p.Code == ""
}

// MenuGrant is one row of a role's permission matrix: the four
// capability booleans for one sidebar menu or submenu. Resource is the
// menu's resource key and becomes the left side of permission codes.
type MenuGrant struct {
	MenuID    uuid.UUID
	SubMenuID *uuid.UUID
	Resource  string
	CanView   bool
	CanAdd    bool
	CanEdit   bool
	CanDelete bool
}

// NewMenuGrant creates a grant row for a menu
func NewMenuGrant(menuID uuid.UUID, resource string, view, add, edit, del bool) (*MenuGrant, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if menuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU_ID", "Menu ID cannot be empty")
	}
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Grant resource cannot be empty")
	}

	return &MenuGrant{
		MenuID:    menuID,
		Resource:  resource,
		CanView:   view,
		CanAdd:    add,
		CanEdit:   edit,
		CanDelete: del,
	}, nil
}

// NewSubMenuGrant creates a grant row for a submenu
func NewSubMenuGrant(menuID, subMenuID uuid.UUID, resource string, view, add, edit, del bool) (*MenuGrant, error) {
	grant, err := NewMenuGrant(menuID, resource, view, add, edit, del)
	if err != nil {
		return nil, err
	}
	if subMenuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBMENU_ID", "Submenu ID cannot be empty")
	}

	grant.SubMenuID = &subMenuID
	return grant, nil
}

// Permissions folds the grant's booleans into permission value objects
func (g MenuGrant) Permissions() []Permission {
	perms := make([]Permission, 0, 4)
	add := func(action string, allowed bool) {
		if allowed {
			perms = append(perms, Permission{
				Code:     g.Resource + ":" + action,
				Resource: g.Resource,
				Action:   action,
			})
		}
	}
	add(ActionView, g.CanView)
	add(ActionAdd, g.CanAdd)
	add(ActionEdit, g.CanEdit)
	add(ActionDelete, g.CanDelete)
	return perms
}

// Allows reports whether the grant permits the given action
func (g MenuGrant) Allows(action string) bool {
	switch action {
	case ActionView:
		return g.CanView
	case ActionAdd:
		return g.CanAdd
	case ActionEdit:
		return g.CanEdit
	case ActionDelete:
		return g.CanDelete
	default:
		return false
	}
}

// Role represents a role in the RBAC system. It is the aggregate root
// for role-related operations and holds the per-menu permission matrix.
type Role struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Description  string
	IsSystemRole bool // System roles cannot be deleted
	IsEnabled    bool
	SortOrder    int
	Grants       []MenuGrant // Stored in separate table
}

// NewRole creates a new role with required fields
func NewRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		IsSystemRole:        false,
		IsEnabled:           true,
		Grants:              make([]MenuGrant, 0),
	}

	return role, nil
}

// NewSystemRole creates a new system role (cannot be deleted)
func NewSystemRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	role, err := NewRole(tenantID, code, name)
	if err != nil {
		return nil, err
	}

	role.IsSystemRole = true
	return role, nil
}

// SetName sets the role name
func (r *Role) SetName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetSortOrder sets the sort order for display
func (r *Role) SetSortOrder(order int) {
	r.SortOrder = order
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Enable enables the role
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}

	r.IsEnabled = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Disable disables the role
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}

	r.IsEnabled = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetGrants replaces the role's permission matrix. Duplicate rows for
// the same menu/submenu pair are rejected.
func (r *Role) SetGrants(grants []MenuGrant) error {
	seen := make(map[string]bool, len(grants))
	for _, g := range grants {
		if g.MenuID == uuid.Nil {
			return shared.NewDomainError("INVALID_MENU_ID", "Menu ID cannot be empty")
		}
		if g.Resource == "" {
			return shared.NewDomainError("INVALID_RESOURCE", "Grant resource cannot be empty")
		}
		key := g.MenuID.String()
		if g.SubMenuID != nil {
			key += "/" + g.SubMenuID.String()
		}
		if seen[key] {
			return shared.NewDomainError("DUPLICATE_GRANT", "Duplicate grant for the same menu entry")
		}
		seen[key] = true
	}

	r.Grants = make([]MenuGrant, len(grants))
	copy(r.Grants, grants)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Permissions flattens the grant matrix into permission value objects
func (r *Role) Permissions() []Permission {
	perms := make([]Permission, 0, len(r.Grants)*4)
	seen := make(map[string]bool)
	for _, g := range r.Grants {
		for _, p := range g.Permissions() {
			if !seen[p.Code] {
				seen[p.Code] = true
				perms = append(perms, p)
			}
		}
	}
	return perms
}

// HasPermission reports whether the role's matrix allows resource:action
func (r *Role) HasPermission(resource, action string) bool {
	if !r.IsEnabled {
		return false
	}
	for _, g := range r.Grants {
		if g.Resource == resource && g.Allows(action) {
			return true
		}
	}
	return false
}

// CanDelete returns true if the role may be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystemRole
}

// Validation functions

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Role code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
			return shared.NewDomainError("INVALID_CODE", "Role code can only contain letters, numbers, and underscores")
		}
	}
	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
