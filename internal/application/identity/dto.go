package identity

import (
	"time"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/google/uuid"
)

// SuperAdminLoginInput contains platform admin login credentials
type SuperAdminLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// CompanyLoginInput contains company admin login credentials
type CompanyLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// EmployeeLoginInput contains employee login credentials. The company
// code routes the username lookup to the right tenant.
type EmployeeLoginInput struct {
	CompanyCode string `json:"company_code" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	IP          string `json:"-"`
}

// UserInfo contains the authenticated identity returned on login
type UserInfo struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id,omitempty"`
	Role        identity.RoleKind `json:"role"`
	Name        string            `json:"name"`
	Email       string            `json:"email,omitempty"`
	Username    string            `json:"username,omitempty"`
	RoleID      *uuid.UUID        `json:"role_id,omitempty"`
	Permissions []string          `json:"permissions,omitempty"`
}

// LoginResult contains tokens and user info after successful login.
// Menus carries the permission-filtered sidebar for employee and
// company admin logins; it is nil for platform admins.
type LoginResult struct {
	AccessToken           string                 `json:"access_token"`
	RefreshToken          string                 `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time              `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time              `json:"refresh_token_expires_at"`
	TokenType             string                 `json:"token_type"`
	User                  UserInfo               `json:"user"`
	Menus                 []*navigation.MenuTree `json:"menus,omitempty"`
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains the new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	SubjectID uuid.UUID
	TokenJTI  string
	TokenTTL  time.Duration
}

// GetCurrentUserInput identifies the authenticated principal
type GetCurrentUserInput struct {
	Role      identity.RoleKind
	TenantID  uuid.UUID
	SubjectID uuid.UUID
}

// CurrentUserResult contains the current user's profile
type CurrentUserResult struct {
	User  UserInfo               `json:"user"`
	Menus []*navigation.MenuTree `json:"menus,omitempty"`
}

// ChangePasswordInput contains input for an employee changing their own password
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	EmployeeID  uuid.UUID
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Company DTOs

// CreateCompanyRequest contains input for creating a company
type CreateCompanyRequest struct {
	Code          string                  `json:"code" binding:"required"`
	Name          string                  `json:"name" binding:"required"`
	AdminEmail    string                  `json:"admin_email" binding:"required"`
	AdminPassword string                  `json:"admin_password" binding:"required"`
	ContactName   string                  `json:"contact_name"`
	ContactPhone  string                  `json:"contact_phone"`
	ContactEmail  string                  `json:"contact_email"`
	Address       string                  `json:"address"`
	Notes         string                  `json:"notes"`
	Limits        *identity.CompanyLimits `json:"limits"`
}

// UpdateCompanyRequest contains input for updating a company.
// Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name         *string                 `json:"name"`
	ContactName  *string                 `json:"contact_name"`
	ContactPhone *string                 `json:"contact_phone"`
	ContactEmail *string                 `json:"contact_email"`
	Address      *string                 `json:"address"`
	Notes        *string                 `json:"notes"`
	Limits       *identity.CompanyLimits `json:"limits"`
}

// ListCompaniesInput contains filters for listing companies
type ListCompaniesInput struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Code     string `form:"code"`
}

// CompanyResponse is the company representation returned by the API.
// The admin password hash never leaves the service layer.
type CompanyResponse struct {
	ID           uuid.UUID              `json:"id"`
	Code         string                 `json:"code"`
	Name         string                 `json:"name"`
	Status       identity.CompanyStatus `json:"status"`
	ContactName  string                 `json:"contact_name,omitempty"`
	ContactPhone string                 `json:"contact_phone,omitempty"`
	ContactEmail string                 `json:"contact_email,omitempty"`
	Address      string                 `json:"address,omitempty"`
	AdminEmail   string                 `json:"admin_email"`
	Limits       identity.CompanyLimits `json:"limits"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Version      int                    `json:"version"`
}

// ToCompanyResponse converts a company aggregate to a response
func ToCompanyResponse(c *identity.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Status:       c.Status,
		ContactName:  c.ContactName,
		ContactPhone: c.ContactPhone,
		ContactEmail: c.ContactEmail,
		Address:      c.Address,
		AdminEmail:   c.AdminEmail,
		Limits:       c.Limits,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// ResetCompanyPasswordRequest contains input for resetting a company admin password
type ResetCompanyPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// Employee DTOs

// CreateEmployeeRequest contains input for creating an employee
type CreateEmployeeRequest struct {
	Username    string     `json:"username" binding:"required"`
	Password    string     `json:"password" binding:"required"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DisplayName string     `json:"display_name"`
	RoleID      *uuid.UUID `json:"role_id"`
	Activate    bool       `json:"activate"`
}

// UpdateEmployeeRequest contains input for updating an employee.
// Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DisplayName *string `json:"display_name"`
}

// ListEmployeesInput contains filters for listing employees
type ListEmployeesInput struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	RoleID   *uuid.UUID `form:"role_id"`
}

// EmployeeResponse is the employee representation returned by the API
type EmployeeResponse struct {
	ID          uuid.UUID               `json:"id"`
	TenantID    uuid.UUID               `json:"tenant_id"`
	Username    string                  `json:"username"`
	Email       string                  `json:"email,omitempty"`
	Phone       string                  `json:"phone,omitempty"`
	DisplayName string                  `json:"display_name,omitempty"`
	Status      identity.EmployeeStatus `json:"status"`
	RoleID      *uuid.UUID              `json:"role_id,omitempty"`
	LastLoginAt *time.Time              `json:"last_login_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Version     int                     `json:"version"`
}

// ToEmployeeResponse converts an employee aggregate to a response
func ToEmployeeResponse(e *identity.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:          e.ID,
		TenantID:    e.TenantID,
		Username:    e.Username,
		Email:       e.Email,
		Phone:       e.Phone,
		DisplayName: e.DisplayName,
		Status:      e.Status,
		RoleID:      e.RoleID,
		LastLoginAt: e.LastLoginAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

// ResetEmployeePasswordRequest contains input for an admin resetting an employee password
type ResetEmployeePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// Role DTOs

// CreateRoleRequest contains input for creating a role
type CreateRoleRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateRoleRequest contains input for updating a role.
// Nil fields are left unchanged.
type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

// ListRolesInput contains filters for listing roles
type ListRolesInput struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Search    string `form:"search"`
	IsEnabled *bool  `form:"is_enabled"`
}

// MenuGrantDTO is one row of a role's permission matrix
type MenuGrantDTO struct {
	MenuID    uuid.UUID  `json:"menu_id" binding:"required"`
	SubMenuID *uuid.UUID `json:"sub_menu_id"`
	Resource  string     `json:"resource" binding:"required"`
	CanView   bool       `json:"can_view"`
	CanAdd    bool       `json:"can_add"`
	CanEdit   bool       `json:"can_edit"`
	CanDelete bool       `json:"can_delete"`
}

// SetGrantsRequest replaces a role's permission matrix
type SetGrantsRequest struct {
	Grants []MenuGrantDTO `json:"grants"`
}

// RoleResponse is the role representation returned by the API
type RoleResponse struct {
	ID           uuid.UUID      `json:"id"`
	TenantID     uuid.UUID      `json:"tenant_id"`
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	IsSystemRole bool           `json:"is_system_role"`
	IsEnabled    bool           `json:"is_enabled"`
	SortOrder    int            `json:"sort_order"`
	Grants       []MenuGrantDTO `json:"grants"`
	Permissions  []string       `json:"permissions"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Version      int            `json:"version"`
}

// ToRoleResponse converts a role aggregate to a response
func ToRoleResponse(r *identity.Role) *RoleResponse {
	grants := make([]MenuGrantDTO, 0, len(r.Grants))
	for _, g := range r.Grants {
		grants = append(grants, MenuGrantDTO{
			MenuID:    g.MenuID,
			SubMenuID: g.SubMenuID,
			Resource:  g.Resource,
			CanView:   g.CanView,
			CanAdd:    g.CanAdd,
			CanEdit:   g.CanEdit,
			CanDelete: g.CanDelete,
		})
	}

	perms := r.Permissions()
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.Code)
	}

	return &RoleResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsEnabled:    r.IsEnabled,
		SortOrder:    r.SortOrder,
		Grants:       grants,
		Permissions:  codes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}
