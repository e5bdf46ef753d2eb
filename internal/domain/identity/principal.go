package identity

import (
	"github.com/google/uuid"
)

// RoleKind is the discriminant carried in JWT claims. Each kind maps to
// one login flow and one route subtree.
type RoleKind string

const (
	RoleSuperAdmin   RoleKind = "super_admin"
	RoleCompanyAdmin RoleKind = "company_admin"
	RoleEmployee     RoleKind = "employee"
)

// IsValid returns true for a known role kind
func (k RoleKind) IsValid() bool {
	switch k {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

// Principal is the authenticated identity behind a request. It is a
// closed sum: exactly one variant per login flow, each carrying only
// the fields that flow provides.
type Principal interface {
	Kind() RoleKind
	SubjectID() uuid.UUID
	// Tenant returns the tenant the principal is confined to, or
	// uuid.Nil for platform admins who cross tenants explicitly.
	Tenant() uuid.UUID
}

// SuperAdminPrincipal is a platform admin identity
type SuperAdminPrincipal struct {
	AdminID     uuid.UUID
	Email       string
	DisplayName string
}

// Kind returns the role discriminant
func (p SuperAdminPrincipal) Kind() RoleKind { return RoleSuperAdmin }

// SubjectID returns the admin's ID
func (p SuperAdminPrincipal) SubjectID() uuid.UUID { return p.AdminID }

// Tenant returns uuid.Nil: platform admins are not tenant-confined
func (p SuperAdminPrincipal) Tenant() uuid.UUID { return uuid.Nil }

// CompanyAdminPrincipal is a company admin identity, carrying the
// company it administers
type CompanyAdminPrincipal struct {
	CompanyID   uuid.UUID
	CompanyCode string
	CompanyName string
	AdminEmail  string
}

// Kind returns the role discriminant
func (p CompanyAdminPrincipal) Kind() RoleKind { return RoleCompanyAdmin }

// SubjectID returns the company's ID (the admin is the company record)
func (p CompanyAdminPrincipal) SubjectID() uuid.UUID { return p.CompanyID }

// Tenant returns the administered company's ID
func (p CompanyAdminPrincipal) Tenant() uuid.UUID { return p.CompanyID }

// EmployeePrincipal is an employee identity with its resolved role
type EmployeePrincipal struct {
	EmployeeID  uuid.UUID
	CompanyID   uuid.UUID
	Username    string
	RoleID      *uuid.UUID
	Permissions []string
}

// Kind returns the role discriminant
func (p EmployeePrincipal) Kind() RoleKind { return RoleEmployee }

// SubjectID returns the employee's ID
func (p EmployeePrincipal) SubjectID() uuid.UUID { return p.EmployeeID }

// Tenant returns the employing company's ID
func (p EmployeePrincipal) Tenant() uuid.UUID { return p.CompanyID }

var (
	_ Principal = SuperAdminPrincipal{}
	_ Principal = CompanyAdminPrincipal{}
	_ Principal = EmployeePrincipal{}
)
