package identity

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// CompanyStatus represents the status of a company (tenant)
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusInactive  CompanyStatus = "inactive"
	CompanyStatusSuspended CompanyStatus = "suspended" // Suspended by the platform admin
)

// Password cost for bcrypt
const bcryptCost = 12

// CompanyLimits holds seat limits for a company
type CompanyLimits struct {
	MaxEmployees int `json:"max_employees"`
	MaxAgents    int `json:"max_agents"`
	MaxCampaigns int `json:"max_campaigns"`
}

// DefaultCompanyLimits returns the default limits for a new company
func DefaultCompanyLimits() CompanyLimits {
	return CompanyLimits{
		MaxEmployees: 25,
		MaxAgents:    10,
		MaxCampaigns: 20,
	}
}

// Company represents a tenant in the multi-tenant system. It is the
// aggregate root for tenant-related operations and carries the company
// admin's login credentials for the company-admin authentication flow.
type Company struct {
	shared.BaseAggregateRoot
	Code              string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string        `gorm:"type:varchar(200);not null"`
	Status            CompanyStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName       string        `gorm:"type:varchar(100)"`
	ContactPhone      string        `gorm:"type:varchar(50)"`
	ContactEmail      string        `gorm:"type:varchar(200)"`
	Address           string        `gorm:"type:text"`
	AdminEmail        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	AdminPasswordHash string        `gorm:"type:varchar(200);not null"`
	Limits            CompanyLimits `gorm:"embedded;embeddedPrefix:limit_"`
	Notes             string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company with required fields. Only the
// platform admin creates companies.
func NewCompany(code, name, adminEmail, adminPassword string) (*Company, error) {
	if err := validateCompanyCode(code); err != nil {
		return nil, err
	}
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(adminEmail); err != nil {
		return nil, err
	}
	if err := validatePassword(adminPassword); err != nil {
		return nil, err
	}

	hash, err := hashPassword(adminPassword)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Status:            CompanyStatusActive,
		AdminEmail:        strings.ToLower(strings.TrimSpace(adminEmail)),
		AdminPasswordHash: hash,
		Limits:            DefaultCompanyLimits(),
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company))

	return company, nil
}

// Update updates the company's basic information
func (c *Company) Update(name string) error {
	if err := validateCompanyName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyUpdatedEvent(c))

	return nil
}

// SetContact sets the company's contact information
func (c *Company) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	c.ContactName = contactName
	c.ContactPhone = phone
	c.ContactEmail = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the company's address
func (c *Company) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the company's notes
func (c *Company) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// UpdateLimits updates the company's seat limits
func (c *Company) UpdateLimits(limits CompanyLimits) error {
	if limits.MaxEmployees < 0 || limits.MaxAgents < 0 || limits.MaxCampaigns < 0 {
		return shared.NewDomainError("INVALID_LIMITS", "Limits cannot be negative")
	}

	c.Limits = limits
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAdminPassword resets the company admin's password
func (c *Company) SetAdminPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	c.AdminPasswordHash = hash
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// VerifyAdminPassword verifies the company admin's password
func (c *Company) VerifyAdminPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(c.AdminPasswordHash), []byte(password))
	return err == nil
}

// Activate activates the company
func (c *Company) Activate() error {
	if c.Status == CompanyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Company is already active")
	}

	oldStatus := c.Status
	c.Status = CompanyStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, oldStatus, CompanyStatusActive))

	return nil
}

// Deactivate deactivates the company. Companies are never hard-deleted
// once they own employees or campaigns; this is the terminal state.
func (c *Company) Deactivate() error {
	if c.Status == CompanyStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Company is already inactive")
	}

	oldStatus := c.Status
	c.Status = CompanyStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, oldStatus, CompanyStatusInactive))

	return nil
}

// Suspend suspends the company
func (c *Company) Suspend() error {
	if c.Status == CompanyStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Company is already suspended")
	}

	oldStatus := c.Status
	c.Status = CompanyStatusSuspended
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, oldStatus, CompanyStatusSuspended))

	return nil
}

// IsActive returns true if the company is active
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// CanAddEmployee returns true if the company can add more employees
func (c *Company) CanAddEmployee(currentCount int) bool {
	return currentCount < c.Limits.MaxEmployees
}

// CanAddAgent returns true if the company can add more call agents
func (c *Company) CanAddAgent(currentCount int) bool {
	return currentCount < c.Limits.MaxAgents
}

// CanAddCampaign returns true if the company can add more campaigns
func (c *Company) CanAddCampaign(currentCount int) bool {
	return currentCount < c.Limits.MaxCampaigns
}

// Validation functions

func validateCompanyCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Company code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Company code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Company code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
