package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeStatus represents the status of an employee
type EmployeeStatus string

const (
	EmployeeStatusPending     EmployeeStatus = "pending"     // Awaiting activation
	EmployeeStatusActive      EmployeeStatus = "active"      // Normal active status
	EmployeeStatusLocked      EmployeeStatus = "locked"      // Locked due to failed login attempts
	EmployeeStatusDeactivated EmployeeStatus = "deactivated" // Manually deactivated
)

// Employee represents a staff member of a company. It is the aggregate
// root for employee-related operations; each employee belongs to exactly
// one company and carries one role.
type Employee struct {
	shared.TenantAggregateRoot
	Username       string
	Email          string
	Phone          string
	PasswordHash   string
	DisplayName    string
	Status         EmployeeStatus
	RoleID         *uuid.UUID
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewEmployee creates a new employee with required fields
func NewEmployee(tenantID uuid.UUID, username, password string) (*Employee, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	employee := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        hash,
		Status:              EmployeeStatusPending,
	}

	employee.AddDomainEvent(NewEmployeeCreatedEvent(employee))

	return employee, nil
}

// NewActiveEmployee creates a new employee that is immediately active
func NewActiveEmployee(tenantID uuid.UUID, username, password string) (*Employee, error) {
	employee, err := NewEmployee(tenantID, username, password)
	if err != nil {
		return nil, err
	}

	employee.Status = EmployeeStatusActive
	return employee, nil
}

// SetEmail sets the employee's email
func (e *Employee) SetEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	e.Email = email
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetPhone sets the employee's phone number
func (e *Employee) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	e.Phone = strings.TrimSpace(phone)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetDisplayName sets the employee's display name
func (e *Employee) SetDisplayName(displayName string) error {
	if displayName != "" && len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	e.DisplayName = strings.TrimSpace(displayName)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AssignRole assigns a role to the employee
func (e *Employee) AssignRole(roleID uuid.UUID) error {
	if roleID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROLE_ID", "Role ID cannot be empty")
	}

	e.RoleID = &roleID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeRoleAssignedEvent(e, roleID))

	return nil
}

// ClearRole removes the employee's role
func (e *Employee) ClearRole() {
	e.RoleID = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// ChangePassword changes the employee's password after verifying the old one
func (e *Employee) ChangePassword(oldPassword, newPassword string) error {
	if !e.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return e.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (e *Employee) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	e.PasswordHash = hash
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (e *Employee) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password))
	return err == nil
}

// Activate activates the employee
func (e *Employee) Activate() error {
	if e.Status == EmployeeStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Employee is already active")
	}

	oldStatus := e.Status
	e.Status = EmployeeStatusActive
	e.FailedAttempts = 0
	e.LockedUntil = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, oldStatus, EmployeeStatusActive))

	return nil
}

// Deactivate deactivates the employee
func (e *Employee) Deactivate() error {
	if e.Status == EmployeeStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Employee is already deactivated")
	}

	oldStatus := e.Status
	e.Status = EmployeeStatusDeactivated
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, oldStatus, EmployeeStatusDeactivated))

	return nil
}

// Lock locks the employee account
func (e *Employee) Lock(duration time.Duration) error {
	if e.Status == EmployeeStatusDeactivated {
		return shared.NewDomainError("EMPLOYEE_DEACTIVATED", "Cannot lock a deactivated employee")
	}

	oldStatus := e.Status
	e.Status = EmployeeStatusLocked
	if duration > 0 {
		lockedUntil := time.Now().Add(duration)
		e.LockedUntil = &lockedUntil
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, oldStatus, EmployeeStatusLocked))

	return nil
}

// Unlock unlocks the employee account
func (e *Employee) Unlock() error {
	if e.Status != EmployeeStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "Employee is not locked")
	}

	e.Status = EmployeeStatusActive
	e.FailedAttempts = 0
	e.LockedUntil = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeStatusChangedEvent(e, EmployeeStatusLocked, EmployeeStatusActive))

	return nil
}

// RecordLoginSuccess records a successful login
func (e *Employee) RecordLoginSuccess(ip string) {
	now := time.Now()
	e.LastLoginAt = &now
	e.LastLoginIP = ip
	e.FailedAttempts = 0
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account was locked as a result.
func (e *Employee) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	e.FailedAttempts++
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	if e.FailedAttempts >= maxAttempts {
		_ = e.Lock(lockDuration)
		return true
	}

	return false
}

// IsActive returns true if the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// IsLocked returns true if the employee is locked and the lock has not expired
func (e *Employee) IsLocked() bool {
	if e.Status != EmployeeStatusLocked {
		return false
	}

	if e.LockedUntil != nil && time.Now().After(*e.LockedUntil) {
		return false
	}

	return true
}

// CanLogin returns true if the employee can log in
func (e *Employee) CanLogin() bool {
	if e.Status == EmployeeStatusDeactivated {
		return false
	}
	if e.Status == EmployeeStatusPending {
		return false
	}
	if e.IsLocked() {
		return false
	}
	return true
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (e *Employee) GetDisplayNameOrUsername() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Username
}

// Validation functions

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}
