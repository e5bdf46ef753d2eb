package identity

import (
	"context"
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PlatformAdmin represents a platform-level administrator account.
// Platform admins are not tenant-scoped; they manage companies across
// the whole installation.
type PlatformAdmin struct {
	shared.BaseAggregateRoot
	Email          string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string `gorm:"type:varchar(200);not null"`
	DisplayName    string `gorm:"type:varchar(200)"`
	IsActive       bool   `gorm:"not null;default:true"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(64)"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (PlatformAdmin) TableName() string {
	return "platform_admins"
}

// NewPlatformAdmin creates a new platform admin account
func NewPlatformAdmin(email, password, displayName string) (*PlatformAdmin, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &PlatformAdmin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      hash,
		DisplayName:       strings.TrimSpace(displayName),
		IsActive:          true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (a *PlatformAdmin) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword sets a new password
func (a *PlatformAdmin) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a.PasswordHash = hash
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// RecordLoginSuccess records a successful login
func (a *PlatformAdmin) RecordLoginSuccess(ip string) {
	now := time.Now()
	a.LastLoginAt = &now
	a.LastLoginIP = ip
	a.FailedAttempts = 0
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account was locked as a result.
func (a *PlatformAdmin) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	a.FailedAttempts++
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	if a.FailedAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockDuration)
		a.LockedUntil = &lockedUntil
		return true
	}

	return false
}

// IsLocked returns true if the account is locked and the lock has not expired
func (a *PlatformAdmin) IsLocked() bool {
	return a.LockedUntil != nil && time.Now().Before(*a.LockedUntil)
}

// CanLogin returns true if the admin can log in
func (a *PlatformAdmin) CanLogin() bool {
	return a.IsActive && !a.IsLocked()
}

// PlatformAdminRepository defines the interface for platform admin persistence
type PlatformAdminRepository interface {
	Save(ctx context.Context, admin *PlatformAdmin) error
	FindByID(ctx context.Context, id uuid.UUID) (*PlatformAdmin, error)
	FindByEmail(ctx context.Context, email string) (*PlatformAdmin, error)
	ExistsAny(ctx context.Context) (bool, error)
}
