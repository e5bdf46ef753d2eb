package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlatformAdminRepository implements PlatformAdminRepository using GORM
type GormPlatformAdminRepository struct {
	db *gorm.DB
}

// NewGormPlatformAdminRepository creates a new GormPlatformAdminRepository
func NewGormPlatformAdminRepository(db *gorm.DB) *GormPlatformAdminRepository {
	return &GormPlatformAdminRepository{db: db}
}

// Save creates or updates a platform admin
func (r *GormPlatformAdminRepository) Save(ctx context.Context, admin *identity.PlatformAdmin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

// FindByID finds a platform admin by ID
func (r *GormPlatformAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.PlatformAdmin, error) {
	var admin identity.PlatformAdmin
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindByEmail finds a platform admin by email
func (r *GormPlatformAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.PlatformAdmin, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var admin identity.PlatformAdmin
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ExistsAny reports whether any platform admin account exists
func (r *GormPlatformAdminRepository) ExistsAny(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.PlatformAdmin{}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPlatformAdminRepository implements PlatformAdminRepository
var _ identity.PlatformAdminRepository = (*GormPlatformAdminRepository)(nil)
