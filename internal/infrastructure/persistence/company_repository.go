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

// GormCompanyRepository implements CompanyRepository using GORM.
// Companies are platform-level rows, so nothing here is tenant-scoped.
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByCode finds a company by its unique code
func (r *GormCompanyRepository) FindByCode(ctx context.Context, code string) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByAdminEmail finds a company by its admin login email
func (r *GormCompanyRepository) FindByAdminEmail(ctx context.Context, email string) (*identity.Company, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var company identity.Company
	if err := r.db.WithContext(ctx).
		Where("admin_email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll finds all companies matching the filter with a total count
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Company, int64, error) {
	var count int64
	countQuery := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&identity.Company{}), filter)
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var companies []*identity.Company
	query := r.applyFilter(r.db.WithContext(ctx).Model(&identity.Company{}), filter)
	if err := query.Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, count, nil
}

// ExistsByCode checks if a company with the given code exists
func (r *GormCompanyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Company{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByAdminEmail checks if a company with the given admin email exists
func (r *GormCompanyRepository) ExistsByAdminEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Company{}).
		Where("admin_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete deletes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCompanyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCompanyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR admin_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "code":
			query = query.Where("code = ?", value)
		}
	}

	return query
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
