package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence.
// Companies are platform-level rows; only the platform admin reaches
// them, so there is no tenant scoping here.
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindByAdminEmail(ctx context.Context, email string) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Company, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByAdminEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyFilterKeys is the filter allow-list for company listings.
// Query keys outside this set are ignored by the HTTP layer.
var CompanyFilterKeys = []string{"status", "code"}
