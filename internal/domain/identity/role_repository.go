package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoleRepository defines the interface for role persistence. Grants are
// stored in a separate table; Save replaces them atomically with the
// role row.
type RoleRepository interface {
	Save(ctx context.Context, role *Role) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Role, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Role, int64, error)
	ExistsByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RoleFilterKeys is the filter allow-list for role listings
var RoleFilterKeys = []string{"is_enabled"}
