package identity

import (
	"context"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines the interface for employee persistence.
// Every method is tenant-scoped: an employee row is only reachable
// through its owning company's ID.
type EmployeeRepository interface {
	Save(ctx context.Context, employee *Employee) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindByUsernameForTenant(ctx context.Context, tenantID uuid.UUID, username string) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Employee, int64, error)
	FindByRoleForTenant(ctx context.Context, tenantID, roleID uuid.UUID) ([]*Employee, error)
	ExistsByUsernameForTenant(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// EmployeeFilterKeys is the filter allow-list for employee listings
var EmployeeFilterKeys = []string{"status", "role_id"}
