package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PermissionCache caches resolved permission codes per role so the
// middleware does not hit the database on every request. A nil slice with
// no error means a cache miss.
type PermissionCache interface {
	Get(ctx context.Context, roleID uuid.UUID) ([]string, error)
	Set(ctx context.Context, roleID uuid.UUID, permissions []string, ttl time.Duration) error
	Delete(ctx context.Context, roleID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
	Close() error
}
