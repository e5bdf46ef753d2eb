package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/callcrm/backend/internal/domain/identity"
)

const (
	defaultCleanupInterval = 30 * time.Second
	// DefaultPermissionTTL bounds staleness after a role's grants change on
	// another instance.
	DefaultPermissionTTL = 5 * time.Minute
)

// InMemoryPermissionCache implements identity.PermissionCache using
// in-process storage. Suitable for single-instance deployments and tests.
type InMemoryPermissionCache struct {
	entries sync.Map // map[string]*permissionEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

type permissionEntry struct {
	permissions []string
	expiresAt   time.Time
}

func (e *permissionEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryPermissionCacheOption configures the cache
type InMemoryPermissionCacheOption func(*InMemoryPermissionCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPermissionCacheOption {
	return func(c *InMemoryPermissionCache) {
		c.logger = logger
	}
}

// NewInMemoryPermissionCache creates a new in-memory permission cache
func NewInMemoryPermissionCache(opts ...InMemoryPermissionCacheOption) *InMemoryPermissionCache {
	cache := &InMemoryPermissionCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves the cached permission codes for a role. Returns nil on a miss.
func (c *InMemoryPermissionCache) Get(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	if value, ok := c.entries.Load(roleID.String()); ok {
		entry := value.(*permissionEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.permissions, nil
		}
		c.entries.Delete(roleID.String())
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores the permission codes for a role
func (c *InMemoryPermissionCache) Set(ctx context.Context, roleID uuid.UUID, permissions []string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultPermissionTTL
	}

	c.entries.Store(roleID.String(), &permissionEntry{
		permissions: permissions,
		expiresAt:   time.Now().Add(ttl),
	})
	c.logger.Debug("Cached role permissions",
		zap.String("role_id", roleID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes the cached permissions for a role
func (c *InMemoryPermissionCache) Delete(ctx context.Context, roleID uuid.UUID) error {
	c.entries.Delete(roleID.String())
	return nil
}

// InvalidateAll removes all cached permissions
func (c *InMemoryPermissionCache) InvalidateAll(ctx context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("Invalidated all cached role permissions")
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryPermissionCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryPermissionCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of cached roles
func (c *InMemoryPermissionCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryPermissionCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

func (c *InMemoryPermissionCache) doCleanup() {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*permissionEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired permission cache entries", zap.Int("removed", removed))
	}
}

var _ identity.PermissionCache = (*InMemoryPermissionCache)(nil)
