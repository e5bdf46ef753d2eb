package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/callcrm/backend/internal/domain/identity"
)

// RedisPermissionCache implements identity.PermissionCache using Redis.
// Suitable for distributed deployments where multiple instances need to
// share the resolved permission sets.
type RedisPermissionCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisPermissionCache creates a new Redis-based permission cache
func NewRedisPermissionCache(cfg RedisConfig) (*RedisPermissionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPermissionCache{
		client:    client,
		keyPrefix: "role:permissions:",
	}, nil
}

// NewRedisPermissionCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisPermissionCacheWithClient(client *redis.Client, keyPrefix string) *RedisPermissionCache {
	if keyPrefix == "" {
		keyPrefix = "role:permissions:"
	}
	return &RedisPermissionCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisPermissionCache) key(roleID uuid.UUID) string {
	return c.keyPrefix + roleID.String()
}

// Get retrieves the cached permission codes for a role. Returns nil on a miss.
func (c *RedisPermissionCache) Get(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	raw, err := c.client.Get(ctx, c.key(roleID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached permissions: %w", err)
	}

	var permissions []string
	if err := json.Unmarshal([]byte(raw), &permissions); err != nil {
		// Corrupt entry: drop it and treat as a miss
		_ = c.client.Del(ctx, c.key(roleID)).Err()
		return nil, nil
	}
	return permissions, nil
}

// Set stores the permission codes for a role with a TTL
func (c *RedisPermissionCache) Set(ctx context.Context, roleID uuid.UUID, permissions []string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultPermissionTTL
	}

	raw, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}

	if err := c.client.Set(ctx, c.key(roleID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache permissions: %w", err)
	}
	return nil
}

// Delete removes the cached permissions for a role
func (c *RedisPermissionCache) Delete(ctx context.Context, roleID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(roleID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached permissions: %w", err)
	}
	return nil
}

// InvalidateAll removes all cached role permissions
func (c *RedisPermissionCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached permissions: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan permission cache keys: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPermissionCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisPermissionCache) GetClient() *redis.Client {
	return c.client
}

var _ identity.PermissionCache = (*RedisPermissionCache)(nil)
