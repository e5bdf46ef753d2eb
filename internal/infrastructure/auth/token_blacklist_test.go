package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists a jti until ttl expires", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blacklisted)

		blacklisted, err = bl.IsBlacklisted(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("expired entries are purged", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		require.NoError(t, bl.AddToBlacklist(ctx, "jti-short", -time.Second))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-short")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("subject invalidation rejects earlier tokens only", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		issuedBefore := time.Now().Add(-time.Minute)

		require.NoError(t, bl.AddSubjectTokensToBlacklist(ctx, "subject-1", time.Hour))

		invalidated, err := bl.IsSubjectTokenInvalidated(ctx, "subject-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalidated)

		issuedAfter := time.Now().Add(time.Minute)
		invalidated, err = bl.IsSubjectTokenInvalidated(ctx, "subject-1", issuedAfter)
		require.NoError(t, err)
		assert.False(t, invalidated)
	})

	t.Run("unknown subject is not invalidated", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		invalidated, err := bl.IsSubjectTokenInvalidated(ctx, "subject-x", time.Now())
		require.NoError(t, err)
		assert.False(t, invalidated)
	})
}
