package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/infrastructure/auth"
	"github.com/callcrm/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "callcrm-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role identity.RoleKind, permissions ...string) (*auth.TokenPair, uuid.UUID, uuid.UUID) {
	t.Helper()

	tenantID := uuid.New()
	subjectID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    tenantID,
		SubjectID:   subjectID,
		Name:        "jane.doe",
		Role:        role,
		Permissions: permissions,
	})
	require.NoError(t, err)
	return pair, tenantID, subjectID
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/protected", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.SubjectID)
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("valid token passes and sets context", func(t *testing.T) {
		pair, tenantID, subjectID := issueToken(t, svc, identity.RoleEmployee, "leads:view")

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(JWTAuthMiddleware(svc))
		r.GET("/protected", func(c *gin.Context) {
			assert.Equal(t, subjectID.String(), GetJWTSubjectID(c))
			assert.Equal(t, tenantID.String(), GetJWTTenantID(c))
			claims, ok := MustGetJWTClaims(c)
			require.True(t, ok)
			assert.Equal(t, "jane.doe", claims.Name)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		r := newAuthRouter(JWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("malformed authorization header rejected", func(t *testing.T) {
		r := newAuthRouter(JWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected on access endpoint", func(t *testing.T) {
		pair, _, _ := issueToken(t, svc, identity.RoleEmployee)
		r := newAuthRouter(JWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		r := newAuthRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: svc,
			SkipPaths:  []string{"/protected"},
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("query token accepted on an allowed path", func(t *testing.T) {
		pair, _, subjectID := issueToken(t, svc, identity.RoleEmployee)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:      svc,
			QueryTokenPaths: []string{"/ws/notifications"},
		}))
		r.GET("/ws/notifications", func(c *gin.Context) {
			c.String(http.StatusOK, GetJWTSubjectID(c))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws/notifications?token="+pair.AccessToken, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, subjectID.String(), w.Body.String())
	})

	t.Run("query token rejected outside allowed paths", func(t *testing.T) {
		pair, _, _ := issueToken(t, svc, identity.RoleEmployee)

		r := newAuthRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:      svc,
			QueryTokenPaths: []string{"/ws/notifications"},
		}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+pair.AccessToken, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("blacklisted token rejected", func(t *testing.T) {
		pair, _, _ := issueToken(t, svc, identity.RoleEmployee)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(t.Context(), claims.ID, time.Hour))

		r := newAuthRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: svc,
			Blacklist:  blacklist,
		}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})

	t.Run("subject invalidation rejects older tokens", func(t *testing.T) {
		pair, _, subjectID := issueToken(t, svc, identity.RoleEmployee)

		blacklist := auth.NewInMemoryTokenBlacklist()
		// Invalidation timestamp is recorded after issuance.
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, blacklist.AddSubjectTokensToBlacklist(t.Context(), subjectID.String(), time.Hour))

		r := newAuthRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: svc,
			Blacklist:  blacklist,
		}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("anonymous request passes", func(t *testing.T) {
		r := newAuthRouter(OptionalJWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("valid token sets claims", func(t *testing.T) {
		pair, _, subjectID := issueToken(t, svc, identity.RoleEmployee)
		r := newAuthRouter(OptionalJWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, subjectID.String(), w.Body.String())
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		r := newAuthRouter(OptionalJWTAuthMiddleware(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})
}
