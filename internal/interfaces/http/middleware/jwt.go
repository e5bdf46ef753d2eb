package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/callcrm/backend/internal/infrastructure/auth"
	"github.com/callcrm/backend/internal/infrastructure/logger"
	"github.com/callcrm/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware.
const (
	ContextKeyClaims      = "jwt_claims"
	ContextKeySubjectID   = "jwt_subject_id"
	ContextKeyTenantID    = "jwt_tenant_id"
	ContextKeyName        = "jwt_name"
	ContextKeyRole        = "jwt_role"
	ContextKeyPermissions = "jwt_permissions"
)

// JWTMiddlewareConfig holds configuration for the JWT auth middleware.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional. When set, revoked tokens are rejected.
	Blacklist auth.TokenBlacklist
	// SkipPaths lists exact paths that bypass authentication.
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that bypass authentication.
	SkipPathPrefixes []string
	// QueryTokenPaths lists exact paths that may carry the token in the
	// "token" query parameter. Browser WebSocket clients cannot set
	// headers on the handshake request, so the websocket route goes here.
	QueryTokenPaths []string
	// OnError overrides the default error response.
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// JWTAuthMiddleware creates JWT auth middleware with default behavior.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService})
}

// JWTAuthMiddlewareWithConfig creates JWT auth middleware with custom configuration.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		allowQueryToken := false
		for _, qp := range cfg.QueryTokenPaths {
			if path == qp {
				allowQueryToken = true
				break
			}
		}

		tokenString, err := extractBearerToken(c, allowQueryToken)
		if err != nil {
			handleAuthError(c, cfg, err)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err)
			return
		}

		if cfg.Blacklist != nil {
			if jti := claims.ID; jti != "" {
				revoked, berr := cfg.Blacklist.IsBlacklisted(c.Request.Context(), jti)
				if berr != nil && cfg.Logger != nil {
					// Blacklist lookup failures do not block the request.
					cfg.Logger.Warn("token blacklist check failed",
						zap.Error(berr),
						zap.String("path", path),
					)
				}
				if berr == nil && revoked {
					handleAuthError(c, cfg, auth.ErrTokenBlacklisted)
					return
				}
			}

			invalidated, berr := cfg.Blacklist.IsSubjectTokenInvalidated(
				c.Request.Context(), claims.SubjectID, claims.GetIssuedAtTime())
			if berr != nil && cfg.Logger != nil {
				cfg.Logger.Warn("subject invalidation check failed",
					zap.Error(berr),
					zap.String("subject_id", claims.SubjectID),
				)
			}
			if berr == nil && invalidated {
				handleAuthError(c, cfg, auth.ErrTokenBlacklisted)
				return
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySubjectID, claims.SubjectID)
		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyName, claims.Name)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyPermissions, claims.Permissions)

		reqLogger := logger.FromContext(c.Request.Context())
		ctx, reqLogger := logger.WithSubjectID(c.Request.Context(), reqLogger, claims.SubjectID)
		if claims.TenantID != "" {
			ctx, _ = logger.WithCompanyID(ctx, reqLogger, claims.TenantID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OptionalJWTAuthMiddleware validates a token when present but lets
// unauthenticated requests through. Useful for endpoints that vary their
// response by caller identity.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c, false)
		if err != nil {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySubjectID, claims.SubjectID)
		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyName, claims.Name)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyPermissions, claims.Permissions)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context, allowQueryToken bool) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if allowQueryToken {
			if token := c.Query("token"); token != "" {
				return token, nil
			}
		}
		return "", auth.ErrInvalidToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	code := dto.ErrCodeTokenInvalid
	message := "Invalid authentication token"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Authentication token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		message = "Authentication token has been revoked"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Authentication token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		message = "Wrong token type for this endpoint"
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("authentication rejected",
			zap.String("code", code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims returns the validated claims from the request context,
// or nil when the request is unauthenticated.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// MustGetJWTClaims returns the validated claims or aborts with 401.
func MustGetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return nil, false
	}
	return claims, true
}

// GetJWTSubjectID returns the authenticated subject ID, if any.
func GetJWTSubjectID(c *gin.Context) string {
	return c.GetString(ContextKeySubjectID)
}

// GetJWTTenantID returns the authenticated tenant ID, if any.
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(ContextKeyTenantID)
}
