package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/interfaces/http/dto"
)

// PermissionConfig holds configuration for permission middleware.
type PermissionConfig struct {
	Logger *zap.Logger
	// OnDenied overrides the default 403 response.
	OnDenied func(c *gin.Context, required []string)
}

// RequirePermission requires a single permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission passes when the caller holds at least one of the
// listed permissions. Admin roles carry no permission matrix and pass
// every permission check.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with custom config.
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, cfg, permissions, "no authentication claims")
			return
		}

		if isAdminRole(claims.RoleKind()) {
			c.Next()
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			denyPermission(c, cfg, permissions, "missing required permission")
			return
		}

		c.Next()
	}
}

// RequireAllPermissions passes only when the caller holds every listed
// permission.
func RequireAllPermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, PermissionConfig{}, permissions, "no authentication claims")
			return
		}

		if isAdminRole(claims.RoleKind()) {
			c.Next()
			return
		}

		for _, p := range permissions {
			if !claims.HasPermission(p) {
				denyPermission(c, PermissionConfig{}, permissions, "missing required permission")
				return
			}
		}

		c.Next()
	}
}

func isAdminRole(kind identity.RoleKind) bool {
	return kind == identity.RoleSuperAdmin || kind == identity.RoleCompanyAdmin
}

// RequireRole passes when the caller's role is one of the listed kinds.
// Super admins pass every role check.
func RequireRole(kinds ...identity.RoleKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyRole(c, kinds)
			return
		}

		kind := claims.RoleKind()
		if kind == identity.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, k := range kinds {
			if kind == k {
				c.Next()
				return
			}
		}

		denyRole(c, kinds)
	}
}

// RequireCompanyAdmin restricts an endpoint to company admins.
func RequireCompanyAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleCompanyAdmin)
}

// HasPermission reports whether the caller holds a permission. Intended
// for handlers that branch on capability rather than reject outright.
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	if isAdminRole(claims.RoleKind()) {
		return true
	}
	return claims.HasPermission(permission)
}

func denyPermission(c *gin.Context, cfg PermissionConfig, required []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		subjectID := ""
		if claims != nil {
			subjectID = claims.SubjectID
		}
		cfg.Logger.Warn("permission denied",
			zap.String("reason", reason),
			zap.String("subject_id", subjectID),
			zap.Strings("required", required),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied: insufficient permissions"))
}

func denyRole(c *gin.Context, kinds []identity.RoleKind) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied: insufficient role"))
}
