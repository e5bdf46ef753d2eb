package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/callcrm/backend/internal/application/identity"
	"github.com/callcrm/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, logout, token refresh and profile endpoints.
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SuperAdminLogin authenticates a platform administrator.
func (h *AuthHandler) SuperAdminLogin(c *gin.Context) {
	var input identityapp.SuperAdminLoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.SuperAdminLogin(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CompanyLogin authenticates a company admin by email.
func (h *AuthHandler) CompanyLogin(c *gin.Context) {
	var input identityapp.CompanyLoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.CompanyLogin(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// EmployeeLogin authenticates an employee by company code and username.
func (h *AuthHandler) EmployeeLogin(c *gin.Context) {
	var input identityapp.EmployeeLoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.EmployeeLogin(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identityapp.RefreshTokenInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the current access token and invalidates the caller's
// outstanding tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.MustGetJWTClaims(c)
	if !ok {
		return
	}

	subjectID, err := claims.GetSubjectUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		SubjectID: subjectID,
		TokenJTI:  claims.ID,
		TokenTTL:  claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// Me returns the authenticated caller's profile and sidebar menus.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.MustGetJWTClaims(c)
	if !ok {
		return
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return
	}
	subjectID, err := claims.GetSubjectUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return
	}

	result, err := h.authService.GetCurrentUser(c.Request.Context(), identityapp.GetCurrentUserInput{
		Role:      claims.RoleKind(),
		TenantID:  tenantID,
		SubjectID: subjectID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangePassword lets an employee rotate their own password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.MustGetJWTClaims(c)
	if !ok {
		return
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return
	}
	subjectID, err := claims.GetSubjectUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid session")
		return
	}

	var input identityapp.ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.TenantID = tenantID
	input.EmployeeID = subjectID

	if err := h.authService.ChangePassword(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
