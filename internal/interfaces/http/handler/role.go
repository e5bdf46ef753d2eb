package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/callcrm/backend/internal/application/identity"
)

// RoleHandler handles role and permission matrix endpoints.
type RoleHandler struct {
	BaseHandler
	roleService     *identityapp.RoleService
	employeeService *identityapp.EmployeeService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService, employeeService *identityapp.EmployeeService) *RoleHandler {
	return &RoleHandler{roleService: roleService, employeeService: employeeService}
}

// Create adds a role to the caller's company.
func (h *RoleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req identityapp.CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// GetByID returns a single role with its grants.
func (h *RoleHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// List returns a paginated role listing.
func (h *RoleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var input identityapp.ListRolesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.roleService.ListRoles(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a role's name, description or sort order.
func (h *RoleHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Enable turns a disabled role back on.
func (h *RoleHandler) Enable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.EnableRole(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Disable turns a role off without removing assignments.
func (h *RoleHandler) Disable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.DisableRole(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// SetGrants replaces the role's permission matrix.
func (h *RoleHandler) SetGrants(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.SetGrantsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.SetGrants(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// GetPermissions returns the flattened permission codes of a role.
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	permissions, err := h.roleService.GetPermissions(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, permissions)
}

// ListEmployees returns the employees assigned to a role.
func (h *RoleHandler) ListEmployees(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	employees, err := h.employeeService.ListEmployeesByRole(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employees)
}

// Delete removes a role that is no longer assigned.
func (h *RoleHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
