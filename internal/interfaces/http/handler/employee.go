package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/callcrm/backend/internal/application/identity"
)

// EmployeeHandler handles employee management endpoints within a tenant.
type EmployeeHandler struct {
	BaseHandler
	employeeService *identityapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *identityapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create adds an employee to the caller's company.
func (h *EmployeeHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req identityapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetByID returns a single employee.
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// List returns a paginated employee listing.
func (h *EmployeeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var input identityapp.ListEmployeesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.employeeService.ListEmployees(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes an employee's contact details.
func (h *EmployeeHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Activate enables a pending or deactivated employee account.
func (h *EmployeeHandler) Activate(c *gin.Context) {
	h.transition(c, h.employeeService.ActivateEmployee)
}

// Deactivate disables an employee account.
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.employeeService.DeactivateEmployee)
}

// Unlock clears a login lockout.
func (h *EmployeeHandler) Unlock(c *gin.Context) {
	h.transition(c, h.employeeService.UnlockEmployee)
}

// AssignRole attaches a role to an employee.
func (h *EmployeeHandler) AssignRole(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	employeeID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := h.parseIDParam(c, "role_id")
	if !ok {
		return
	}

	employee, err := h.employeeService.AssignRole(c.Request.Context(), tenantID, employeeID, roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// ClearRole removes an employee's role.
func (h *EmployeeHandler) ClearRole(c *gin.Context) {
	h.transition(c, h.employeeService.ClearRole)
}

// ResetPassword lets an admin set a new password for an employee.
func (h *EmployeeHandler) ResetPassword(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.ResetEmployeePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.employeeService.ResetPassword(c.Request.Context(), tenantID, id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// Delete removes an employee.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// transition runs one of the tenant+id state transition service calls.
func (h *EmployeeHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.EmployeeResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}
