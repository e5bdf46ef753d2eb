package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/callcrm/backend/internal/application/identity"
)

// CompanyHandler handles platform-level company management endpoints.
// All routes are restricted to super admins by the router.
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create provisions a new company tenant.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req identityapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID returns a single company.
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List returns a paginated company listing.
func (h *CompanyHandler) List(c *gin.Context) {
	var input identityapp.ListCompaniesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.companyService.ListCompanies(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a company's profile and limits.
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Activate enables a suspended or pending company.
func (h *CompanyHandler) Activate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.ActivateCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Deactivate disables a company.
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.DeactivateCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Suspend marks a company suspended without deleting its data.
func (h *CompanyHandler) Suspend(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.SuspendCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Delete removes a company. The service rejects companies that are still
// active.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.DeleteCompany(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// ResetAdminPassword sets a new admin password for a company.
func (h *CompanyHandler) ResetAdminPassword(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.ResetCompanyPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.companyService.ResetAdminPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
