package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
)

// LeadHandler handles lead endpoints.
type LeadHandler struct {
	BaseHandler
	leadService *callcenterapp.LeadService
	callService *callcenterapp.CallService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *callcenterapp.LeadService, callService *callcenterapp.CallService) *LeadHandler {
	return &LeadHandler{leadService: leadService, callService: callService}
}

// listLeadsQuery is the query shape for listing leads.
type listLeadsQuery struct {
	Page       int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=new contacted qualified converted lost"`
	CampaignID *uuid.UUID `form:"campaign_id"`
	AgentID    *uuid.UUID `form:"agent_id"`
}

// Create registers a new lead, optionally attaching it to a campaign
// and assigning an agent in one step.
func (h *LeadHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req callcenterapp.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, lead)
}

// GetByID returns a single lead.
func (h *LeadHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.GetLead(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// List returns a paginated lead listing.
func (h *LeadHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var q listLeadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.leadService.ListLeads(c.Request.Context(), tenantID, callcenterapp.ListLeadsInput{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Search:     q.Search,
		Status:     q.Status,
		CampaignID: q.CampaignID,
		AgentID:    q.AgentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a lead's contact details.
func (h *LeadHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// UpdateStatus moves a lead through the pipeline.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateLeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.UpdateStatus(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// UpdateScore re-scores a lead.
func (h *LeadHandler) UpdateScore(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateLeadScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.UpdateScore(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// AssignAgent hands a lead to an active agent.
func (h *LeadHandler) AssignAgent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.AssignLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.AssignAgent(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// UnassignAgent puts a lead back in the unassigned pool.
func (h *LeadHandler) UnassignAgent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.UnassignAgent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lead)
}

// ListCalls returns the call history of a lead.
func (h *LeadHandler) ListCalls(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	calls, err := h.callService.ListCallsByLead(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, calls)
}

// Delete removes a lead.
func (h *LeadHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
