package handler

import (
	"github.com/gin-gonic/gin"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
)

// CampaignHandler handles calling campaign endpoints.
type CampaignHandler struct {
	BaseHandler
	campaignService *callcenterapp.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *callcenterapp.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// listCampaignsQuery is the query shape for listing campaigns.
type listCampaignsQuery struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
}

// Create starts a new campaign.
func (h *CampaignHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req callcenterapp.CreateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, campaign)
}

// GetByID returns a single campaign.
func (h *CampaignHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// List returns a paginated campaign listing.
func (h *CampaignHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var q listCampaignsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.campaignService.ListCampaigns(c.Request.Context(), tenantID, callcenterapp.ListCampaignsInput{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Status:   q.Status,
		IsActive: h.boolQuery(c, "is_active"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a campaign's name or description.
func (h *CampaignHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// SetSchedule sets or clears a campaign's date range.
func (h *CampaignHandler) SetSchedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.SetCampaignScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.SetSchedule(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// SetBudget sets a campaign's budget and cost per lead.
func (h *CampaignHandler) SetBudget(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.SetCampaignBudgetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.SetBudget(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// UpdateStatus moves a campaign through its lifecycle.
func (h *CampaignHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateCampaignStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.UpdateStatus(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Activate re-enables a paused campaign.
func (h *CampaignHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.campaignService.ActivateCampaign(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// Deactivate pauses a campaign without touching its status.
func (h *CampaignHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.campaignService.DeactivateCampaign(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// ListLeads returns the leads attached to a campaign.
func (h *CampaignHandler) ListLeads(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	leads, err := h.campaignService.ListCampaignLeads(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leads)
}

// Delete removes a campaign with no attached leads.
func (h *CampaignHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
