package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
)

// CallHandler handles call log endpoints.
type CallHandler struct {
	BaseHandler
	callService *callcenterapp.CallService
}

// NewCallHandler creates a new CallHandler
func NewCallHandler(callService *callcenterapp.CallService) *CallHandler {
	return &CallHandler{callService: callService}
}

// listCallsQuery is the query shape for listing calls.
type listCallsQuery struct {
	Page      int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Outcome   string     `form:"outcome" binding:"omitempty,oneof=answered no_answer busy voicemail callback wrong_number"`
	Direction string     `form:"direction" binding:"omitempty,oneof=outbound inbound"`
	AgentID   *uuid.UUID `form:"agent_id"`
	LeadID    *uuid.UUID `form:"lead_id"`
}

// Log records a new call between an agent and a lead.
func (h *CallHandler) Log(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req callcenterapp.LogCallRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.LogCall(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, call)
}

// GetByID returns a single call.
func (h *CallHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	call, err := h.callService.GetCall(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, call)
}

// List returns a paginated call listing.
func (h *CallHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var q listCallsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.callService.ListCalls(c.Request.Context(), tenantID, callcenterapp.ListCallsInput{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Outcome:   q.Outcome,
		Direction: q.Direction,
		AgentID:   q.AgentID,
		LeadID:    q.LeadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// End marks a call as finished and derives its duration.
func (h *CallHandler) End(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.EndCallRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.EndCall(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, call)
}

// RecordOutcome records how a call went.
func (h *CallHandler) RecordOutcome(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.RecordCallOutcomeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.RecordOutcome(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, call)
}

// ScheduleFollowUp books a future follow-up on a call.
func (h *CallHandler) ScheduleFollowUp(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.ScheduleFollowUpRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.ScheduleFollowUp(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, call)
}

// ClearFollowUp cancels a scheduled follow-up.
func (h *CallHandler) ClearFollowUp(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	call, err := h.callService.ClearFollowUp(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, call)
}

// Delete removes a call record.
func (h *CallHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.callService.DeleteCall(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
