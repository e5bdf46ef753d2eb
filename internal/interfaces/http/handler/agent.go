package handler

import (
	"github.com/gin-gonic/gin"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
)

// AgentHandler handles call agent endpoints.
type AgentHandler struct {
	BaseHandler
	agentService *callcenterapp.AgentService
	leadService  *callcenterapp.LeadService
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentService *callcenterapp.AgentService, leadService *callcenterapp.LeadService) *AgentHandler {
	return &AgentHandler{agentService: agentService, leadService: leadService}
}

// listAgentsQuery is the query shape for listing agents.
type listAgentsQuery struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Shift    string `form:"shift" binding:"omitempty,oneof=morning evening night"`
}

// Create onboards a new agent.
func (h *AgentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req callcenterapp.CreateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, agent)
}

// GetByID returns a single agent.
func (h *AgentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	agent, err := h.agentService.GetAgent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agent)
}

// List returns a paginated agent listing.
func (h *AgentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var q listAgentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.agentService.ListAgents(c.Request.Context(), tenantID, callcenterapp.ListAgentsInput{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Shift:    q.Shift,
		IsActive: h.boolQuery(c, "is_active"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes an agent's contact details or extension.
func (h *AgentHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agent)
}

// SetShift moves an agent to another shift.
func (h *AgentHandler) SetShift(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.SetAgentShiftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	agent, err := h.agentService.SetShift(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agent)
}

// Activate returns an agent to the duty roster.
func (h *AgentHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	agent, err := h.agentService.ActivateAgent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agent)
}

// Deactivate takes an agent off the duty roster.
func (h *AgentHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	agent, err := h.agentService.DeactivateAgent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agent)
}

// ListCalls returns an agent's call history.
func (h *AgentHandler) ListCalls(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	calls, err := h.agentService.ListAgentCalls(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, calls)
}

// ListLeads returns the leads currently assigned to an agent.
func (h *AgentHandler) ListLeads(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	leads, err := h.leadService.ListLeadsByAgent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leads)
}

// Delete removes an agent with no logged calls.
func (h *AgentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.agentService.DeleteAgent(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
