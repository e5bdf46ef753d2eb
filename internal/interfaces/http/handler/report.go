package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	callcenterapp "github.com/callcrm/backend/internal/application/callcenter"
)

// ReportHandler handles call report endpoints.
type ReportHandler struct {
	BaseHandler
	reportService *callcenterapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *callcenterapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// listReportsQuery is the query shape for listing reports.
type listReportsQuery struct {
	Page       int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Type       string     `form:"type" binding:"omitempty,oneof=daily weekly monthly campaign_summary"`
	ReportDate *time.Time `form:"report_date" time_format:"2006-01-02"`
	CampaignID *uuid.UUID `form:"campaign_id"`
}

// generateSummaryRequest asks for a campaign summary as of a date.
type generateSummaryRequest struct {
	CampaignID uuid.UUID `json:"campaign_id" binding:"required"`
	ReportDate time.Time `json:"report_date" binding:"required"`
}

// Create stores a report with manually entered figures.
func (h *ReportHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req callcenterapp.CreateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, report)
}

// GetByID returns a single report.
func (h *ReportHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// List returns a paginated report listing.
func (h *ReportHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var q listReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.reportService.ListReports(c.Request.Context(), tenantID, callcenterapp.ListReportsInput{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Type:       q.Type,
		ReportDate: q.ReportDate,
		CampaignID: q.CampaignID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByCampaign returns all reports for one campaign.
func (h *ReportHandler) ListByCampaign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	campaignID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	reports, err := h.reportService.ListReportsByCampaign(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reports)
}

// UpdateFigures replaces a report's counters and cost.
func (h *ReportHandler) UpdateFigures(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req callcenterapp.UpdateReportFiguresRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.UpdateFigures(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GenerateSummary computes a campaign summary report from the stored
// leads and calls instead of manual figures.
func (h *ReportHandler) GenerateSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req generateSummaryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.GenerateCampaignSummary(c.Request.Context(), tenantID, req.CampaignID, req.ReportDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, report)
}

// Delete removes a report.
func (h *ReportHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
