package callcenter

import (
	"time"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCampaignRequest represents a request to create a calling campaign
type CreateCampaignRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Budget      *decimal.Decimal `json:"budget"`
	CostPerLead *decimal.Decimal `json:"cost_per_lead"`
}

// UpdateCampaignRequest represents a request to update a campaign
type UpdateCampaignRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// SetCampaignScheduleRequest represents a request to set a campaign's date range
type SetCampaignScheduleRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// SetCampaignBudgetRequest represents a request to set a campaign's budget
type SetCampaignBudgetRequest struct {
	Budget      decimal.Decimal `json:"budget" binding:"required"`
	CostPerLead decimal.Decimal `json:"cost_per_lead" binding:"required"`
}

// UpdateCampaignStatusRequest represents a request to move a campaign's status
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListCampaignsInput represents parameters for listing campaigns
type ListCampaignsInput struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	IsActive *bool
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	IsActive          bool            `json:"is_active"`
	Status            string          `json:"status"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	Budget            decimal.Decimal `json:"budget"`
	CostPerLead       decimal.Decimal `json:"cost_per_lead"`
	EstimatedCapacity int64           `json:"estimated_capacity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToCampaignResponse converts a domain campaign to a response DTO
func ToCampaignResponse(c *callcenter.Campaign) *CampaignResponse {
	return &CampaignResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Description:       c.Description,
		IsActive:          c.IsActive,
		Status:            string(c.Status),
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		Budget:            c.Budget,
		CostPerLead:       c.CostPerLead,
		EstimatedCapacity: c.EstimatedLeadCapacity(),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		Version:           c.Version,
	}
}

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      string     `json:"phone" binding:"required"`
	Email      string     `json:"email"`
	Source     string     `json:"source"`
	Notes      string     `json:"notes"`
	CampaignID *uuid.UUID `json:"campaign_id"`
	AgentID    *uuid.UUID `json:"agent_id"`
}

// UpdateLeadRequest represents a request to update a lead's contact details
type UpdateLeadRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Source    *string `json:"source"`
	Notes     *string `json:"notes"`
}

// UpdateLeadStatusRequest represents a request to move a lead's status
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateLeadScoreRequest represents a request to re-score a lead
type UpdateLeadScoreRequest struct {
	Score int `json:"score"`
}

// AssignLeadRequest represents a request to assign a lead to an agent
type AssignLeadRequest struct {
	AgentID uuid.UUID `json:"agent_id" binding:"required"`
}

// ListLeadsInput represents parameters for listing leads
type ListLeadsInput struct {
	Page       int
	PageSize   int
	Search     string
	Status     string
	CampaignID *uuid.UUID
	AgentID    *uuid.UUID
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             string     `json:"id"`
	CampaignID     *uuid.UUID `json:"campaign_id,omitempty"`
	AgentID        *uuid.UUID `json:"agent_id,omitempty"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email,omitempty"`
	Source         string     `json:"source,omitempty"`
	Status         string     `json:"status"`
	Score          int        `json:"score"`
	ScoreUpdatedAt *time.Time `json:"score_updated_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToLeadResponse converts a domain lead to a response DTO
func ToLeadResponse(l *callcenter.Lead) *LeadResponse {
	return &LeadResponse{
		ID:             l.ID.String(),
		CampaignID:     l.CampaignID,
		AgentID:        l.AgentID,
		FirstName:      l.FirstName,
		LastName:       l.LastName,
		FullName:       l.FullName(),
		Phone:          l.Phone,
		Email:          l.Email,
		Source:         l.Source,
		Status:         string(l.Status),
		Score:          l.Score,
		ScoreUpdatedAt: l.ScoreUpdatedAt,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		Version:        l.Version,
	}
}

// CreateAgentRequest represents a request to create a call agent
type CreateAgentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Extension string `json:"extension"`
	Shift     string `json:"shift"`
}

// UpdateAgentRequest represents a request to update an agent
type UpdateAgentRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Extension *string `json:"extension"`
}

// SetAgentShiftRequest represents a request to change an agent's shift
type SetAgentShiftRequest struct {
	Shift string `json:"shift" binding:"required"`
}

// ListAgentsInput represents parameters for listing agents
type ListAgentsInput struct {
	Page     int
	PageSize int
	Search   string
	Shift    string
	IsActive *bool
}

// AgentResponse represents a call agent in API responses
type AgentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Extension string    `json:"extension,omitempty"`
	Shift     string    `json:"shift"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToAgentResponse converts a domain agent to a response DTO
func ToAgentResponse(a *callcenter.Agent) *AgentResponse {
	return &AgentResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Extension: a.Extension,
		Shift:     string(a.Shift),
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
	}
}

// LogCallRequest represents a request to log a call
type LogCallRequest struct {
	AgentID   uuid.UUID  `json:"agent_id" binding:"required"`
	LeadID    uuid.UUID  `json:"lead_id" binding:"required"`
	Direction string     `json:"direction" binding:"required"`
	StartedAt *time.Time `json:"started_at"`
	Notes     string     `json:"notes"`
}

// EndCallRequest represents a request to mark a call as finished
type EndCallRequest struct {
	EndedAt time.Time `json:"ended_at" binding:"required"`
}

// RecordCallOutcomeRequest represents a request to record a call's result
type RecordCallOutcomeRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// ScheduleFollowUpRequest represents a request to schedule a call follow-up
type ScheduleFollowUpRequest struct {
	FollowUpAt time.Time `json:"follow_up_at" binding:"required"`
	Note       string    `json:"note"`
}

// ListCallsInput represents parameters for listing calls
type ListCallsInput struct {
	Page      int
	PageSize  int
	Outcome   string
	Direction string
	AgentID   *uuid.UUID
	LeadID    *uuid.UUID
}

// CallResponse represents a call in API responses
type CallResponse struct {
	ID              string     `json:"id"`
	AgentID         uuid.UUID  `json:"agent_id"`
	LeadID          uuid.UUID  `json:"lead_id"`
	Direction       string     `json:"direction"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Outcome         string     `json:"outcome,omitempty"`
	FollowUpAt      *time.Time `json:"follow_up_at,omitempty"`
	FollowUpNote    string     `json:"follow_up_note,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// ToCallResponse converts a domain call to a response DTO
func ToCallResponse(c *callcenter.Call) *CallResponse {
	return &CallResponse{
		ID:              c.ID.String(),
		AgentID:         c.AgentID,
		LeadID:          c.LeadID,
		Direction:       string(c.Direction),
		StartedAt:       c.StartedAt,
		EndedAt:         c.EndedAt,
		DurationSeconds: c.DurationSeconds,
		Outcome:         string(c.Outcome),
		FollowUpAt:      c.FollowUpAt,
		FollowUpNote:    c.FollowUpNote,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// CreateReportRequest represents a request to create a call report
type CreateReportRequest struct {
	CampaignID     uuid.UUID       `json:"campaign_id" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	ReportDate     time.Time       `json:"report_date" binding:"required"`
	CallsMade      int             `json:"calls_made"`
	CallsConnected int             `json:"calls_connected"`
	LeadsConverted int             `json:"leads_converted"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// UpdateReportFiguresRequest represents a request to replace a report's counters
type UpdateReportFiguresRequest struct {
	CallsMade      int             `json:"calls_made"`
	CallsConnected int             `json:"calls_connected"`
	LeadsConverted int             `json:"leads_converted"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// ListReportsInput represents parameters for listing call reports
type ListReportsInput struct {
	Page       int
	PageSize   int
	Type       string
	ReportDate *time.Time
	CampaignID *uuid.UUID
}

// ReportResponse represents a call report in API responses
type ReportResponse struct {
	ID                string          `json:"id"`
	CampaignID        uuid.UUID       `json:"campaign_id"`
	Type              string          `json:"type"`
	ReportDate        time.Time       `json:"report_date"`
	CallsMade         int             `json:"calls_made"`
	CallsConnected    int             `json:"calls_connected"`
	LeadsConverted    int             `json:"leads_converted"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	ConnectRate       decimal.Decimal `json:"connect_rate"`
	CostPerConversion decimal.Decimal `json:"cost_per_conversion"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToReportResponse converts a domain call report to a response DTO
func ToReportResponse(r *callcenter.CallReport) *ReportResponse {
	return &ReportResponse{
		ID:                r.ID.String(),
		CampaignID:        r.CampaignID,
		Type:              string(r.Type),
		ReportDate:        r.ReportDate,
		CallsMade:         r.CallsMade,
		CallsConnected:    r.CallsConnected,
		LeadsConverted:    r.LeadsConverted,
		TotalCost:         r.TotalCost,
		ConnectRate:       r.ConnectRate(),
		CostPerConversion: r.CostPerConversion(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}
