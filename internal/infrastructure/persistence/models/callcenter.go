package models

import (
	"time"

	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignModel is the persistence model for callcenter.Campaign
type CampaignModel struct {
	TenantAggregateModel
	Name        string                    `gorm:"type:varchar(200);not null"`
	Description string                    `gorm:"type:text"`
	IsActive    bool                      `gorm:"not null;default:true"`
	Status      callcenter.CampaignStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPerLead decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "campaigns"
}

// ToDomain converts the model to a domain Campaign
func (m *CampaignModel) ToDomain() *callcenter.Campaign {
	c := &callcenter.Campaign{
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		Status:      m.Status,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Budget:      m.Budget,
		CostPerLead: m.CostPerLead,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CampaignModelFromDomain creates a persistence model from a domain Campaign
func CampaignModelFromDomain(c *callcenter.Campaign) *CampaignModel {
	m := &CampaignModel{
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		Status:      c.Status,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Budget:      c.Budget,
		CostPerLead: c.CostPerLead,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// LeadModel is the persistence model for callcenter.Lead
type LeadModel struct {
	TenantAggregateModel
	CampaignID     *uuid.UUID            `gorm:"type:uuid;index"`
	AgentID        *uuid.UUID            `gorm:"type:uuid;index"`
	FirstName      string                `gorm:"type:varchar(100)"`
	LastName       string                `gorm:"type:varchar(100)"`
	Phone          string                `gorm:"type:varchar(50);not null;index"`
	Email          string                `gorm:"type:varchar(200)"`
	Source         string                `gorm:"type:varchar(100)"`
	Status         callcenter.LeadStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	Score          int                   `gorm:"not null;default:0"`
	ScoreUpdatedAt *time.Time
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the model to a domain Lead
func (m *LeadModel) ToDomain() *callcenter.Lead {
	l := &callcenter.Lead{
		CampaignID:     m.CampaignID,
		AgentID:        m.AgentID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Phone:          m.Phone,
		Email:          m.Email,
		Source:         m.Source,
		Status:         m.Status,
		Score:          m.Score,
		ScoreUpdatedAt: m.ScoreUpdatedAt,
		Notes:          m.Notes,
	}
	m.PopulateTenantAggregateRoot(&l.TenantAggregateRoot)
	return l
}

// LeadModelFromDomain creates a persistence model from a domain Lead
func LeadModelFromDomain(l *callcenter.Lead) *LeadModel {
	m := &LeadModel{
		CampaignID:     l.CampaignID,
		AgentID:        l.AgentID,
		FirstName:      l.FirstName,
		LastName:       l.LastName,
		Phone:          l.Phone,
		Email:          l.Email,
		Source:         l.Source,
		Status:         l.Status,
		Score:          l.Score,
		ScoreUpdatedAt: l.ScoreUpdatedAt,
		Notes:          l.Notes,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// AgentModel is the persistence model for callcenter.Agent
type AgentModel struct {
	TenantAggregateModel
	Name      string                `gorm:"type:varchar(200);not null"`
	Email     string                `gorm:"type:varchar(200)"`
	Phone     string                `gorm:"type:varchar(50)"`
	Extension string                `gorm:"type:varchar(10)"`
	Shift     callcenter.AgentShift `gorm:"type:varchar(20);not null;default:'morning';index"`
	IsActive  bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// ToDomain converts the model to a domain Agent
func (m *AgentModel) ToDomain() *callcenter.Agent {
	a := &callcenter.Agent{
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Extension: m.Extension,
		Shift:     m.Shift,
		IsActive:  m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// AgentModelFromDomain creates a persistence model from a domain Agent
func AgentModelFromDomain(a *callcenter.Agent) *AgentModel {
	m := &AgentModel{
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Extension: a.Extension,
		Shift:     a.Shift,
		IsActive:  a.IsActive,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// CallModel is the persistence model for callcenter.Call
type CallModel struct {
	TenantAggregateModel
	AgentID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	LeadID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	Direction       callcenter.CallDirection `gorm:"type:varchar(10);not null"`
	StartedAt       time.Time                `gorm:"not null;index"`
	EndedAt         *time.Time
	DurationSeconds int                    `gorm:"not null;default:0"`
	Outcome         callcenter.CallOutcome `gorm:"type:varchar(20);index"`
	FollowUpAt      *time.Time             `gorm:"index"`
	FollowUpNote    string                 `gorm:"type:varchar(500)"`
	Notes           string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CallModel) TableName() string {
	return "calls"
}

// ToDomain converts the model to a domain Call
func (m *CallModel) ToDomain() *callcenter.Call {
	c := &callcenter.Call{
		AgentID:         m.AgentID,
		LeadID:          m.LeadID,
		Direction:       m.Direction,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
		DurationSeconds: m.DurationSeconds,
		Outcome:         m.Outcome,
		FollowUpAt:      m.FollowUpAt,
		FollowUpNote:    m.FollowUpNote,
		Notes:           m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CallModelFromDomain creates a persistence model from a domain Call
func CallModelFromDomain(c *callcenter.Call) *CallModel {
	m := &CallModel{
		AgentID:         c.AgentID,
		LeadID:          c.LeadID,
		Direction:       c.Direction,
		StartedAt:       c.StartedAt,
		EndedAt:         c.EndedAt,
		DurationSeconds: c.DurationSeconds,
		Outcome:         c.Outcome,
		FollowUpAt:      c.FollowUpAt,
		FollowUpNote:    c.FollowUpNote,
		Notes:           c.Notes,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// CallReportModel is the persistence model for callcenter.CallReport
type CallReportModel struct {
	TenantAggregateModel
	CampaignID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	ReportType     callcenter.ReportType `gorm:"type:varchar(20);not null;index"`
	ReportDate     time.Time             `gorm:"type:date;not null;index"`
	CallsMade      int                   `gorm:"not null;default:0"`
	CallsConnected int                   `gorm:"not null;default:0"`
	LeadsConverted int                   `gorm:"not null;default:0"`
	TotalCost      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CallReportModel) TableName() string {
	return "call_reports"
}

// ToDomain converts the model to a domain CallReport
func (m *CallReportModel) ToDomain() *callcenter.CallReport {
	r := &callcenter.CallReport{
		CampaignID:     m.CampaignID,
		Type:           m.ReportType,
		ReportDate:     m.ReportDate,
		CallsMade:      m.CallsMade,
		CallsConnected: m.CallsConnected,
		LeadsConverted: m.LeadsConverted,
		TotalCost:      m.TotalCost,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// CallReportModelFromDomain creates a persistence model from a domain CallReport
func CallReportModelFromDomain(r *callcenter.CallReport) *CallReportModel {
	m := &CallReportModel{
		CampaignID:     r.CampaignID,
		ReportType:     r.Type,
		ReportDate:     r.ReportDate,
		CallsMade:      r.CallsMade,
		CallsConnected: r.CallsConnected,
		LeadsConverted: r.LeadsConverted,
		TotalCost:      r.TotalCost,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
