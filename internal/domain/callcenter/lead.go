package callcenter

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadStatus represents the status of a call lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// IsValid returns true for a known lead status
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	default:
		return false
	}
}

// Lead score bounds
const (
	MinLeadScore = 0
	MaxLeadScore = 100
)

// Lead represents a call lead. Leads belong to a company and optionally
// to a campaign and an assigned agent.
type Lead struct {
	shared.TenantAggregateRoot
	CampaignID     *uuid.UUID
	AgentID        *uuid.UUID
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	Source         string
	Status         LeadStatus
	Score          int
	ScoreUpdatedAt *time.Time
	Notes          string
}

// NewLead creates a new lead in status "new"
func NewLead(tenantID uuid.UUID, firstName, lastName, phone string) (*Lead, error) {
	if err := validateLeadName(firstName, lastName); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	lead := &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Phone:               strings.TrimSpace(phone),
		Status:              LeadStatusNew,
		Score:               MinLeadScore,
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// Update updates the lead's contact information
func (l *Lead) Update(firstName, lastName, phone, email, source string) error {
	if err := validateLeadName(firstName, lastName); err != nil {
		return err
	}
	if err := validatePhone(phone); err != nil {
		return err
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if len(source) > 100 {
		return shared.NewDomainError("INVALID_SOURCE", "Source cannot exceed 100 characters")
	}

	l.FirstName = strings.TrimSpace(firstName)
	l.LastName = strings.TrimSpace(lastName)
	l.Phone = strings.TrimSpace(phone)
	l.Email = strings.ToLower(strings.TrimSpace(email))
	l.Source = strings.TrimSpace(source)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetNotes sets the lead's notes
func (l *Lead) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// UpdateStatus moves the lead to a new status
func (l *Lead) UpdateStatus(status LeadStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid lead status")
	}
	if l.Status == status {
		return shared.NewDomainError("SAME_STATUS", "Lead already has this status")
	}

	oldStatus := l.Status
	l.Status = status
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, oldStatus, status))

	return nil
}

// UpdateScore sets the lead's score and bumps the score timestamp
func (l *Lead) UpdateScore(score int) error {
	if score < MinLeadScore || score > MaxLeadScore {
		return shared.NewDomainError("INVALID_SCORE", "Lead score must be between 0 and 100")
	}

	now := time.Now()
	l.Score = score
	l.ScoreUpdatedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadScoreUpdatedEvent(l))

	return nil
}

// AssignAgent assigns the lead to a call agent
func (l *Lead) AssignAgent(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENT_ID", "Agent ID cannot be empty")
	}

	l.AgentID = &agentID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadAssignedEvent(l, agentID))

	return nil
}

// UnassignAgent removes the lead's agent assignment
func (l *Lead) UnassignAgent() {
	l.AgentID = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// AttachToCampaign places the lead in a campaign
func (l *Lead) AttachToCampaign(campaignID uuid.UUID) error {
	if campaignID == uuid.Nil {
		return shared.NewDomainError("INVALID_CAMPAIGN_ID", "Campaign ID cannot be empty")
	}

	l.CampaignID = &campaignID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// FullName returns the lead's display name
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IsAssigned returns true if an agent owns this lead
func (l *Lead) IsAssigned() bool {
	return l.AgentID != nil
}

func validateLeadName(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" && strings.TrimSpace(lastName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead must have a first or last name")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 100 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	return nil
}
