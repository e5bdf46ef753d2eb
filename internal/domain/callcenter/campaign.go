package callcenter

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignStatus represents the completion status of a campaign
type CampaignStatus string

const (
	CampaignStatusPending    CampaignStatus = "pending"
	CampaignStatusInProgress CampaignStatus = "in_progress"
	CampaignStatusCompleted  CampaignStatus = "completed"
	CampaignStatusCancelled  CampaignStatus = "cancelled"
)

// IsValid returns true for a known campaign status
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusPending, CampaignStatusInProgress, CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once no further status changes are allowed
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCompleted || s == CampaignStatusCancelled
}

// Campaign represents an outbound calling campaign. It is the aggregate
// root owning leads and reports.
type Campaign struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	IsActive    bool
	Status      CampaignStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      decimal.Decimal
	CostPerLead decimal.Decimal
}

// NewCampaign creates a new campaign in pending status
func NewCampaign(tenantID uuid.UUID, name string) (*Campaign, error) {
	if err := validateCampaignName(name); err != nil {
		return nil, err
	}

	campaign := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		IsActive:            true,
		Status:              CampaignStatusPending,
		Budget:              decimal.Zero,
		CostPerLead:         decimal.Zero,
	}

	campaign.AddDomainEvent(NewCampaignCreatedEvent(campaign))

	return campaign, nil
}

// Update updates the campaign's basic information
func (c *Campaign) Update(name, description string) error {
	if err := validateCampaignName(name); err != nil {
		return err
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSchedule sets the campaign's date range
func (c *Campaign) SetSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_SCHEDULE", "End date cannot be before start date")
	}

	c.StartDate = start
	c.EndDate = end
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetBudget sets the campaign budget and expected cost per lead
func (c *Campaign) SetBudget(budget, costPerLead decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if costPerLead.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per lead cannot be negative")
	}

	c.Budget = budget
	c.CostPerLead = costPerLead
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateStatus moves the campaign to a new completion status. Terminal
// statuses cannot be left.
func (c *Campaign) UpdateStatus(status CampaignStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid campaign status")
	}
	if c.Status == status {
		return shared.NewDomainError("SAME_STATUS", "Campaign already has this status")
	}
	if c.Status.IsTerminal() {
		return shared.NewDomainError("STATUS_TERMINAL", "Completed or cancelled campaigns cannot change status")
	}

	oldStatus := c.Status
	c.Status = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, status))

	return nil
}

// Activate enables the campaign
func (c *Campaign) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Campaign is already active")
	}

	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate disables the campaign without changing its status
func (c *Campaign) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Campaign is already inactive")
	}

	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// EstimatedLeadCapacity returns how many leads the budget covers, or
// zero when no cost per lead is set
func (c *Campaign) EstimatedLeadCapacity() int64 {
	if c.CostPerLead.IsZero() || c.CostPerLead.IsNegative() {
		return 0
	}
	return c.Budget.Div(c.CostPerLead).IntPart()
}

func validateCampaignName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot exceed 200 characters")
	}
	return nil
}
