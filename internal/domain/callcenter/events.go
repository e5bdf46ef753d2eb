package callcenter

import (
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCampaign = "Campaign"
	AggregateTypeLead     = "Lead"
	AggregateTypeCall     = "Call"
)

// Call-center domain event types. These feed the websocket notify hub
// so dashboards see lead and call activity as it happens.
const (
	EventTypeCampaignCreated       = "CampaignCreated"
	EventTypeCampaignStatusChanged = "CampaignStatusChanged"
	EventTypeLeadCreated           = "LeadCreated"
	EventTypeLeadStatusChanged     = "LeadStatusChanged"
	EventTypeLeadScoreUpdated      = "LeadScoreUpdated"
	EventTypeLeadAssigned          = "LeadAssigned"
	EventTypeCallLogged            = "CallLogged"
	EventTypeCallOutcomeRecorded   = "CallOutcomeRecorded"
)

// CampaignCreatedEvent is published when a campaign is created
type CampaignCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCampaignCreatedEvent creates a new CampaignCreatedEvent
func NewCampaignCreatedEvent(campaign *Campaign) *CampaignCreatedEvent {
	return &CampaignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignCreated, AggregateTypeCampaign, campaign.ID, campaign.TenantID),
		Name:            campaign.Name,
	}
}

// CampaignStatusChangedEvent is published when a campaign's completion status changes
type CampaignStatusChangedEvent struct {
	shared.BaseDomainEvent
	Name      string         `json:"name"`
	OldStatus CampaignStatus `json:"old_status"`
	NewStatus CampaignStatus `json:"new_status"`
}

// NewCampaignStatusChangedEvent creates a new CampaignStatusChangedEvent
func NewCampaignStatusChangedEvent(campaign *Campaign, oldStatus, newStatus CampaignStatus) *CampaignStatusChangedEvent {
	return &CampaignStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignStatusChanged, AggregateTypeCampaign, campaign.ID, campaign.TenantID),
		Name:            campaign.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// LeadCreatedEvent is published when a lead is created
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string     `json:"name"`
	Status LeadStatus `json:"status"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(lead *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, lead.ID, lead.TenantID),
		Name:            lead.FullName(),
		Status:          lead.Status,
	}
}

// LeadStatusChangedEvent is published when a lead's status changes
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus LeadStatus `json:"old_status"`
	NewStatus LeadStatus `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(lead *Lead, oldStatus, newStatus LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, lead.ID, lead.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// LeadScoreUpdatedEvent is published when a lead's score changes
type LeadScoreUpdatedEvent struct {
	shared.BaseDomainEvent
	Score          int       `json:"score"`
	ScoreUpdatedAt time.Time `json:"score_updated_at"`
}

// NewLeadScoreUpdatedEvent creates a new LeadScoreUpdatedEvent
func NewLeadScoreUpdatedEvent(lead *Lead) *LeadScoreUpdatedEvent {
	updatedAt := time.Now()
	if lead.ScoreUpdatedAt != nil {
		updatedAt = *lead.ScoreUpdatedAt
	}
	return &LeadScoreUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadScoreUpdated, AggregateTypeLead, lead.ID, lead.TenantID),
		Score:           lead.Score,
		ScoreUpdatedAt:  updatedAt,
	}
}

// LeadAssignedEvent is published when a lead is assigned to an agent
type LeadAssignedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID `json:"agent_id"`
}

// NewLeadAssignedEvent creates a new LeadAssignedEvent
func NewLeadAssignedEvent(lead *Lead, agentID uuid.UUID) *LeadAssignedEvent {
	return &LeadAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadAssigned, AggregateTypeLead, lead.ID, lead.TenantID),
		AgentID:         agentID,
	}
}

// CallLoggedEvent is published when a call is logged
type CallLoggedEvent struct {
	shared.BaseDomainEvent
	AgentID   uuid.UUID     `json:"agent_id"`
	LeadID    uuid.UUID     `json:"lead_id"`
	Direction CallDirection `json:"direction"`
}

// NewCallLoggedEvent creates a new CallLoggedEvent
func NewCallLoggedEvent(call *Call) *CallLoggedEvent {
	return &CallLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCallLogged, AggregateTypeCall, call.ID, call.TenantID),
		AgentID:         call.AgentID,
		LeadID:          call.LeadID,
		Direction:       call.Direction,
	}
}

// CallOutcomeRecordedEvent is published when a call's outcome is recorded
type CallOutcomeRecordedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID   `json:"agent_id"`
	LeadID  uuid.UUID   `json:"lead_id"`
	Outcome CallOutcome `json:"outcome"`
}

// NewCallOutcomeRecordedEvent creates a new CallOutcomeRecordedEvent
func NewCallOutcomeRecordedEvent(call *Call) *CallOutcomeRecordedEvent {
	return &CallOutcomeRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCallOutcomeRecorded, AggregateTypeCall, call.ID, call.TenantID),
		AgentID:         call.AgentID,
		LeadID:          call.LeadID,
		Outcome:         call.Outcome,
	}
}
