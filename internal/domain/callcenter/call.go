package callcenter

import (
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CallDirection represents whether a call was placed or received
type CallDirection string

const (
	CallDirectionOutbound CallDirection = "outbound"
	CallDirectionInbound  CallDirection = "inbound"
)

// IsValid returns true for a known call direction
func (d CallDirection) IsValid() bool {
	return d == CallDirectionOutbound || d == CallDirectionInbound
}

// CallOutcome represents the result of a finished call
type CallOutcome string

const (
	CallOutcomeAnswered    CallOutcome = "answered"
	CallOutcomeNoAnswer    CallOutcome = "no_answer"
	CallOutcomeBusy        CallOutcome = "busy"
	CallOutcomeVoicemail   CallOutcome = "voicemail"
	CallOutcomeCallback    CallOutcome = "callback"
	CallOutcomeWrongNumber CallOutcome = "wrong_number"
)

// IsValid returns true for a known call outcome
func (o CallOutcome) IsValid() bool {
	switch o {
	case CallOutcomeAnswered, CallOutcomeNoAnswer, CallOutcomeBusy,
		CallOutcomeVoicemail, CallOutcomeCallback, CallOutcomeWrongNumber:
		return true
	default:
		return false
	}
}

// Call represents one call between an agent and a lead. The outcome is
// recorded after the call ends; a follow-up may be scheduled from it.
type Call struct {
	shared.TenantAggregateRoot
	AgentID         uuid.UUID
	LeadID          uuid.UUID
	Direction       CallDirection
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds int
	Outcome         CallOutcome
	FollowUpAt      *time.Time
	FollowUpNote    string
	Notes           string
}

// NewCall logs a new call between an agent and a lead
func NewCall(tenantID, agentID, leadID uuid.UUID, direction CallDirection, startedAt time.Time) (*Call, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT_ID", "Agent ID cannot be empty")
	}
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invalid call direction")
	}
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	call := &Call{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AgentID:             agentID,
		LeadID:              leadID,
		Direction:           direction,
		StartedAt:           startedAt,
	}

	call.AddDomainEvent(NewCallLoggedEvent(call))

	return call, nil
}

// End marks the call as finished and derives its duration
func (c *Call) End(endedAt time.Time) error {
	if c.EndedAt != nil {
		return shared.NewDomainError("ALREADY_ENDED", "Call has already ended")
	}
	if endedAt.Before(c.StartedAt) {
		return shared.NewDomainError("INVALID_END_TIME", "Call cannot end before it started")
	}

	c.EndedAt = &endedAt
	c.DurationSeconds = int(endedAt.Sub(c.StartedAt) / time.Second)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RecordOutcome records the call's result
func (c *Call) RecordOutcome(outcome CallOutcome) error {
	if !outcome.IsValid() {
		return shared.NewDomainError("INVALID_OUTCOME", "Invalid call outcome")
	}

	c.Outcome = outcome
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCallOutcomeRecordedEvent(c))

	return nil
}

// ScheduleFollowUp schedules a follow-up for the call
func (c *Call) ScheduleFollowUp(at time.Time, note string) error {
	if at.Before(time.Now()) {
		return shared.NewDomainError("INVALID_FOLLOW_UP", "Follow-up time must be in the future")
	}
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_FOLLOW_UP", "Follow-up note cannot exceed 500 characters")
	}

	c.FollowUpAt = &at
	c.FollowUpNote = note
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ClearFollowUp removes a scheduled follow-up
func (c *Call) ClearFollowUp() {
	c.FollowUpAt = nil
	c.FollowUpNote = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetNotes sets the call's notes
func (c *Call) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// HasEnded returns true once the call is finished
func (c *Call) HasEnded() bool {
	return c.EndedAt != nil
}

// HasOutcome returns true once an outcome has been recorded
func (c *Call) HasOutcome() bool {
	return c.Outcome != ""
}
