package callcenter

import (
	"strings"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentShift represents a call agent's working shift
type AgentShift string

const (
	AgentShiftMorning AgentShift = "morning"
	AgentShiftEvening AgentShift = "evening"
	AgentShiftNight   AgentShift = "night"
)

// IsValid returns true for a known shift
func (s AgentShift) IsValid() bool {
	switch s {
	case AgentShiftMorning, AgentShiftEvening, AgentShiftNight:
		return true
	default:
		return false
	}
}

// Agent represents a call agent of a company; agents own calls and may
// be assigned leads. Toggled active/inactive, never hard-deleted once
// calls reference them.
type Agent struct {
	shared.TenantAggregateRoot
	Name      string
	Email     string
	Phone     string
	Extension string
	Shift     AgentShift
	IsActive  bool
}

// NewAgent creates a new active call agent
func NewAgent(tenantID uuid.UUID, name, extension string) (*Agent, error) {
	if err := validateAgentName(name); err != nil {
		return nil, err
	}
	if err := validateExtension(extension); err != nil {
		return nil, err
	}

	return &Agent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Extension:           strings.TrimSpace(extension),
		Shift:               AgentShiftMorning,
		IsActive:            true,
	}, nil
}

// Update updates the agent's contact information
func (a *Agent) Update(name, email, phone, extension string) error {
	if err := validateAgentName(name); err != nil {
		return err
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if err := validateExtension(extension); err != nil {
		return err
	}

	a.Name = strings.TrimSpace(name)
	a.Email = strings.ToLower(strings.TrimSpace(email))
	a.Phone = strings.TrimSpace(phone)
	a.Extension = strings.TrimSpace(extension)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetShift assigns the agent's working shift
func (a *Agent) SetShift(shift AgentShift) error {
	if !shift.IsValid() {
		return shared.NewDomainError("INVALID_SHIFT", "Invalid agent shift")
	}

	a.Shift = shift
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Activate enables the agent
func (a *Agent) Activate() error {
	if a.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Agent is already active")
	}

	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Deactivate disables the agent; inactive agents cannot take new calls
func (a *Agent) Deactivate() error {
	if !a.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Agent is already inactive")
	}

	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

func validateAgentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Agent name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Agent name cannot exceed 200 characters")
	}
	return nil
}

func validateExtension(extension string) error {
	extension = strings.TrimSpace(extension)
	if extension == "" {
		return nil
	}
	if len(extension) > 10 {
		return shared.NewDomainError("INVALID_EXTENSION", "Extension cannot exceed 10 characters")
	}
	for _, r := range extension {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_EXTENSION", "Extension can only contain digits")
		}
	}
	return nil
}
