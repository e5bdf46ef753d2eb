package identity

import (
	"github.com/callcrm/backend/internal/domain/shared"
)

// Aggregate type constant for Company
const AggregateTypeCompany = "Company"

// Company domain event types
const (
	EventTypeCompanyCreated       = "CompanyCreated"
	EventTypeCompanyUpdated       = "CompanyUpdated"
	EventTypeCompanyStatusChanged = "CompanyStatusChanged"
)

// CompanyCreatedEvent is published when a company is created
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, company.ID, company.ID),
		Code:            company.Code,
		Name:            company.Name,
	}
}

// CompanyUpdatedEvent is published when a company's basic info changes
type CompanyUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCompanyUpdatedEvent creates a new CompanyUpdatedEvent
func NewCompanyUpdatedEvent(company *Company) *CompanyUpdatedEvent {
	return &CompanyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyUpdated, AggregateTypeCompany, company.ID, company.ID),
		Name:            company.Name,
	}
}

// CompanyStatusChangedEvent is published when a company's status changes
type CompanyStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus CompanyStatus `json:"old_status"`
	NewStatus CompanyStatus `json:"new_status"`
}

// NewCompanyStatusChangedEvent creates a new CompanyStatusChangedEvent
func NewCompanyStatusChangedEvent(company *Company, oldStatus, newStatus CompanyStatus) *CompanyStatusChangedEvent {
	return &CompanyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyStatusChanged, AggregateTypeCompany, company.ID, company.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
