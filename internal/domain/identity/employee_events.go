package identity

import (
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Employee
const AggregateTypeEmployee = "Employee"

// Employee domain event types
const (
	EventTypeEmployeeCreated       = "EmployeeCreated"
	EventTypeEmployeeRoleAssigned  = "EmployeeRoleAssigned"
	EventTypeEmployeeStatusChanged = "EmployeeStatusChanged"
)

// EmployeeCreatedEvent is published when an employee is created
type EmployeeCreatedEvent struct {
	shared.BaseDomainEvent
	Username string         `json:"username"`
	Status   EmployeeStatus `json:"status"`
}

// NewEmployeeCreatedEvent creates a new EmployeeCreatedEvent
func NewEmployeeCreatedEvent(employee *Employee) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeCreated, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Username:        employee.Username,
		Status:          employee.Status,
	}
}

// EmployeeRoleAssignedEvent is published when a role is assigned to an employee
type EmployeeRoleAssignedEvent struct {
	shared.BaseDomainEvent
	Username string    `json:"username"`
	RoleID   uuid.UUID `json:"role_id"`
}

// NewEmployeeRoleAssignedEvent creates a new EmployeeRoleAssignedEvent
func NewEmployeeRoleAssignedEvent(employee *Employee, roleID uuid.UUID) *EmployeeRoleAssignedEvent {
	return &EmployeeRoleAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeRoleAssigned, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Username:        employee.Username,
		RoleID:          roleID,
	}
}

// EmployeeStatusChangedEvent is published when an employee's status changes
type EmployeeStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string         `json:"username"`
	OldStatus EmployeeStatus `json:"old_status"`
	NewStatus EmployeeStatus `json:"new_status"`
}

// NewEmployeeStatusChangedEvent creates a new EmployeeStatusChangedEvent
func NewEmployeeStatusChangedEvent(employee *Employee, oldStatus, newStatus EmployeeStatus) *EmployeeStatusChangedEvent {
	return &EmployeeStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeStatusChanged, AggregateTypeEmployee, employee.ID, employee.TenantID),
		Username:        employee.Username,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
