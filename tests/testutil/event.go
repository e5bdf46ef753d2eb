// Package testutil provides common test utilities for the call center CRM backend.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/callcrm/backend/internal/domain/shared"
)

// CapturingPublisher is a shared.EventPublisher that records every published
// event, for asserting on event flow in service tests.
type CapturingPublisher struct {
	mu        sync.Mutex
	published []shared.DomainEvent
	err       error
}

// NewCapturingPublisher creates a new capturing event publisher.
func NewCapturingPublisher() *CapturingPublisher {
	return &CapturingPublisher{
		published: make([]shared.DomainEvent, 0),
	}
}

// Publish records the events and returns the configured error, if any.
func (p *CapturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, events...)
	return p.err
}

// Published returns a copy of all published events.
func (p *CapturingPublisher) Published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]shared.DomainEvent, len(p.published))
	copy(result, p.published)
	return result
}

// PublishedCount returns the number of published events.
func (p *CapturingPublisher) PublishedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// PublishedOfType returns all published events matching the given event type.
func (p *CapturingPublisher) PublishedOfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []shared.DomainEvent
	for _, e := range p.published {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// SetError sets the error to return from Publish.
func (p *CapturingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Reset clears all published events.
func (p *CapturingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = make([]shared.DomainEvent, 0)
	p.err = nil
}

// TestEvent is a simple domain event for testing.
type TestEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewTestEvent creates a new test event.
func NewTestEvent(eventType string, tenantID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:            uuid.New(),
			Type:          eventType,
			TenantIDValue: tenantID,
			Timestamp:     time.Now(),
			AggID:         uuid.New(),
			AggType:       "TestAggregate",
		},
		Data: "test-data",
	}
}

// NewTestEventWithID creates a test event with a specific event ID.
func NewTestEventWithID(eventID uuid.UUID, eventType string, tenantID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:            eventID,
			Type:          eventType,
			TenantIDValue: tenantID,
			Timestamp:     time.Now(),
			AggID:         uuid.New(),
			AggType:       "TestAggregate",
		},
		Data: "test-data",
	}
}

// WaitForCondition waits for a condition to become true.
// Returns true if the condition was met, false if timeout occurred.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}

// WaitForEventCount waits until the publisher has captured at least n events.
func WaitForEventCount(t *testing.T, publisher *CapturingPublisher, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitForCondition(t, func() bool {
		return publisher.PublishedCount() >= count
	}, timeout, 10*time.Millisecond)
}
