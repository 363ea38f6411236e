package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers changes to donor and staff records.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers authentication outcomes and lockouts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity such as screenings and logouts.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// ActorID is the staff user who performed the action; empty for public
	// donor self-registration.
	ActorID string `json:"actor_id,omitempty"`
	// Subject identifies the record acted on (donor id, username, ...).
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}

type AuditEvent string

const (
	EventDonorRegistered   AuditEvent = "donor_registered"
	EventDonorUpdated      AuditEvent = "donor_updated"
	EventScreeningRecorded AuditEvent = "screening_recorded"

	EventStaffRegistered  AuditEvent = "staff_registered"
	EventStaffLogin       AuditEvent = "staff_login"
	EventStaffLoginFailed AuditEvent = "staff_login_failed"
	EventStaffLogout      AuditEvent = "staff_logout"

	EventAuthLockoutTriggered AuditEvent = "auth_lockout_triggered"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDonorRegistered: CategoryCompliance,
	EventDonorUpdated:    CategoryCompliance,
	EventStaffRegistered: CategoryCompliance,

	EventStaffLoginFailed:     CategorySecurity,
	EventAuthLockoutTriggered: CategorySecurity,
	EventStaffLogin:           CategorySecurity,

	EventScreeningRecorded: CategoryOperations,
	EventStaffLogout:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
