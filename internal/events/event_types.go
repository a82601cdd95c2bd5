package events

import (
	"time"

	"github.com/spec-kit/staff-presence/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated         EventType = "staff_created"
	EventStaffUpdated         EventType = "staff_updated"
	EventStaffDeleted         EventType = "staff_deleted"
	EventStaffStatusCorrected EventType = "staff_status_corrected"
	EventMovementCreated      EventType = "movement_created"
	EventMovementDeleted      EventType = "movement_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	StaffID *string `json:"staff_id,omitempty"`
	System  bool    `json:"system,omitempty"`
}

// StaffActor attributes an event to a signed-in staff member.
func StaffActor(staffID string) Actor {
	return Actor{StaffID: &staffID}
}

// SystemActor attributes an event to background reconciliation.
func SystemActor() Actor {
	return Actor{System: true}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffStatusCorrectedPayload payload.
type StaffStatusCorrectedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// StaffChangedPayload payload for staff create/update/delete.
type StaffChangedPayload struct {
	Name string           `json:"name,omitempty"`
	Role domain.StaffRole `json:"role,omitempty"`
}

// MovementPayload payload for movement create/delete.
type MovementPayload struct {
	MovementID string `json:"movement_id"`
	DateOut    string `json:"date_out,omitempty"`
	DateReturn string `json:"date_return,omitempty"`
	Location   string `json:"location,omitempty"`
}
