// Package actionlog records user and system actions in actions_log.
package actionlog

import "github.com/google/uuid"

// ActionType is the closed set of actions written to the log.
type ActionType string

const (
	ActionSearch             ActionType = "search"
	ActionCommerceCreated    ActionType = "commerce_created"
	ActionCommerceUpdated    ActionType = "commerce_updated"
	ActionCommerceDeleted    ActionType = "commerce_deleted"
	ActionAppointmentCreated ActionType = "appointment_created"
	ActionAppointmentUpdated ActionType = "appointment_updated"
	ActionAppointmentDeleted ActionType = "appointment_deleted"
	ActionProfileUpdated     ActionType = "profile_updated"
	ActionProfileToggled     ActionType = "profile_toggled"
	ActionExport             ActionType = "export"
)

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionSearch, ActionCommerceCreated, ActionCommerceUpdated, ActionCommerceDeleted,
		ActionAppointmentCreated, ActionAppointmentUpdated, ActionAppointmentDeleted,
		ActionProfileUpdated, ActionProfileToggled, ActionExport:
		return true
	}
	return false
}

// Entry is one row of actions_log.
type Entry struct {
	Type        ActionType
	CommerceID  *uuid.UUID
	ProfileID   *uuid.UUID
	Description string
	Metadata    map[string]any
}
