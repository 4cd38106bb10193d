// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"prospectmap_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Commerce Domain Events
// =============================================================================

// CommerceCreated is published after a commerce is inserted, by a user or by ingestion.
type CommerceCreated struct {
	BaseEvent
	CommerceID   uuid.UUID  `json:"commerceId"`
	Name         string     `json:"name"`
	ActorID      *uuid.UUID `json:"actorId,omitempty"`
	CommercialID *uuid.UUID `json:"commercialId,omitempty"`
	Source       string     `json:"source"`
}

func (e CommerceCreated) EventName() string { return "commerces.created" }

// CommerceUpdated is published after a commerce update. Fields lists the
// JSON names of the fields that were part of the update request.
type CommerceUpdated struct {
	BaseEvent
	CommerceID uuid.UUID `json:"commerceId"`
	Name       string    `json:"name"`
	ActorID    uuid.UUID `json:"actorId"`
	Fields     []string  `json:"fields"`
	Status     string    `json:"status"`
}

func (e CommerceUpdated) EventName() string { return "commerces.updated" }

// CommerceDeleted is published after a commerce is deleted.
type CommerceDeleted struct {
	BaseEvent
	CommerceID uuid.UUID `json:"commerceId"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e CommerceDeleted) EventName() string { return "commerces.deleted" }

// =============================================================================
// Appointment Domain Events
// =============================================================================

// AppointmentCreated is published after an appointment is inserted.
type AppointmentCreated struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	CommerceID    uuid.UUID  `json:"commerceId"`
	CommercialID  *uuid.UUID `json:"commercialId,omitempty"`
	ActorID       uuid.UUID  `json:"actorId"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Type          string     `json:"type"`
}

func (e AppointmentCreated) EventName() string { return "appointments.created" }

// AppointmentUpdated is published after an appointment update.
type AppointmentUpdated struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	CommerceID    uuid.UUID `json:"commerceId"`
	ActorID       uuid.UUID `json:"actorId"`
	Status        string    `json:"status"`
}

func (e AppointmentUpdated) EventName() string { return "appointments.updated" }

// AppointmentDeleted is published after an appointment is deleted.
type AppointmentDeleted struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	CommerceID    uuid.UUID `json:"commerceId"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e AppointmentDeleted) EventName() string { return "appointments.deleted" }

// AppointmentReminderSent is published by the scheduler worker once a
// reminder email went out.
type AppointmentReminderSent struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	CommerceID    uuid.UUID `json:"commerceId"`
	Recipient     string    `json:"recipient"`
}

func (e AppointmentReminderSent) EventName() string { return "appointments.reminder_sent" }

// =============================================================================
// Profile Domain Events
// =============================================================================

// ProfileUpdated is published after a self-service profile edit.
type ProfileUpdated struct {
	BaseEvent
	ProfileID uuid.UUID `json:"profileId"`
	Fields    []string  `json:"fields"`
}

func (e ProfileUpdated) EventName() string { return "profiles.updated" }

// ProfileActiveToggled is published when an admin flips a profile's active flag.
type ProfileActiveToggled struct {
	BaseEvent
	ProfileID uuid.UUID `json:"profileId"`
	ActorID   uuid.UUID `json:"actorId"`
	Active    bool      `json:"active"`
}

func (e ProfileActiveToggled) EventName() string { return "profiles.active_toggled" }

// =============================================================================
// Search & Export Events
// =============================================================================

// SearchRequested is published when the automation webhook accepted a search.
type SearchRequested struct {
	BaseEvent
	ActorID           uuid.UUID `json:"actorId"`
	Location          string    `json:"location"`
	EstablishmentType string    `json:"establishmentType"`
	ResultCount       int       `json:"resultCount"`
}

func (e SearchRequested) EventName() string { return "search.requested" }

// ExportGenerated is published after a CSV export was streamed.
type ExportGenerated struct {
	BaseEvent
	ActorID  uuid.UUID `json:"actorId"`
	Kind     string    `json:"kind"`
	Filename string    `json:"filename"`
	Rows     int       `json:"rows"`
}

func (e ExportGenerated) EventName() string { return "exports.generated" }
