// Package domain holds the appointment (RDV) model.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is applied when no duration is supplied.
const DefaultDuration = 30

// DateLayout and TimeLayout are the wire formats of Date and Time.
const (
	DateLayout = time.DateOnly
	TimeLayout = "15:04"
)

// Type is the closed set of appointment kinds.
type Type string

const (
	TypeProspection Type = "prospection"
	TypeFollowUp    Type = "relance"
	TypeSignature   Type = "signature"
	TypeOther       Type = "autre"
)

var Types = []Type{TypeProspection, TypeFollowUp, TypeSignature, TypeOther}

func ParseType(value string) (Type, error) {
	switch t := Type(value); t {
	case TypeProspection, TypeFollowUp, TypeSignature, TypeOther:
		return t, nil
	}
	return "", fmt.Errorf("unknown appointment type %q", value)
}

func (t Type) Label() string {
	switch t {
	case TypeProspection:
		return "Prospection"
	case TypeFollowUp:
		return "Relance"
	case TypeSignature:
		return "Signature"
	case TypeOther:
		return "Autre"
	}
	return string(t)
}

// Status is the closed set of appointment states. Changes are always manual.
type Status string

const (
	StatusPending   Status = "en_attente"
	StatusConfirmed Status = "confirme"
	StatusCancelled Status = "annule"
	StatusDone      Status = "realise"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusDone}

func ParseStatus(value string) (Status, error) {
	switch s := Status(value); s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusDone:
		return s, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", value)
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusConfirmed:
		return "Confirmé"
	case StatusCancelled:
		return "Annulé"
	case StatusDone:
		return "Réalisé"
	}
	return string(s)
}

// NeedsReminder reports whether an appointment in this state still gets a reminder.
func (s Status) NeedsReminder() bool {
	switch s {
	case StatusPending, StatusConfirmed:
		return true
	case StatusCancelled, StatusDone:
		return false
	}
	return false
}

// CommerceSummary is the embedded commerce of an appointment.
type CommerceSummary struct {
	ID      uuid.UUID
	Name    string
	Address *string
	Phone   *string
}

// Owner is the embedded commercial of an appointment.
type Owner struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

type Appointment struct {
	ID              uuid.UUID
	CommerceID      uuid.UUID
	CommercialID    *uuid.UUID
	Date            string
	Time            string
	DurationMinutes int
	Type            Type
	Location        *string
	Status          Status
	Notes           *string
	ReminderSent    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Commerce        *CommerceSummary
	Commercial      *Owner
}

// StartsAt combines Date and Time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}

// Input is the full set of writable fields used to insert an appointment.
type Input struct {
	CommerceID      uuid.UUID
	CommercialID    *uuid.UUID
	Date            string
	Time            string
	DurationMinutes int
	Type            Type
	Location        *string
	Status          Status
	Notes           *string
}

// InputFrom copies the writable fields of an existing appointment.
func InputFrom(a Appointment) Input {
	return Input{
		CommerceID:      a.CommerceID,
		CommercialID:    a.CommercialID,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Type:            a.Type,
		Location:        a.Location,
		Status:          a.Status,
		Notes:           a.Notes,
	}
}

// Update enumerates the mutable appointment fields. Nil pointers are left
// unchanged; the Clear flags null the optional columns.
type Update struct {
	CommerceID      *uuid.UUID
	CommercialID    *uuid.UUID
	ClearCommercial bool
	Date            *string
	Time            *string
	DurationMinutes *int
	Type            *Type
	Location        *string
	ClearLocation   bool
	Status          *Status
	Notes           *string
	ClearNotes      bool
}

func (u Update) IsEmpty() bool {
	return u.CommerceID == nil && u.CommercialID == nil && !u.ClearCommercial &&
		u.Date == nil && u.Time == nil && u.DurationMinutes == nil && u.Type == nil &&
		u.Location == nil && !u.ClearLocation && u.Status == nil && u.Notes == nil && !u.ClearNotes
}

// Reschedules reports whether the update moves the appointment in time.
func (u Update) Reschedules() bool {
	return u.Date != nil || u.Time != nil
}

// Filter is the set of list predicates, combined with AND. From and To are
// inclusive YYYY-MM-DD bounds.
type Filter struct {
	From         string
	To           string
	Status       *Status
	CommercialID *uuid.UUID
	CommerceID   *uuid.UUID
}

// Field names as exposed in JSON.
const (
	FieldCommerceID = "commerceId"
	FieldDate       = "date"
	FieldTime       = "time"
)
