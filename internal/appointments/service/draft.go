package service

import (
	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	fieldCommercial = "commercialId"
	fieldDuration   = "durationMinutes"
	fieldType       = "type"
	fieldLocation   = "location"
	fieldStatus     = "status"
	fieldNotes      = "notes"
)

// Draft is the edit state of one appointment until Service.Submit writes it.
type Draft struct {
	id       *uuid.UUID
	original domain.Appointment
	values   domain.Input
	changed  map[string]bool
}

// NewDraft starts a create draft: 30 minutes, prospection, en_attente.
func NewDraft() *Draft {
	return &Draft{
		values: domain.Input{
			DurationMinutes: domain.DefaultDuration,
			Type:            domain.TypeProspection,
			Status:          domain.StatusPending,
		},
		changed: map[string]bool{},
	}
}

// EditDraft starts an edit draft from an existing appointment.
func EditDraft(existing domain.Appointment) *Draft {
	id := existing.ID
	return &Draft{id: &id, original: existing, values: domain.InputFrom(existing), changed: map[string]bool{}}
}

func (d *Draft) IsNew() bool { return d.id == nil }

func (d *Draft) Values() domain.Input { return d.values }

func (d *Draft) mark(field string) { d.changed[field] = true }

func (d *Draft) SetCommerce(id uuid.UUID)    { d.values.CommerceID = id; d.mark(domain.FieldCommerceID) }
func (d *Draft) SetCommercial(id *uuid.UUID) { d.values.CommercialID = id; d.mark(fieldCommercial) }
func (d *Draft) SetDate(v string)            { d.values.Date = v; d.mark(domain.FieldDate) }
func (d *Draft) SetTime(v string)            { d.values.Time = v; d.mark(domain.FieldTime) }
func (d *Draft) SetType(v domain.Type)       { d.values.Type = v; d.mark(fieldType) }
func (d *Draft) SetStatus(v domain.Status)   { d.values.Status = v; d.mark(fieldStatus) }
func (d *Draft) SetLocation(v *string)       { d.values.Location = v; d.mark(fieldLocation) }
func (d *Draft) SetNotes(v *string)          { d.values.Notes = v; d.mark(fieldNotes) }

// SetDuration sets the length in minutes; values <= 0 restore the default.
func (d *Draft) SetDuration(minutes int) {
	if minutes <= 0 {
		minutes = domain.DefaultDuration
	}
	d.values.DurationMinutes = minutes
	d.mark(fieldDuration)
}

// Validate returns the names of missing or malformed required fields.
func (d *Draft) Validate() []string {
	var missing []string
	if d.values.CommerceID == uuid.Nil {
		missing = append(missing, domain.FieldCommerceID)
	}
	if !validator.IsISODate(d.values.Date) {
		missing = append(missing, domain.FieldDate)
	}
	if !validator.IsHHMM(d.values.Time) {
		missing = append(missing, domain.FieldTime)
	}
	return missing
}

func (d *Draft) update(in domain.Input) domain.Update {
	var u domain.Update
	for field := range d.changed {
		switch field {
		case domain.FieldCommerceID:
			if in.CommerceID != d.original.CommerceID {
				u.CommerceID = &in.CommerceID
			}
		case fieldCommercial:
			if in.CommercialID == nil {
				u.ClearCommercial = true
			} else {
				u.CommercialID = in.CommercialID
			}
		case domain.FieldDate:
			if in.Date != d.original.Date {
				u.Date = &in.Date
			}
		case domain.FieldTime:
			if in.Time != d.original.Time {
				u.Time = &in.Time
			}
		case fieldDuration:
			u.DurationMinutes = &in.DurationMinutes
		case fieldType:
			u.Type = &in.Type
		case fieldStatus:
			u.Status = &in.Status
		case fieldLocation:
			if in.Location == nil {
				u.ClearLocation = true
			} else {
				u.Location = in.Location
			}
		case fieldNotes:
			if in.Notes == nil {
				u.ClearNotes = true
			} else {
				u.Notes = in.Notes
			}
		}
	}
	return u
}
