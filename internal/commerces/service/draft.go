package service

import (
	"strings"

	"prospectmap_backend/internal/commerces/domain"

	"github.com/google/uuid"
)

// Draft is the transient edit state of one commerce. It starts either from
// an empty template (create) or from an existing record (edit) and is only
// written through Service.Submit.
type Draft struct {
	id      *uuid.UUID
	values  domain.Input
	changed map[string]bool
}

// NewDraft starts a create draft with the default status and priority.
func NewDraft() *Draft {
	return &Draft{
		values:  domain.Input{Status: domain.StatusToContact, Priority: domain.PriorityNormal},
		changed: map[string]bool{},
	}
}

// EditDraft starts an edit draft from an existing commerce.
func EditDraft(existing domain.Commerce) *Draft {
	id := existing.ID
	return &Draft{id: &id, values: domain.InputFrom(existing), changed: map[string]bool{}}
}

func (d *Draft) IsNew() bool { return d.id == nil }

// Values returns the current field values.
func (d *Draft) Values() domain.Input { return d.values }

func (d *Draft) mark(field string) { d.changed[field] = true }

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (d *Draft) SetName(v string)          { d.values.Name = v; d.mark(domain.FieldName) }
func (d *Draft) SetType(v string)          { d.values.Type = optional(v); d.mark(domain.FieldType) }
func (d *Draft) SetAddress(v string)       { d.values.Address = optional(v); d.mark(domain.FieldAddress) }
func (d *Draft) SetPhone(v string)         { d.values.Phone = optional(v); d.mark(domain.FieldPhone) }
func (d *Draft) SetEmail(v string)         { d.values.Email = optional(v); d.mark(domain.FieldEmail) }
func (d *Draft) SetWebsite(v string)       { d.values.Website = optional(v); d.mark(domain.FieldWebsite) }
func (d *Draft) SetGoogleMapsURL(v string) { d.values.GoogleMapsURL = optional(v); d.mark(domain.FieldGoogleMapsURL) }
func (d *Draft) SetFacebook(v string)      { d.values.Facebook = optional(v); d.mark(domain.FieldFacebook) }
func (d *Draft) SetInstagram(v string)     { d.values.Instagram = optional(v); d.mark(domain.FieldInstagram) }
func (d *Draft) SetLinkedIn(v string)      { d.values.LinkedIn = optional(v); d.mark(domain.FieldLinkedIn) }
func (d *Draft) SetInternalNotes(v string) { d.values.InternalNotes = optional(v); d.mark(domain.FieldInternalNotes) }

func (d *Draft) SetRating(v *float64)        { d.values.Rating = v; d.mark(domain.FieldRating) }
func (d *Draft) SetReviewCount(v *int)       { d.values.ReviewCount = v; d.mark(domain.FieldReviewCount) }
func (d *Draft) SetAverageBasket(v *float64) { d.values.AverageBasket = v; d.mark(domain.FieldAverageBasket) }
func (d *Draft) SetAIScore(v *float64)       { d.values.AIScore = v; d.mark(domain.FieldAIScore) }

func (d *Draft) SetStatus(v domain.Status)     { d.values.Status = v; d.mark(domain.FieldStatus) }
func (d *Draft) SetPriority(v domain.Priority) { d.values.Priority = v; d.mark(domain.FieldPriority) }

// SetCommercial assigns the commerce; nil unassigns it.
func (d *Draft) SetCommercial(id *uuid.UUID) { d.values.CommercialID = id; d.mark(domain.FieldCommercialID) }

// Validate returns the names of missing required fields, empty when the
// draft can be submitted.
func (d *Draft) Validate() []string {
	var missing []string
	if strings.TrimSpace(d.values.Name) == "" {
		missing = append(missing, domain.FieldName)
	}
	if !d.values.Status.Valid() {
		missing = append(missing, domain.FieldStatus)
	}
	if !d.values.Priority.Valid() {
		missing = append(missing, domain.FieldPriority)
	}
	return missing
}

// update converts the fields touched since the draft started into an Update.
func (d *Draft) update(in domain.Input) domain.Update {
	var u domain.Update
	for field := range d.changed {
		switch field {
		case domain.FieldName:
			u.Name = &in.Name
		case domain.FieldType:
			u.Type = domain.Change(in.Type)
		case domain.FieldAddress:
			u.Address = domain.Change(in.Address)
		case domain.FieldPhone:
			u.Phone = domain.Change(in.Phone)
		case domain.FieldEmail:
			u.Email = domain.Change(in.Email)
		case domain.FieldWebsite:
			u.Website = domain.Change(in.Website)
		case domain.FieldGoogleMapsURL:
			u.GoogleMapsURL = domain.Change(in.GoogleMapsURL)
		case domain.FieldFacebook:
			u.Facebook = domain.Change(in.Facebook)
		case domain.FieldInstagram:
			u.Instagram = domain.Change(in.Instagram)
		case domain.FieldLinkedIn:
			u.LinkedIn = domain.Change(in.LinkedIn)
		case domain.FieldRating:
			u.Rating = domain.Change(in.Rating)
		case domain.FieldReviewCount:
			u.ReviewCount = domain.Change(in.ReviewCount)
		case domain.FieldAverageBasket:
			u.AverageBasket = domain.Change(in.AverageBasket)
		case domain.FieldAIScore:
			u.AIScore = domain.Change(in.AIScore)
		case domain.FieldStatus:
			u.Status = &in.Status
		case domain.FieldPriority:
			u.Priority = &in.Priority
		case domain.FieldCommercialID:
			u.CommercialID = domain.Change(in.CommercialID)
		case domain.FieldInternalNotes:
			u.InternalNotes = domain.Change(in.InternalNotes)
		}
	}
	return u
}
