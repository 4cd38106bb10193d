// Package domain holds the commerce (lead) model, its closed enums and the
// in-memory filter predicates.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultType is the bucket used for commerces without a category.
const DefaultType = "Autre"

// Owner is the embedded summary of the assigned commercial.
type Owner struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

type Commerce struct {
	ID            uuid.UUID
	Name          string
	Type          *string
	Address       *string
	Phone         *string
	Email         *string
	Website       *string
	GoogleMapsURL *string
	Facebook      *string
	Instagram     *string
	LinkedIn      *string
	Rating        *float64
	ReviewCount   *int
	AverageBasket *float64
	AIScore       *float64
	Status        Status
	Priority      Priority
	CommercialID  *uuid.UUID
	Commercial    *Owner
	InternalNotes *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TypeOrDefault returns the category, or DefaultType when blank.
func (c Commerce) TypeOrDefault() string {
	if c.Type == nil || strings.TrimSpace(*c.Type) == "" {
		return DefaultType
	}
	return *c.Type
}

// Input is the full set of writable fields used to insert a commerce.
type Input struct {
	Name          string
	Type          *string
	Address       *string
	Phone         *string
	Email         *string
	Website       *string
	GoogleMapsURL *string
	Facebook      *string
	Instagram     *string
	LinkedIn      *string
	Rating        *float64
	ReviewCount   *int
	AverageBasket *float64
	AIScore       *float64
	Status        Status
	Priority      Priority
	CommercialID  *uuid.UUID
	InternalNotes *string
}

// InputFrom copies the writable fields of an existing commerce.
func InputFrom(c Commerce) Input {
	return Input{
		Name:          c.Name,
		Type:          c.Type,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		Website:       c.Website,
		GoogleMapsURL: c.GoogleMapsURL,
		Facebook:      c.Facebook,
		Instagram:     c.Instagram,
		LinkedIn:      c.LinkedIn,
		Rating:        c.Rating,
		ReviewCount:   c.ReviewCount,
		AverageBasket: c.AverageBasket,
		AIScore:       c.AIScore,
		Status:        c.Status,
		Priority:      c.Priority,
		CommercialID:  c.CommercialID,
		InternalNotes: c.InternalNotes,
	}
}

// Patch is one field of an update. Set marks it as part of the update; a
// nil Value clears the column.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Change builds a Patch that writes v (nil clears).
func Change[T any](v *T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

// Update enumerates the mutable commerce fields. The id and timestamps are
// not part of it and can never be written by callers.
type Update struct {
	Name          *string
	Type          Patch[string]
	Address       Patch[string]
	Phone         Patch[string]
	Email         Patch[string]
	Website       Patch[string]
	GoogleMapsURL Patch[string]
	Facebook      Patch[string]
	Instagram     Patch[string]
	LinkedIn      Patch[string]
	Rating        Patch[float64]
	ReviewCount   Patch[int]
	AverageBasket Patch[float64]
	AIScore       Patch[float64]
	Status        *Status
	Priority      *Priority
	CommercialID  Patch[uuid.UUID]
	InternalNotes Patch[string]
}

// Field names as exposed in JSON. Used for validation reports and events.
const (
	FieldName          = "name"
	FieldType          = "type"
	FieldAddress       = "address"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldWebsite       = "website"
	FieldGoogleMapsURL = "googleMapsUrl"
	FieldFacebook      = "facebook"
	FieldInstagram     = "instagram"
	FieldLinkedIn      = "linkedin"
	FieldRating        = "rating"
	FieldReviewCount   = "reviewCount"
	FieldAverageBasket = "averageBasket"
	FieldAIScore       = "aiScore"
	FieldStatus        = "status"
	FieldPriority      = "priority"
	FieldCommercialID  = "commercialId"
	FieldInternalNotes = "internalNotes"
)

// FieldNames lists the fields present in the update, in declaration order.
func (u Update) FieldNames() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Name != nil, FieldName)
	add(u.Type.Set, FieldType)
	add(u.Address.Set, FieldAddress)
	add(u.Phone.Set, FieldPhone)
	add(u.Email.Set, FieldEmail)
	add(u.Website.Set, FieldWebsite)
	add(u.GoogleMapsURL.Set, FieldGoogleMapsURL)
	add(u.Facebook.Set, FieldFacebook)
	add(u.Instagram.Set, FieldInstagram)
	add(u.LinkedIn.Set, FieldLinkedIn)
	add(u.Rating.Set, FieldRating)
	add(u.ReviewCount.Set, FieldReviewCount)
	add(u.AverageBasket.Set, FieldAverageBasket)
	add(u.AIScore.Set, FieldAIScore)
	add(u.Status != nil, FieldStatus)
	add(u.Priority != nil, FieldPriority)
	add(u.CommercialID.Set, FieldCommercialID)
	add(u.InternalNotes.Set, FieldInternalNotes)
	return fields
}

func (u Update) IsEmpty() bool { return len(u.FieldNames()) == 0 }

// ListResult is one page of commerces plus the unpaged total.
type ListResult struct {
	Items    []Commerce
	Total    int
	Page     int
	PageSize int
}
