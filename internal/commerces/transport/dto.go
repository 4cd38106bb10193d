package transport

import (
	"strings"
	"time"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/commerces/service"

	"github.com/google/uuid"
)

// ListCommercesRequest is the query string of the list and export endpoints.
type ListCommercesRequest struct {
	Status       string `form:"status" validate:"omitempty,commerce_status"`
	Type         string `form:"type" validate:"omitempty,max=100"`
	Priority     string `form:"priority" validate:"omitempty,commerce_priority"`
	CommercialID string `form:"commercialId" validate:"omitempty,uuid"`
	Search       string `form:"search" validate:"omitempty,max=200"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

const defaultPageSize = 50

// Filter converts the validated query into domain predicates.
func (r ListCommercesRequest) Filter() domain.Filter {
	var f domain.Filter
	if r.Status != "" {
		if s, err := domain.ParseStatus(r.Status); err == nil {
			f.Status = &s
		}
	}
	if t := strings.TrimSpace(r.Type); t != "" {
		f.Type = &t
	}
	if r.Priority != "" {
		if p, err := domain.ParsePriority(r.Priority); err == nil {
			f.Priority = &p
		}
	}
	if r.CommercialID != "" {
		if id, err := uuid.Parse(r.CommercialID); err == nil {
			f.CommercialID = &id
		}
	}
	f.Search = strings.TrimSpace(r.Search)
	return f
}

func (r ListCommercesRequest) Paging() (int, int) {
	page, size := r.Page, r.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	return page, size
}

// CommerceFields lists every writable field. Absent fields are left
// untouched; blank text clears an optional field.
type CommerceFields struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	Type          *string          `json:"type" validate:"omitempty,max=100"`
	Address       *string          `json:"address" validate:"omitempty,max=500"`
	Phone         *string          `json:"phone" validate:"omitempty,max=30"`
	Email         *string          `json:"email" validate:"omitempty,max=254"`
	Website       *string          `json:"website" validate:"omitempty,max=500"`
	GoogleMapsURL *string          `json:"googleMapsUrl" validate:"omitempty,max=1000"`
	Facebook      *string          `json:"facebook" validate:"omitempty,max=500"`
	Instagram     *string          `json:"instagram" validate:"omitempty,max=500"`
	LinkedIn      *string          `json:"linkedin" validate:"omitempty,max=500"`
	Rating        *float64         `json:"rating" validate:"omitempty,min=0,max=5"`
	ReviewCount   *int             `json:"reviewCount" validate:"omitempty,min=0"`
	AverageBasket *float64         `json:"averageBasket" validate:"omitempty,min=0"`
	AIScore       *float64         `json:"aiScore" validate:"omitempty,min=0,max=100"`
	Status        *domain.Status   `json:"status"`
	Priority      *domain.Priority `json:"priority"`
	CommercialID  *uuid.UUID       `json:"commercialId"`
	InternalNotes *string          `json:"internalNotes" validate:"omitempty,max=5000"`
}

// ApplyTo copies the present fields onto the draft.
func (f CommerceFields) ApplyTo(d *service.Draft) {
	setText := func(v *string, set func(string)) {
		if v != nil {
			set(*v)
		}
	}
	setText(f.Name, d.SetName)
	setText(f.Type, d.SetType)
	setText(f.Address, d.SetAddress)
	setText(f.Phone, d.SetPhone)
	setText(f.Email, d.SetEmail)
	setText(f.Website, d.SetWebsite)
	setText(f.GoogleMapsURL, d.SetGoogleMapsURL)
	setText(f.Facebook, d.SetFacebook)
	setText(f.Instagram, d.SetInstagram)
	setText(f.LinkedIn, d.SetLinkedIn)
	setText(f.InternalNotes, d.SetInternalNotes)

	if f.Rating != nil {
		d.SetRating(f.Rating)
	}
	if f.ReviewCount != nil {
		d.SetReviewCount(f.ReviewCount)
	}
	if f.AverageBasket != nil {
		d.SetAverageBasket(f.AverageBasket)
	}
	if f.AIScore != nil {
		d.SetAIScore(f.AIScore)
	}
	if f.Status != nil {
		d.SetStatus(*f.Status)
	}
	if f.Priority != nil {
		d.SetPriority(*f.Priority)
	}
	if f.CommercialID != nil {
		d.SetCommercial(f.CommercialID)
	}
}

type CreateCommerceRequest struct {
	CommerceFields
}

// UpdateCommerceRequest is the PATCH body. ClearCommercial unassigns the
// commerce; id and timestamps are not accepted.
type UpdateCommerceRequest struct {
	CommerceFields
	ClearCommercial bool `json:"clearCommercial"`
}

func (r UpdateCommerceRequest) ApplyTo(d *service.Draft) {
	r.CommerceFields.ApplyTo(d)
	if r.ClearCommercial {
		d.SetCommercial(nil)
	}
}

type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type CommerceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Type          *string         `json:"type"`
	Address       *string         `json:"address"`
	Phone         *string         `json:"phone"`
	Email         *string         `json:"email"`
	Website       *string         `json:"website"`
	GoogleMapsURL *string         `json:"googleMapsUrl"`
	Facebook      *string         `json:"facebook"`
	Instagram     *string         `json:"instagram"`
	LinkedIn      *string         `json:"linkedin"`
	Rating        *float64        `json:"rating"`
	ReviewCount   *int            `json:"reviewCount"`
	AverageBasket *float64        `json:"averageBasket"`
	AIScore       *float64        `json:"aiScore"`
	Status        domain.Status   `json:"status"`
	StatusCode    string          `json:"statusCode"`
	Priority      domain.Priority `json:"priority"`
	CommercialID  *uuid.UUID      `json:"commercialId"`
	Commercial    *OwnerResponse  `json:"commercial,omitempty"`
	InternalNotes *string         `json:"internalNotes"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CommerceListResponse struct {
	Items    []CommerceResponse `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func ToCommerceResponse(c domain.Commerce) CommerceResponse {
	resp := CommerceResponse{
		ID:            c.ID,
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
		StatusCode:    c.Status.Code(),
		Priority:      c.Priority,
		CommercialID:  c.CommercialID,
		InternalNotes: c.InternalNotes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Commercial != nil {
		resp.Commercial = &OwnerResponse{ID: c.Commercial.ID, FirstName: c.Commercial.FirstName, LastName: c.Commercial.LastName}
	}
	return resp
}

func ToCommerceList(items []domain.Commerce) []CommerceResponse {
	out := make([]CommerceResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToCommerceResponse(c))
	}
	return out
}

func ToCommerceListResponse(result domain.ListResult) CommerceListResponse {
	return CommerceListResponse{
		Items:    ToCommerceList(result.Items),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}
}
