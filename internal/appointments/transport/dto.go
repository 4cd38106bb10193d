package transport

import (
	"strings"
	"time"

	"prospectmap_backend/internal/analytics"
	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/appointments/service"

	"github.com/google/uuid"
)

// ListAppointmentsRequest is the query string of the list and export endpoints.
type ListAppointmentsRequest struct {
	From         string `form:"from" validate:"omitempty,isodate"`
	To           string `form:"to" validate:"omitempty,isodate"`
	Status       string `form:"status" validate:"omitempty,appointment_status"`
	CommercialID string `form:"commercialId" validate:"omitempty,uuid"`
	CommerceID   string `form:"commerceId" validate:"omitempty,uuid"`
}

func (r ListAppointmentsRequest) Filter() domain.Filter {
	f := domain.Filter{From: r.From, To: r.To}
	if r.Status != "" {
		if s, err := domain.ParseStatus(r.Status); err == nil {
			f.Status = &s
		}
	}
	if id, err := uuid.Parse(r.CommercialID); err == nil {
		f.CommercialID = &id
	}
	if id, err := uuid.Parse(r.CommerceID); err == nil {
		f.CommerceID = &id
	}
	return f
}

// AppointmentFields lists every writable field. Absent fields are left
// untouched; blank location or notes clears them.
type AppointmentFields struct {
	CommerceID      *uuid.UUID     `json:"commerceId"`
	CommercialID    *uuid.UUID     `json:"commercialId"`
	Date            *string        `json:"date" validate:"omitempty,isodate"`
	Time            *string        `json:"time" validate:"omitempty,hhmm"`
	DurationMinutes *int           `json:"durationMinutes" validate:"omitempty,min=5,max=600"`
	Type            *domain.Type   `json:"type" validate:"omitempty,appointment_type"`
	Location        *string        `json:"location" validate:"omitempty,max=500"`
	Status          *domain.Status `json:"status" validate:"omitempty,appointment_status"`
	Notes           *string        `json:"notes" validate:"omitempty,max=5000"`
}

func optional(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// ApplyTo copies the present fields onto the draft.
func (f AppointmentFields) ApplyTo(d *service.Draft) {
	if f.CommerceID != nil {
		d.SetCommerce(*f.CommerceID)
	}
	if f.CommercialID != nil {
		d.SetCommercial(f.CommercialID)
	}
	if f.Date != nil {
		d.SetDate(strings.TrimSpace(*f.Date))
	}
	if f.Time != nil {
		d.SetTime(strings.TrimSpace(*f.Time))
	}
	if f.DurationMinutes != nil {
		d.SetDuration(*f.DurationMinutes)
	}
	if f.Type != nil {
		d.SetType(*f.Type)
	}
	if f.Status != nil {
		d.SetStatus(*f.Status)
	}
	if f.Location != nil {
		d.SetLocation(optional(f.Location))
	}
	if f.Notes != nil {
		d.SetNotes(optional(f.Notes))
	}
}

type CreateAppointmentRequest struct {
	AppointmentFields
}

// UpdateAppointmentRequest is the PATCH body. ClearCommercial unassigns the
// appointment.
type UpdateAppointmentRequest struct {
	AppointmentFields
	ClearCommercial bool `json:"clearCommercial"`
}

func (r UpdateAppointmentRequest) ApplyTo(d *service.Draft) {
	r.AppointmentFields.ApplyTo(d)
	if r.ClearCommercial {
		d.SetCommercial(nil)
	}
}

type CommerceSummaryResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address *string   `json:"address"`
	Phone   *string   `json:"phone"`
}

type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// AppointmentResponse is the response body for an appointment
type AppointmentResponse struct {
	ID              uuid.UUID                `json:"id"`
	CommerceID      uuid.UUID                `json:"commerceId"`
	CommercialID    *uuid.UUID               `json:"commercialId"`
	Date            string                   `json:"date"`
	Time            string                   `json:"time"`
	DurationMinutes int                      `json:"durationMinutes"`
	Type            domain.Type              `json:"type"`
	TypeLabel       string                   `json:"typeLabel"`
	Location        *string                  `json:"location"`
	Status          domain.Status            `json:"status"`
	StatusLabel     string                   `json:"statusLabel"`
	Notes           *string                  `json:"notes"`
	ReminderSent    bool                     `json:"reminderSent"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
	Commerce        *CommerceSummaryResponse `json:"commerce,omitempty"`
	Commercial      *OwnerResponse           `json:"commercial,omitempty"`
}

type AppointmentGroupResponse struct {
	Date  string                `json:"date"`
	Items []AppointmentResponse `json:"items"`
}

// AppointmentListResponse carries the flat list and the per-day groups.
type AppointmentListResponse struct {
	Items  []AppointmentResponse      `json:"items"`
	Groups []AppointmentGroupResponse `json:"groups"`
}

func ToAppointmentResponse(a domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID,
		CommerceID:      a.CommerceID,
		CommercialID:    a.CommercialID,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Type:            a.Type,
		TypeLabel:       a.Type.Label(),
		Location:        a.Location,
		Status:          a.Status,
		StatusLabel:     a.Status.Label(),
		Notes:           a.Notes,
		ReminderSent:    a.ReminderSent,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Commerce != nil {
		resp.Commerce = &CommerceSummaryResponse{ID: a.Commerce.ID, Name: a.Commerce.Name, Address: a.Commerce.Address, Phone: a.Commerce.Phone}
	}
	if a.Commercial != nil {
		resp.Commercial = &OwnerResponse{
			ID:        a.Commercial.ID,
			FirstName: a.Commercial.FirstName,
			LastName:  a.Commercial.LastName,
			Email:     a.Commercial.Email,
		}
	}
	return resp
}

func ToAppointmentList(items []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToAppointmentResponse(a))
	}
	return out
}

func ToAppointmentListResponse(items []domain.Appointment) AppointmentListResponse {
	groups := analytics.GroupByDate(items)
	resp := AppointmentListResponse{
		Items:  ToAppointmentList(items),
		Groups: make([]AppointmentGroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, AppointmentGroupResponse{Date: g.Date, Items: ToAppointmentList(g.Items)})
	}
	return resp
}
