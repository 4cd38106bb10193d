package transport

import (
	"time"

	"prospectmap_backend/internal/profiles/domain"
)

// UpdateMeRequest is the self-service profile patch. Only these fields are writable.
type UpdateMeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

func (r UpdateMeRequest) ToDomain() domain.UpdateMe {
	return domain.UpdateMe{FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"roleLabel"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Total int               `json:"total"`
}

func ToProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Phone:     p.Phone,
		Role:      string(p.Role),
		RoleLabel: p.Role.Label(),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToProfileListResponse(profiles []domain.Profile) ProfileListResponse {
	items := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, ToProfileResponse(p))
	}
	return ProfileListResponse{Items: items, Total: len(items)}
}
