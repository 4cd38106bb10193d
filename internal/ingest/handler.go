package ingest

import (
	"net/http"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxBatchSize matches the largest result count a search can ask for, with headroom.
const maxBatchSize = 200

// CommerceItem is one scraped establishment.
type CommerceItem struct {
	Name          string     `json:"name" validate:"max=200"`
	Type          *string    `json:"type" validate:"omitempty,max=100"`
	Address       *string    `json:"address" validate:"omitempty,max=500"`
	Phone         *string    `json:"phone" validate:"omitempty,max=40"`
	Email         *string    `json:"email" validate:"omitempty,max=200"`
	Website       *string    `json:"website" validate:"omitempty,max=500"`
	GoogleMapsURL *string    `json:"googleMapsUrl" validate:"omitempty,max=1000"`
	Facebook      *string    `json:"facebook" validate:"omitempty,max=500"`
	Instagram     *string    `json:"instagram" validate:"omitempty,max=500"`
	LinkedIn      *string    `json:"linkedin" validate:"omitempty,max=500"`
	Rating        *float64   `json:"rating" validate:"omitempty,min=0,max=5"`
	ReviewCount   *int       `json:"reviewCount" validate:"omitempty,min=0"`
	AIScore       *float64   `json:"aiScore" validate:"omitempty,min=0,max=100"`
	OwnerID       *uuid.UUID `json:"ownerId"`
}

// IngestRequest is the body of POST /ingest/commerces. Items are validated
// one by one by the service so a bad item never rejects the batch.
type IngestRequest struct {
	Commerces []CommerceItem `json:"commerces" validate:"required,min=1,max=200"`
}

func (i CommerceItem) input() domain.Input {
	return domain.Input{
		Name:          i.Name,
		Type:          i.Type,
		Address:       i.Address,
		Phone:         i.Phone,
		Email:         i.Email,
		Website:       i.Website,
		GoogleMapsURL: i.GoogleMapsURL,
		Facebook:      i.Facebook,
		Instagram:     i.Instagram,
		LinkedIn:      i.LinkedIn,
		Rating:        i.Rating,
		ReviewCount:   i.ReviewCount,
		AIScore:       i.AIScore,
		CommercialID:  i.OwnerID,
	}
}

type Handler struct {
	service *Service
	val     *validator.Validator
}

func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// HandleIngestCommerces stores a batch pushed by the search automation.
func (h *Handler) HandleIngestCommerces(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "requête invalide", nil)
		return
	}
	if len(req.Commerces) > maxBatchSize {
		httpkit.Error(c, http.StatusRequestEntityTooLarge, "lot trop volumineux", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation échouée", validator.FieldErrors(err))
		return
	}

	res, err := h.service.IngestBatch(c.Request.Context(), req.Commerces)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}
