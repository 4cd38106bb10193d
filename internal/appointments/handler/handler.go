package handler

import (
	"net/http"

	"prospectmap_backend/internal/appointments/service"
	"prospectmap_backend/internal/appointments/transport"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "requête invalide"
	msgValidationFailed = "validation échouée"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the appointment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/appointments
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.List(c.Request.Context(), identity, req.Filter())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAppointmentListResponse(items))
}

// GetByID handles GET /api/v1/appointments/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAppointmentResponse(appt))
}

// Create handles POST /api/v1/appointments
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	draft := service.NewDraft()
	req.ApplyTo(draft)
	appt, err := h.svc.Submit(c.Request.Context(), identity, draft)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToAppointmentResponse(appt))
}

// Update handles PATCH /api/v1/appointments/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	existing, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	draft := service.EditDraft(existing)
	req.ApplyTo(draft)
	appt, err := h.svc.Submit(c.Request.Context(), identity, draft)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToAppointmentResponse(appt))
}

// Delete handles DELETE /api/v1/appointments/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), identity, id)) {
		return
	}
	httpkit.NoContent(c)
}
