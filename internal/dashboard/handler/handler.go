package handler

import (
	"net/http"

	"prospectmap_backend/internal/dashboard/service"
	"prospectmap_backend/internal/dashboard/transport"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "requête invalide"
	msgValidationFailed = "validation échouée"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	dashboard, err := h.svc.Dashboard(c.Request.Context(), identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDashboardResponse(dashboard))
}

func (h *Handler) Statistics(c *gin.Context) {
	var req transport.StatisticsRequest
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

	var commercialID *uuid.UUID
	if id, err := uuid.Parse(req.CommercialID); err == nil {
		commercialID = &id
	}
	stats, err := h.svc.Statistics(c.Request.Context(), identity, commercialID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToStatisticsResponse(stats))
}
