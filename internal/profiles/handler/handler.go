package handler

import (
	"net/http"

	"prospectmap_backend/internal/profiles/service"
	"prospectmap_backend/internal/profiles/transport"
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

func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.GetMe(c.Request.Context(), identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileResponse(profile))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req transport.UpdateMeRequest
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

	profile, err := h.svc.UpdateMe(c.Request.Context(), identity, req.ToDomain())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileResponse(profile))
}

func (h *Handler) ListActive(c *gin.Context) {
	profiles, err := h.svc.ListActive(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileListResponse(profiles))
}

func (h *Handler) ListAll(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profiles, err := h.svc.ListAll(c.Request.Context(), identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileListResponse(profiles))
}

func (h *Handler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.ToggleActive(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileResponse(profile))
}
