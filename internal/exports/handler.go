package exports

import (
	"fmt"
	"net/http"

	appttransport "prospectmap_backend/internal/appointments/transport"
	commercetransport "prospectmap_backend/internal/commerces/transport"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "requête invalide"
	msgValidationFailed = "validation échouée"
)

// Handler serves the CSV downloads.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new export handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ExportCommerces accepts the same query string as the commerce list.
func (h *Handler) ExportCommerces(c *gin.Context) {
	var req commercetransport.ListCommercesRequest
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

	file, err := h.svc.Commerces(c.Request.Context(), identity, req.Filter())
	if httpkit.HandleError(c, err) {
		return
	}
	writeFile(c, file)
}

// ExportAppointments accepts the same query string as the agenda.
func (h *Handler) ExportAppointments(c *gin.Context) {
	var req appttransport.ListAppointmentsRequest
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

	file, err := h.svc.Appointments(c.Request.Context(), identity, req.Filter())
	if httpkit.HandleError(c, err) {
		return
	}
	writeFile(c, file)
}

func writeFile(c *gin.Context, file File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
