package handler

import (
	"net/http"
	"time"

	"prospectmap_backend/internal/auth/service"
	"prospectmap_backend/internal/auth/transport"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	cfg config.CookieConfig
	val *validator.Validator
}

const (
	msgInvalidRequest   = "requête invalide"
	msgValidationFailed = "validation échouée"
	msgSessionMissing   = "session invalide"
)

func New(svc *service.Service, cfg config.CookieConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sign-up", h.SignUp)
	rg.POST("/sign-in", h.SignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/sign-out", h.SignOut)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	tokens, err := h.svc.SignUp(c.Request.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.JSON(c, http.StatusCreated, transport.AuthResponse{AccessToken: tokens.AccessToken})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	tokens, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, transport.AuthResponse{AccessToken: tokens.AccessToken})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName())
	if err != nil || refreshToken == "" {
		httpkit.Error(c, http.StatusUnauthorized, msgSessionMissing, nil)
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		httpkit.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	httpkit.OK(c, transport.AuthResponse{AccessToken: tokens.AccessToken})
}

func (h *Handler) SignOut(c *gin.Context) {
	if refreshToken, err := c.Cookie(h.cfg.GetRefreshCookieName()); err == nil && refreshToken != "" {
		if httpkit.HandleError(c, h.svc.SignOut(c.Request.Context(), refreshToken)) {
			return
		}
	}

	h.clearRefreshCookie(c)
	httpkit.NoContent(c)
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	maxAge := int(h.cfg.GetRefreshTokenTTL() / time.Second)
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		value,
		maxAge,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cfg.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cfg.GetRefreshCookieName(),
		"",
		-1,
		h.cfg.GetRefreshCookiePath(),
		h.cfg.GetRefreshCookieDomain(),
		h.cfg.GetRefreshCookieSecure(),
		true,
	)
}
