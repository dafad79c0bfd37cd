package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"print-timesheet/config"
	"print-timesheet/internal/api/middleware"
	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api"
)

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
	cfg     config.AuthConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cfg: cfg}
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result)
	response.OK(c, result)
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result)
	response.Created(c, result)
}

// Refresh POST /api/refresh. The token comes from the cookie, or from the
// body for clients without cookies.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" && c.Request.ContentLength != 0 {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		response.Unauthorized(c, 11003, "missing refresh token")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result)
	response.OK(c, result)
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp := time.Now().Add(h.cfg.AccessTokenTTL)
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		if t, ok := v.(time.Time); ok {
			exp = t
		}
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	h.clearRefreshCookie(c)
	response.OK(c, nil)
}

// Me GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) sameSite() http.SameSite {
	switch strings.ToLower(h.cfg.Cookie.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// setRefreshCookie moves the refresh token out of the body into an HttpOnly
// cookie.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, result *dto.TokenResponse) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(refreshCookieName, result.RefreshToken, int(h.cfg.RefreshTokenTTL.Seconds()),
		refreshCookiePath, h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
	result.RefreshToken = ""
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid username or password")
	case errors.Is(err, service.ErrRegistrationDisabled):
		response.Forbidden(c, 11002, "self-registration is disabled")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		h.clearRefreshCookie(c)
		response.Unauthorized(c, 11003, "invalid or expired refresh token")
	case errors.Is(err, service.ErrUsernameTaken):
		response.BadRequest(c, 11004, "username is already taken")
	case errors.Is(err, service.ErrPasswordTooLong):
		response.BadRequest(c, 11006, err.Error())
	case errors.Is(err, service.ErrEmployeeNameTaken):
		response.BadRequest(c, 12002, "an employee with this name already exists")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11005, "user not found")
	default:
		handleCommonError(c, err)
	}
}
