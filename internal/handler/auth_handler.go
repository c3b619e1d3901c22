package handler

import (
	"net/http"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/middleware"
	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/codelens-edu/codelens-gateway/internal/service"
	"github.com/codelens-edu/codelens-gateway/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler owns the browser-facing authentication endpoints. It is the
// only handler that sets or clears the session cookie.
type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// Login godoc
// POST /auth/login
// Exchanges credentials for a session cookie and the caller's landing route.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if service.IsCredentialRejection(err) {
			response.FailWithMessage(c, http.StatusUnauthorized, response.ErrInvalidCredentials, err.Error())
			return
		}
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrUpstreamUnavailable, err.Error())
		return
	}

	h.setSessionCookie(c, result.Cookie, int(h.cfg.SessionTTL.Seconds()))
	response.Success(c, http.StatusOK, gin.H{
		"user":        result.Session.User,
		"redirect_to": result.RedirectTo,
	})
}

// Register godoc
// POST /auth/register
// Creates a student account upstream. Never yields a session; the browser
// navigates to the login screen afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.FullName, req.Email, req.Password); err != nil {
		if service.IsCredentialRejection(err) {
			response.FailWithMessage(c, http.StatusConflict, response.ErrRegistrationFailed, err.Error())
			return
		}
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrUpstreamUnavailable, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"redirect_to": roles.RouteLogin})
}

// Logout godoc
// POST /auth/logout
// Clears the stored session and expires the cookie. Always succeeds from the
// browser's point of view, even when no session exists.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.SessionCookieName); err == nil {
		if sess, err := h.auth.Authenticate(c.Request.Context(), cookie); err == nil {
			h.auth.Logout(c.Request.Context(), sess.ID)
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"redirect_to": roles.RouteLogin})
}

// Me godoc
// GET /auth/me
// Returns the authenticated identity, its navigation entries and landing
// route. Mounted behind the guard with no role restriction.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)

	response.Success(c, http.StatusOK, gin.H{
		"user":          sess.User,
		"nav":           roles.NavLinks(sess.User),
		"primary_route": roles.PrimaryRoute(sess.User),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, value, maxAge, "/", "", h.cfg.CookieSecure, true)
}
