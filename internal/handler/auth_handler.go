package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.BadRequest(c, "Email already registered")
			return
		}
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Login handles email/password login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Incorrect email or password")
			return
		}
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GoogleLogin redirects the browser to the Google consent page
// GET /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, err := h.authService.GoogleAuthURL(c.Query("state"))
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback finishes the OAuth handshake and redirects to the
// frontend with a one-time session token in the URL fragment.
// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "Missing authorization code")
		return
	}

	redirect, err := h.authService.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrGoogleDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "Google login is not configured")
			return
		}
		response.Unauthorized(c, "Google authentication failed")
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// GoogleSession exchanges a one-time session token for an access token
// POST /api/auth/google/session
func (h *AuthHandler) GoogleSession(c *gin.Context) {
	var req dto.GoogleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.ExchangeGoogleSession(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Unauthorized(c, "Session expired or invalid")
			return
		}
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout acknowledges logout. Tokens are stateless, the client just
// discards its copy.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Message(c, "Logged out")
}
