package handler

import (
	"net/http"
	"time"

	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/service"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, result)
	utils.SuccessResponse(c, result)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, result)
	utils.SuccessResponse(c, result)
}

// Refresh rotates the refresh token from the cookie and issues a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	// a missing cookie and an empty one are the same to the service
	refreshToken, _ := c.Cookie(refreshCookie)

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, result)
	utils.SuccessResponse(c, result)
}

// Logout revokes the refresh token and expires the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookie)

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err)
		return
	}

	clearRefreshCookie(c)
	utils.SuccessResponse(c, gin.H{"success": true, "message": "Logged out successfully"})
}

// ValidateToken checks the bearer token and returns its owner
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required. Use: Bearer <token>")
		return
	}

	info, err := h.authService.ValidateAccessToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// ListUsers returns every registered user
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, users)
}

// setRefreshCookie delivers the refresh token as an HttpOnly cross-site cookie expiring with the token
func setRefreshCookie(c *gin.Context, result *service.AuthResult) {
	maxAge := int(time.Until(result.RefreshTokenExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookie, result.RefreshToken, maxAge, "/", "", true, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", true, true)
}
