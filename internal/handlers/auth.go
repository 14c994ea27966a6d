// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/liebemama/marketplace-backend/internal/i18n"
	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		handleServiceError(c, err, "user")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"user":    user,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"user":    user,
		"tokens":  tokens,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	utils.SuccessResponse(c, gin.H{"tokens": tokens})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	user, err := h.authService.GetProfile(viewer)
	if err != nil {
		handleServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, user)
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(viewer, &req)
	if err != nil {
		handleServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, user)
}
