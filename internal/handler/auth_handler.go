package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	auth := router.Group("/auth", limit)
	{
		auth.POST("/email", h.SendCode)
		auth.POST("/token", h.ObtainToken)
	}
}

// SendCode issues a confirmation code to the (username, email) pair.
// POST /api/v1/auth/email
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestCode(c.Request.Context(), req.Username, req.Email); err != nil {
		if errors.Is(err, service.ErrPairTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send confirmation code"})
		return
	}

	c.JSON(http.StatusOK, dto.EmailResponse{Username: req.Username, Email: req.Email})
}

// ObtainToken exchanges a confirmation code for an access token.
// POST /api/v1/auth/token
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.ObtainToken(c.Request.Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidCode):
			// Deliberately generic: wrong vs expired is not disclosed.
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation code rejected"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
