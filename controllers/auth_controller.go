package controllers

import (
	"net/http"

	apperrors "food-shop/errors"
	"food-shop/middleware"
	"food-shop/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// registerRequest is the wire shape for both registration flows. Exactly one
// of password or tg_id must be set; the pair is mapped to the matching
// Registration variant before it reaches the service.
type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	TgID     string `json:"tg_id"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register signs up a user via web password or Telegram identity
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration data"})
		return
	}

	var reg services.Registration
	switch {
	case req.Password != "" && req.TgID == "":
		reg = services.WebRegistration{Email: req.Email, Password: req.Password}
	case req.TgID != "" && req.Password == "":
		reg = services.TelegramRegistration{Email: req.Email, TgID: req.TgID}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either a password or a tg_id"})
		return
	}

	pair, appErr := ac.authService.Register(c, reg)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	if pair == nil {
		c.JSON(http.StatusCreated, gin.H{"message": "User is registered"})
		return
	}
	c.JSON(http.StatusCreated, pair)
}

// Login authenticates a web user
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	pair, appErr := ac.authService.Login(c, req.Email, req.Password)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout revokes the caller's refresh tokens
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if appErr := ac.authService.Logout(c, userID); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Refresh rotates an access/refresh token pair
func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrInvalidToken)
		return
	}

	pair, appErr := ac.authService.Refresh(c, req.RefreshToken)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, pair)
}
