package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/config"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	config *config.Config
	users  *service.UserStore
}

func NewAuthHandler(cfg *config.Config, users *service.UserStore) *AuthHandler {
	return &AuthHandler{config: cfg, users: users}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Perfil    string `json:"perfil"`
}

// Login authenticates a user by email and password and issues a JWT.
// Unknown emails and wrong passwords get the same answer.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user, &h.config.Auth)
	if err != nil {
		logger.Error(c.Request.Context(), "token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Email:     user.Email,
		FullName:  user.FullName,
		Perfil:    user.Perfil,
	})
}

// GetCurrentUser returns the authenticated user's identity
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":      middleware.GetUserID(c),
		"email":        middleware.GetEmail(c),
		"perfil":       middleware.GetPerfil(c),
		"nome_cliente": middleware.GetNomeCliente(c),
	})
}
