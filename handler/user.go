package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler manages application accounts. Routes using it are gated
// to the GESTOR perfil.
type UserHandler struct {
	users *service.UserStore
}

func NewUserHandler(users *service.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
	Perfil      string `json:"perfil" binding:"required"`
	NomeCliente string `json:"nome_cliente"`
}

type UpdateUserRequest struct {
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Perfil      string `json:"perfil"`
	NomeCliente string `json:"nome_cliente"`
}

// List returns all accounts
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Create registers a new account. CLIENTE accounts must name the
// client they are scoped to; other perfis must not.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !model.ValidPerfil(req.Perfil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perfil"})
		return
	}
	if req.Perfil == model.PerfilCliente && strings.TrimSpace(req.NomeCliente) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome_cliente is required for CLIENTE accounts"})
		return
	}
	if req.Perfil != model.PerfilCliente {
		req.NomeCliente = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Perfil:       req.Perfil,
		NomeCliente:  strings.TrimSpace(req.NomeCliente),
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		logger.Error(c.Request.Context(), "failed to create user", "error", err, "email", user.Email)
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	logger.Info(c.Request.Context(), "user created",
		"email", user.Email, "perfil", user.Perfil, "by", middleware.GetEmail(c))

	c.JSON(http.StatusCreated, user)
}

// Update changes an existing account. Empty fields are left untouched.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	user, err := h.users.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Perfil != "" {
		if !model.ValidPerfil(req.Perfil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perfil"})
			return
		}
		user.Perfil = req.Perfil
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.NomeCliente != "" {
		user.NomeCliente = strings.TrimSpace(req.NomeCliente)
	}
	if user.Perfil == model.PerfilCliente && user.NomeCliente == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome_cliente is required for CLIENTE accounts"})
		return
	}
	if user.Perfil != model.PerfilCliente {
		user.NomeCliente = ""
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error(c.Request.Context(), "failed to hash password", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		logger.Error(c.Request.Context(), "failed to update user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes an account. Users cannot remove themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if id == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	err := h.users.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
