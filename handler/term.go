package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
)

// TermHandler manages confirmation-term records
type TermHandler struct {
	store *service.TermoStore
}

func NewTermHandler(store *service.TermoStore) *TermHandler {
	return &TermHandler{store: store}
}

// List returns all terms, newest first
func (h *TermHandler) List(c *gin.Context) {
	termos, err := h.store.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list termos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list termos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"termos": termos, "total": len(termos)})
}

// Get returns a single term
func (h *TermHandler) Get(c *gin.Context) {
	termo, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Termo not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get termo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get termo"})
		return
	}

	c.JSON(http.StatusOK, termo)
}

// Create registers a new term
func (h *TermHandler) Create(c *gin.Context) {
	var termo model.TermoConfirmacao
	if err := c.ShouldBindJSON(&termo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if termo.NumeroTC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numero_tc is required"})
		return
	}

	termo.ID = ""
	termo.CreatedBy = middleware.GetEmail(c)

	if err := h.store.Create(c.Request.Context(), &termo); err != nil {
		logger.Error(c.Request.Context(), "failed to create termo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create termo"})
		return
	}

	logger.Info(c.Request.Context(), "termo created", "id", termo.ID, "numero_tc", termo.NumeroTC)

	c.JSON(http.StatusCreated, termo)
}

// Update replaces the editable fields of a term
func (h *TermHandler) Update(c *gin.Context) {
	termo, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Termo not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get termo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get termo"})
		return
	}

	var req model.TermoConfirmacao
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.NumeroTC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numero_tc is required"})
		return
	}

	// Identity and audit fields survive the update
	req.ID = termo.ID
	req.CreatedAt = termo.CreatedAt
	req.CreatedBy = termo.CreatedBy

	if err := h.store.Update(c.Request.Context(), &req); err != nil {
		logger.Error(c.Request.Context(), "failed to update termo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update termo"})
		return
	}

	c.JSON(http.StatusOK, req)
}

// Delete removes a term
func (h *TermHandler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Termo not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete termo", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete termo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Termo deleted"})
}
