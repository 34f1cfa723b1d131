package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
)

// ArchiveHandler manages the archived CSV artifacts left behind by
// imports and exports. Gestor only; object names come as a query
// parameter because they contain path separators.
type ArchiveHandler struct {
	storage *service.ObjectStorage // nil when archiving is disabled
}

func NewArchiveHandler(storage *service.ObjectStorage) *ArchiveHandler {
	return &ArchiveHandler{storage: storage}
}

func (h *ArchiveHandler) available(c *gin.Context) bool {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "CSV archiving is not configured"})
		return false
	}
	return true
}

// List returns the archived artifacts, optionally restricted to a
// prefix ("imports/" or "exports/")
func (h *ArchiveHandler) List(c *gin.Context) {
	if !h.available(c) {
		return
	}

	archives, err := h.storage.ListArchives(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list archives", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list archives"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archives": archives,
		"total":    len(archives),
	})
}

// DownloadURL returns a time-limited download link for one artifact
func (h *ArchiveHandler) DownloadURL(c *gin.Context) {
	if !h.available(c) {
		return
	}

	objectName := c.Query("object")
	if objectName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object parameter is required"})
		return
	}

	url, err := h.storage.PresignedURL(c.Request.Context(), objectName)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate download URL",
			"error", err, "object", objectName)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"object": objectName, "url": url})
}

// Delete removes an archived artifact
func (h *ArchiveHandler) Delete(c *gin.Context) {
	if !h.available(c) {
		return
	}

	objectName := c.Query("object")
	if objectName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object parameter is required"})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), objectName); err != nil {
		logger.Error(c.Request.Context(), "failed to delete archive",
			"error", err, "object", objectName)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete archive"})
		return
	}

	logger.Info(c.Request.Context(), "archive deleted", "object", objectName)

	c.JSON(http.StatusOK, gin.H{"message": "Archive deleted"})
}
