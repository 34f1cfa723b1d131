package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samukadias/contract-management-system/analytics"
	"github.com/samukadias/contract-management-system/middleware"
	"github.com/samukadias/contract-management-system/model"
	"github.com/samukadias/contract-management-system/pkg/logger"
	"github.com/samukadias/contract-management-system/service"
)

// AnalysisHandler serves the derived portfolio views: dashboard
// counters, financial health, client rankings and expiry buckets.
// CLIENTE accounts get every view computed over their own contracts.
type AnalysisHandler struct {
	store *service.ContractStore
}

func NewAnalysisHandler(store *service.ContractStore) *AnalysisHandler {
	return &AnalysisHandler{store: store}
}

func (h *AnalysisHandler) scopedList(c *gin.Context) ([]model.Contract, error) {
	if middleware.GetPerfil(c) == model.PerfilCliente {
		return h.store.ListByCliente(c.Request.Context(), middleware.GetNomeCliente(c))
	}
	return h.store.List(c.Request.Context())
}

func limitParam(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fallback
	}
	return limit
}

// Dashboard returns the top-level counters and the financial summary
func (h *AnalysisHandler) Dashboard(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to build dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     analytics.BuildDashboard(contracts, time.Now()),
		"financial": analytics.Summarize(contracts),
	})
}

// Health returns the portfolio health report
func (h *AnalysisHandler) Health(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to build health report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build health report"})
		return
	}

	c.JSON(http.StatusOK, analytics.BuildHealth(contracts, time.Now()))
}

// Clients returns the client ranking by total contract value.
// ?limit=N caps the ranking; the default shows the top 5.
func (h *AnalysisHandler) Clients(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to rank clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank clients"})
		return
	}

	limit := limitParam(c, 5)
	c.JSON(http.StatusOK, gin.H{
		"clients": analytics.TopClients(contracts, limit),
		"limit":   limit,
	})
}

// Profitability returns the per-client profitability ranking.
// ?limit=N caps the ranking; the default shows the top 8.
func (h *AnalysisHandler) Profitability(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to rank profitability", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank profitability"})
		return
	}

	limit := limitParam(c, 8)
	c.JSON(http.StatusOK, gin.H{
		"clients": analytics.ProfitabilityByClient(contracts, limit),
		"limit":   limit,
	})
}

// Expiry returns active contracts grouped into urgency buckets
func (h *AnalysisHandler) Expiry(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to bucket contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bucket contracts"})
		return
	}

	c.JSON(http.StatusOK, analytics.BucketByExpiry(contracts, time.Now()))
}

// StageControl returns the active negotiations that have a stage
// progression, enriched with the expected stage and conformance flag
func (h *AnalysisHandler) StageControl(c *gin.Context) {
	contracts, err := h.scopedList(c)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to build stage control", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build stage control"})
		return
	}

	now := time.Now()
	var tracked []analytics.EnrichedContract
	late := 0
	for _, ct := range contracts {
		if !ct.IsActive() || !analytics.HasStageTable(ct.TipoTratativa) {
			continue
		}
		e := analytics.Enrich(ct, now)
		if e.OnTime != nil && !*e.OnTime {
			late++
		}
		tracked = append(tracked, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": tracked,
		"total":     len(tracked),
		"late":      late,
	})
}
