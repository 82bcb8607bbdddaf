package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler backs the admin panel. Every route behind it requires the
// admin role; route registration wires the RequireAdmin middleware.
type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/experts", h.ListExperts)
	rg.PUT("/experts/status", h.SetStatus)
	rg.PUT("/experts/tier", h.SetTier)
	rg.DELETE("/experts", h.DeleteExperts)
	rg.POST("/insights", h.Insights)
	rg.POST("/moderation/scan", h.ModerationScan)
}

func (h *AdminHandler) ListExperts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	experts, err := h.svc.ListExperts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"experts": experts, "total": len(experts)})
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.SetStatus(ctx, req.ExpertIDs, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *AdminHandler) SetTier(c *gin.Context) {
	var req dto.SetTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.SetTier(ctx, req.ExpertIDs, req.Tier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tier updated"})
}

func (h *AdminHandler) DeleteExperts(c *gin.Context) {
	var req dto.DeleteExpertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.svc.DeleteExperts(ctx, req.ExpertIDs); err != nil {
		if errors.Is(err, service.ErrNoDeletableExperts) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "experts deleted"})
}

// Insights answers a free-form admin question over the live roster.
func (h *AdminHandler) Insights(c *gin.Context) {
	var req dto.InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	answer, err := h.svc.Insights(ctx, req.Question)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "insights are currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// ModerationScan runs the guideline check over all bios and spotlights.
func (h *AdminHandler) ModerationScan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
	defer cancel()

	alerts, err := h.svc.ModerationScan(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "moderation scan failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}
