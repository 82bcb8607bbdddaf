package handler

import (
	"context"
	"net/http"
	"time"

	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type HiveHandler struct {
	svc service.HiveService
}

func NewHiveHandler(svc service.HiveService) *HiveHandler {
	return &HiveHandler{svc: svc}
}

func (h *HiveHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/buzzes", h.ListBuzzes)
}

// ListBuzzes returns every active premium expert's registered want.
func (h *HiveHandler) ListBuzzes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	buzzes, err := h.svc.ListBuzzes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.HiveResponse{
		Buzzes: buzzes,
		Total:  len(buzzes),
	})
}
