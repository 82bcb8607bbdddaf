package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/service"
	"bookdocker/internal/payment"

	"github.com/gin-gonic/gin"
)

const (
	premiumPrice    = "9.99"
	premiumCurrency = "EUR"
)

// BillingHandler runs the premium upgrade flow: create a PayPal order,
// then capture it and flip the caller's tier only after the capture
// reports COMPLETED.
type BillingHandler struct {
	payments payment.Verifier
	experts  service.ExpertService
}

func NewBillingHandler(payments payment.Verifier, experts service.ExpertService) *BillingHandler {
	return &BillingHandler{payments: payments, experts: experts}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.CreateOrder)
	rg.POST("/orders/capture", h.CaptureOrder)
}

func (h *BillingHandler) CreateOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	orderID, err := h.payments.CreateOrder(ctx, premiumPrice, premiumCurrency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not create payment order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

func (h *BillingHandler) CaptureOrder(c *gin.Context) {
	var req dto.CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expertID := c.GetString("expert_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.payments.CaptureOrder(ctx, req.OrderID); err != nil {
		if errors.Is(err, payment.ErrPaymentNotCompleted) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment capture failed"})
		return
	}

	if err := h.experts.UpgradeToPremium(ctx, expertID); err != nil {
		// Payment went through but the tier flip failed. Surface it loudly;
		// support has the order ID to reconcile.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "payment captured but account upgrade failed, contact support",
			"order_id": req.OrderID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account upgraded to premium"})
}
