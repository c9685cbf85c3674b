// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/checkout"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// GetShippingMethods handles GET /checkout/shipping-methods
func (h *CheckoutHandler) GetShippingMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping methods retrieved successfully",
		"data":    h.checkoutService.GetShippingMethods(),
	})
}

// Quote handles POST /checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req checkout.QuoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to calculate quote")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote calculated successfully",
		"data":    quote,
	})
}

// PlaceOrder handles POST /checkout/orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.checkoutService.PlaceOrder(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}

// GetLastOrder handles GET /checkout/last-order
func (h *CheckoutHandler) GetLastOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	o, err := h.checkoutService.LastOrder(c.Request.Context(), sid)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve last order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Last order retrieved successfully",
		"data":    o,
	})
}
