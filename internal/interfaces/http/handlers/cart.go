// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartService.GetCart(c.Request.Context(), sid),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": h.cartService.GetCartItemCount(c.Request.Context(), sid),
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cartService.AddToCart(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    view,
	})
}

// IncrementItem handles POST /cart/items/:id/increment
func (h *CartHandler) IncrementItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	view, err := h.cartService.IncrementQuantity(c.Request.Context(), sid, productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    view,
	})
}

// DecrementItem handles POST /cart/items/:id/decrement
func (h *CartHandler) DecrementItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartService.DecrementQuantity(c.Request.Context(), sid, productID),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cartService.UpdateCartItem(c.Request.Context(), sid, productID, *req.Quantity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    view,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.cartService.RemoveFromCart(c.Request.Context(), sid, productID),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.cartService.ClearCart(c.Request.Context(), sid),
	})
}

// PruneCart handles POST /cart/prune
func (h *CartHandler) PruneCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	view, removed := h.cartService.PruneCart(c.Request.Context(), sid)
	if removed == nil {
		removed = []uint{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart pruned successfully",
		"data": gin.H{
			"cart":    view,
			"removed": removed,
		},
	})
}
