// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	logger          *logrus.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlist.Service, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    h.wishlistService.GetWishlist(c.Request.Context(), sid),
	})
}

// ToggleItem handles POST /wishlist/:id/toggle
func (h *WishlistHandler) ToggleItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	result, err := h.wishlistService.Toggle(c.Request.Context(), sid, productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update wishlist")
		return
	}

	message := "Item removed from wishlist"
	if result.Added {
		message = "Item added to wishlist"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// MoveToCart handles POST /wishlist/:id/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	view, err := h.wishlistService.MoveToCart(c.Request.Context(), sid, productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to move item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item moved to cart successfully",
		"data":    view,
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist cleared successfully",
		"data":    h.wishlistService.ClearWishlist(c.Request.Context(), sid),
	})
}
