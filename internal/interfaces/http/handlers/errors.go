// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/checkout"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
	"github.com/your-org/sithaphal-storefront/internal/domain/wishlist"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/middleware"
)

// respondError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 with the fallback message.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var validation payment.ValidationErrors

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid checkout details",
			"details": validation,
		})
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, wishlist.ErrNotInWishlist),
		errors.Is(err, checkout.ErrNoLastOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidShippingMethod),
		errors.Is(err, checkout.ErrInvalidPromoCode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// productIDParam parses the :id path parameter
func productIDParam(c *gin.Context) (uint, bool) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || productID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return uint(productID), true
}

// sessionID reads the guest session resolved by middleware.Session
func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session required",
		})
		return "", false
	}
	return id, true
}
