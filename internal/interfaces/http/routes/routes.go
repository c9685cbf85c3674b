// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/handlers"
)

// Handlers bundles every handler the API serves
type Handlers struct {
	Products *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
	Checkout *handlers.CheckoutHandler
	Receipts *handlers.ReceiptHandler
}

// SetupRoutes mounts all API v1 routes. session resolves the guest session for
// every route that reads or writes per-session state.
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, session gin.HandlerFunc) {
	SetupProductRoutes(rg, h.Products)

	sessioned := rg.Group("")
	sessioned.Use(session)
	{
		SetupCartRoutes(sessioned, h.Cart)
		SetupWishlistRoutes(sessioned, h.Wishlist)
		SetupCheckoutRoutes(sessioned, h.Checkout, h.Receipts)
	}
}

// SetupProductRoutes sets up catalog and filter routes
func SetupProductRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/filters", productHandler.GetFilters)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/prune", cartHandler.PruneCart)

		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.POST("/items/:id/increment", cartHandler.IncrementItem)
		cart.POST("/items/:id/decrement", cartHandler.DecrementItem)
	}
}

// SetupWishlistRoutes sets up wishlist related routes
func SetupWishlistRoutes(rg *gin.RouterGroup, wishlistHandler *handlers.WishlistHandler) {
	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.DELETE("", wishlistHandler.ClearWishlist)
		wishlist.POST("/:id/toggle", wishlistHandler.ToggleItem)
		wishlist.POST("/:id/move-to-cart", wishlistHandler.MoveToCart)
	}
}

// SetupCheckoutRoutes sets up checkout, order and receipt routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, receiptHandler *handlers.ReceiptHandler) {
	checkout := rg.Group("/checkout")
	{
		checkout.GET("/shipping-methods", checkoutHandler.GetShippingMethods)
		checkout.POST("/quote", checkoutHandler.Quote)
		checkout.POST("/orders", checkoutHandler.PlaceOrder)
		checkout.GET("/last-order", checkoutHandler.GetLastOrder)
		checkout.GET("/last-order/receipt", receiptHandler.GetReceipt)
	}
}
