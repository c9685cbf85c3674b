// internal/interfaces/http/handlers/product.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/filter"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	catalog    *catalog.Catalog
	defaultMax *decimal.Decimal
	config     *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(c *catalog.Catalog, cfg *config.Config) (*ProductHandler, error) {
	h := &ProductHandler{catalog: c, config: cfg}

	if raw := cfg.Catalog.DefaultMaxPrice; raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CATALOG_DEFAULT_MAX_PRICE %q: %w", raw, err)
		}
		h.defaultMax = &max
	}

	return h, nil
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	state := filter.ParseQuery(c.Request.URL.Query(), h.defaultMax)
	products := filter.Apply(h.catalog.Products(), state)

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": products,
			"total":    len(products),
			"filters":  state,
		},
	})
}

// GetFilters handles GET /products/filters
func (h *ProductHandler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Filters retrieved successfully",
		"data":    filter.FacetsOf(h.catalog),
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	p, found := h.catalog.Find(productID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}
