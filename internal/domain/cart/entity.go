// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
)

// MaxLineQuantity caps the units held on one cart line
const MaxLineQuantity = 999

// Line pairs a product reference with a positive quantity
type Line struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Totals are derived from the cart and the live catalog
type Totals struct {
	DistinctItems int             `json:"distinct_items"`
	TotalItems    int             `json:"total_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Item is a cart line resolved against the catalog for rendering
type Item struct {
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is everything a page needs to render the cart
type View struct {
	Items     []Item    `json:"items"`
	Totals    Totals    `json:"totals"`
	Orphans   []uint    `json:"orphans,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
