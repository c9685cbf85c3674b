// internal/domain/checkout/entity.go
package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidShippingMethod = errors.New("invalid shipping method")
	ErrInvalidPromoCode      = errors.New("invalid promo code")
	ErrNoLastOrder           = errors.New("no order placed in this session")
)

// DefaultShippingMethod is used when a request names none
const DefaultShippingMethod = "standard"

// ShippingMethod represents a shipping option
type ShippingMethod struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays string          `json:"estimated_days"`
}

// DiscountType is how a promo code reduces the subtotal
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// PromoCode is a redeemable discount
type PromoCode struct {
	Code  string          `json:"code"`
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

var promoCodes = map[string]PromoCode{
	"SITHAPHAL10": {Code: "SITHAPHAL10", Type: DiscountPercentage, Value: decimal.RequireFromString("0.10")},
	"WELCOME5":    {Code: "WELCOME5", Type: DiscountFixedAmount, Value: decimal.NewFromInt(5)},
}

// Notifier is told about every order that was charged and recorded
type Notifier interface {
	OrderConfirmed(ctx context.Context, o *order.Order) error
}

// QuoteRequest represents a pricing request for the session's cart
type QuoteRequest struct {
	ShippingMethod string `json:"shipping_method"`
	PromoCode      string `json:"promo_code"`
}

// Quote is the priced checkout summary
type Quote struct {
	Items          []cart.Item     `json:"items"`
	ItemCount      int             `json:"item_count"`
	ShippingMethod ShippingMethod  `json:"shipping_method"`
	PromoCode      string          `json:"promo_code,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
}

// PlaceOrderRequest represents the submitted checkout form
type PlaceOrderRequest struct {
	QuoteRequest
	payment.Details
}
