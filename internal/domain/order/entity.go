// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// Order represents the order entity
type Order struct {
	ID            string        `gorm:"primaryKey;type:uuid" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	SessionID     string        `gorm:"index;not null;size:64" json:"-"`
	Email         string        `gorm:"not null;size:255" json:"email"`
	Status        OrderStatus   `gorm:"not null;size:30" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;size:30" json:"payment_status"`
	PaymentMethod string        `gorm:"not null;size:20" json:"payment_method"`
	TransactionID string        `gorm:"size:64" json:"transaction_id"`
	CardBrand     string        `gorm:"size:20" json:"card_brand,omitempty"`
	CardLast4     string        `gorm:"size:4" json:"card_last4,omitempty"`

	// Financial Information
	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Shipping decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Currency string          `gorm:"size:3;not null" json:"currency"`

	PromoCode      string  `gorm:"size:50" json:"promo_code,omitempty"`
	ShippingMethod string  `gorm:"size:20;not null" json:"shipping_method"`
	ShippingAddr   Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a cart line frozen at checkout prices
type OrderItem struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"-"`
	OrderID      string          `gorm:"not null;index;type:uuid" json:"-"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Name         string          `gorm:"not null;size:255" json:"name"`
	Variety      string          `gorm:"size:100" json:"variety"`
	QuantityType string          `gorm:"size:20" json:"quantity_type"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt    time.Time       `json:"-"`
}

// Address represents the shipping address (embedded in Order)
type Address struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:100" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// Business methods for Order

// GenerateOrderNumber builds a number like SP-2026-1A2B3C4D
func GenerateOrderNumber(tag string, at time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", tag, at.Year(), hex[:8])
}

// FullName joins the shipping names
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsPaid checks if payment has been collected
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}
