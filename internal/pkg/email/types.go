// internal/pkg/email/types.go
package email

import (
	"context"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// OrderConfirmationData contains data for the order confirmation template
type OrderConfirmationData struct {
	SiteName       string
	CustomerName   string
	OrderNumber    string
	OrderDate      string
	ShippingMethod string
	Items          []OrderItem
	Subtotal       string
	Shipping       string
	Tax            string
	Discount       string
	Total          string
	Currency       string
	Year           int
}

// OrderItem is one line of the confirmation table
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}
