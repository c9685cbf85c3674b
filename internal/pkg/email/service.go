// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
)

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}} order {{.OrderNumber}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #2d5016;">Thank you for your order!</h1>
        <p>Hello {{.CustomerName}},</p>
        <p>We received order <strong>{{.OrderNumber}}</strong> on {{.OrderDate}}. It ships by {{.ShippingMethod}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
            {{range .Items}}
            <tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.UnitPrice}}</td><td align="right">{{.LineTotal}}</td></tr>
            {{end}}
        </table>
        <p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br>Tax: {{.Tax}}{{if ne .Discount "0.00"}}<br>Discount: -{{.Discount}}{{end}}</p>
        <p><strong>Total: {{.Total}} {{.Currency}}</strong></p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>`))

// Service sends order confirmation mail
type Service struct {
	config *config.Config
	sender Sender
	logger *logrus.Logger
}

// NewService creates an email service using the configured provider
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	var sender Sender
	switch cfg.Email.Provider {
	case config.EmailProviderSMTP:
		sender = NewSMTPSender(cfg.Email)
	default:
		sender = &LogSender{logger: logger}
	}
	return NewServiceWithSender(cfg, sender, logger)
}

// NewServiceWithSender creates an email service with an explicit sender
func NewServiceWithSender(cfg *config.Config, sender Sender, logger *logrus.Logger) *Service {
	return &Service{config: cfg, sender: sender, logger: logger}
}

// OrderConfirmed renders and sends the confirmation for a placed order
func (s *Service) OrderConfirmed(ctx context.Context, o *order.Order) error {
	if o.Email == "" {
		return fmt.Errorf("order %s has no email address", o.OrderNumber)
	}

	html, err := s.RenderOrderConfirmation(o)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, &Email{
		To:          []string{o.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
		HTMLContent: html,
		Type:        EmailTypeOrderConfirmation,
	})
}

// RenderOrderConfirmation renders the confirmation body for o
func (s *Service) RenderOrderConfirmation(o *order.Order) (string, error) {
	data := OrderConfirmationData{
		SiteName:       s.config.Company.Name,
		CustomerName:   o.ShippingAddr.FullName(),
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.CreatedAt.Format("January 2, 2006"),
		ShippingMethod: o.ShippingMethod,
		Subtotal:       o.Subtotal.StringFixed(2),
		Shipping:       o.Shipping.StringFixed(2),
		Tax:            o.Tax.StringFixed(2),
		Discount:       o.Discount.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		Currency:       o.Currency,
		Year:           o.CreatedAt.Year(),
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template order_confirmation: %w", err)
	}
	return buf.String(), nil
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	logger *logrus.Logger
}

// Send logs the email envelope
func (l *LogSender) Send(_ context.Context, email *Email) error {
	l.logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
		"type":    email.Type,
		"bytes":   len(email.HTMLContent),
	}).Info("Email not delivered, log provider configured")
	return nil
}
