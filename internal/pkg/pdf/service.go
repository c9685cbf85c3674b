// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}).Parse(receiptTemplate))

// Service handles receipt rendering
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	Order         *order.Order
	Company       config.CompanyConfig
}

// GenerateReceiptHTML renders the order receipt as an HTML document
func (s *Service) GenerateReceiptHTML(o *order.Order) (string, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", o.OrderNumber),
		Order:         o,
		Company:       s.config.Company,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt renders the order receipt as a PDF
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.GenerateReceiptHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.config.Checkout.ReceiptPDFDPI)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #16a34a; padding-bottom: 16px; margin-bottom: 24px; }
        .brand { font-size: 24px; font-weight: bold; color: #15803d; }
        .meta td { padding: 3px 12px 3px 0; }
        .meta .label { font-weight: bold; }
        .items { width: 100%; border-collapse: collapse; margin: 24px 0; }
        .items th, .items td { border-bottom: 1px solid #e5e7eb; padding: 8px; text-align: left; }
        .items .num { text-align: right; }
        .totals { width: 260px; margin-left: auto; }
        .totals td { padding: 4px 8px; }
        .totals .num { text-align: right; }
        .total-row td { font-weight: bold; font-size: 16px; border-top: 2px solid #333; }
        .footer { margin-top: 40px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="brand">{{.Company.Name}}</div>
        {{if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
        {{if .Company.Phone}}<div>Phone: {{.Company.Phone}}</div>{{end}}
        {{if .Company.Email}}<div>Email: {{.Company.Email}}</div>{{end}}
    </div>

    <table class="meta">
        <tr><td class="label">Receipt #:</td><td>{{.ReceiptNumber}}</td></tr>
        <tr><td class="label">Order #:</td><td>{{.Order.OrderNumber}}</td></tr>
        <tr><td class="label">Date:</td><td>{{.Order.CreatedAt.Format "January 2, 2006"}}</td></tr>
        <tr><td class="label">Payment:</td><td>{{title .Order.PaymentMethod}}{{if .Order.CardLast4}} ({{.Order.CardBrand}} ending {{.Order.CardLast4}}){{end}}, {{.Order.PaymentStatus}}</td></tr>
        <tr><td class="label">Shipping:</td><td>{{title .Order.ShippingMethod}}</td></tr>
        <tr><td class="label">Ship to:</td><td>{{.Order.ShippingAddr.FullName}}, {{.Order.ShippingAddr.AddressLine1}}, {{.Order.ShippingAddr.City}} {{.Order.ShippingAddr.PostalCode}}</td></tr>
    </table>

    <table class="items">
        <thead>
            <tr><th>Item</th><th>Variety</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td>{{.Variety}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{money .Order.Subtotal}}</td></tr>
        {{if .Order.Discount.IsPositive}}<tr><td>Discount{{if .Order.PromoCode}} ({{.Order.PromoCode}}){{end}}</td><td class="num">-{{money .Order.Discount}}</td></tr>{{end}}
        <tr><td>Shipping</td><td class="num">{{money .Order.Shipping}}</td></tr>
        <tr><td>Tax</td><td class="num">{{money .Order.Tax}}</td></tr>
        <tr class="total-row"><td>Total</td><td class="num">{{money .Order.Total}} {{.Order.Currency}}</td></tr>
    </table>

    <div class="footer">
        <p>Thank you for choosing {{.Company.Name}}!</p>
        {{if .Company.Website}}<p>{{.Company.Website}}</p>{{end}}
    </div>
</body>
</html>
`
