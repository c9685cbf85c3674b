// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/checkout"
	"github.com/your-org/sithaphal-storefront/internal/pkg/pdf"
)

// ReceiptHandler renders the session's last order as a receipt
type ReceiptHandler struct {
	checkoutService *checkout.Service
	pdfService      *pdf.Service
	logger          *logrus.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(checkoutService *checkout.Service, pdfService *pdf.Service, logger *logrus.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		checkoutService: checkoutService,
		pdfService:      pdfService,
		logger:          logger,
	}
}

// GetReceipt handles GET /checkout/last-order/receipt
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	o, err := h.checkoutService.LastOrder(c.Request.Context(), sid)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve last order")
		return
	}

	if c.Query("format") == "html" {
		html, err := h.pdfService.GenerateReceiptHTML(o)
		if err != nil {
			respondError(c, h.logger, err, "Failed to render receipt")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	pdfBuffer, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
