package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrPaymentDeclined is returned when the gateway refuses a charge
var ErrPaymentDeclined = errors.New("payment declined")

// ChargeRequest is what checkout asks the gateway to collect
type ChargeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Method      Method
	Card        *CardDetails
	OrderNumber string
}

// Receipt is the gateway's record of a successful charge
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	Method        Method          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CardBrand     string          `json:"card_brand,omitempty"`
	CardLast4     string          `json:"card_last4,omitempty"`
	ChargedAt     time.Time       `json:"charged_at"`
}

// Gateway collects payment for an order
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// MockGateway approves every positive charge after a fixed delay
type MockGateway struct {
	delay  time.Duration
	logger *logrus.Logger
}

// NewMockGateway creates a simulated gateway
func NewMockGateway(delay time.Duration, logger *logrus.Logger) *MockGateway {
	return &MockGateway{delay: delay, logger: logger}
}

// Charge simulates processing latency and honours ctx cancellation
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentDeclined)
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("payment interrupted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	receipt := &Receipt{
		TransactionID: uuid.New().String(),
		Method:        req.Method,
		Amount:        req.Amount,
		Currency:      req.Currency,
		ChargedAt:     time.Now().UTC(),
	}
	if req.Method == MethodCard && req.Card != nil {
		number := NormaliseCardNumber(req.Card.Number)
		receipt.CardBrand = CardBrand(number)
		if len(number) >= 4 {
			receipt.CardLast4 = number[len(number)-4:]
		}
	}

	g.logger.WithFields(logrus.Fields{
		"order_number":   req.OrderNumber,
		"transaction_id": receipt.TransactionID,
		"method":         req.Method,
		"amount":         req.Amount.StringFixed(2),
	}).Info("Payment approved")

	return receipt, nil
}
