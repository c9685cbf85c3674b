// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
)

const lastOrderVersion = 1

// Service handles checkout business logic
type Service struct {
	cartService *cart.Service
	orders      order.Repository
	gateway     payment.Gateway
	notifier    Notifier
	slot        storage.Slot
	config      *config.Config
	logger      *logrus.Logger
	methods     []ShippingMethod
	taxRate     decimal.Decimal
	now         func() time.Time
}

// NewService creates a new checkout service. orders may be nil, in which case
// placed orders live only in the session's last-order slot.
func NewService(
	cfg *config.Config,
	cartService *cart.Service,
	orders order.Repository,
	gateway payment.Gateway,
	slot storage.Slot,
	logger *logrus.Logger,
) (*Service, error) {
	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE %q: %w", cfg.Checkout.TaxRate, err)
	}

	methods, err := shippingMethods(cfg.Checkout)
	if err != nil {
		return nil, err
	}

	return &Service{
		cartService: cartService,
		orders:      orders,
		gateway:     gateway,
		slot:        slot,
		config:      cfg,
		logger:      logger,
		methods:     methods,
		taxRate:     taxRate,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithNotifier sets the order confirmation notifier
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func shippingMethods(cfg config.CheckoutConfig) ([]ShippingMethod, error) {
	methods := []ShippingMethod{
		{ID: "standard", Name: "Standard Shipping", Description: "Regular delivery in 5-7 business days", EstimatedDays: "5-7 business days"},
		{ID: "express", Name: "Express Shipping", Description: "Fast delivery in 2-3 business days", EstimatedDays: "2-3 business days"},
		{ID: "overnight", Name: "Overnight Shipping", Description: "Next business day delivery", EstimatedDays: "1 business day"},
	}
	prices := []string{cfg.StandardPrice, cfg.ExpressPrice, cfg.OvernightPrice}

	for i := range methods {
		price, err := decimal.NewFromString(prices[i])
		if err != nil {
			return nil, fmt.Errorf("invalid %s shipping price %q: %w", methods[i].ID, prices[i], err)
		}
		methods[i].Price = price
	}
	return methods, nil
}

// GetShippingMethods returns the available shipping options
func (s *Service) GetShippingMethods() []ShippingMethod {
	out := make([]ShippingMethod, len(s.methods))
	copy(out, s.methods)
	return out
}

// Quote prices the session's cart
func (s *Service) Quote(ctx context.Context, sessionID string, req *QuoteRequest) (*Quote, error) {
	return s.quote(s.cartService.GetCart(ctx, sessionID), req)
}

// PlaceOrder validates, charges and records an order, then empties the cart.
// The cart is left untouched on any failure before the order is recorded.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, req *PlaceOrderRequest) (*order.Order, error) {
	quote, err := s.Quote(ctx, sessionID, &req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	if err := payment.Validate(&req.Details, s.now()); err != nil {
		return nil, err
	}

	placedAt := s.now()
	o := s.buildOrder(sessionID, quote, &req.Details, placedAt)

	receipt, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:      quote.Total,
		Currency:    quote.Currency,
		Method:      req.Method,
		Card:        req.Card,
		OrderNumber: o.OrderNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}
	o.PaymentStatus = order.PaymentStatusPaid
	o.TransactionID = receipt.TransactionID
	o.CardBrand = receipt.CardBrand
	o.CardLast4 = receipt.CardLast4

	if s.orders != nil {
		if err := s.orders.Create(ctx, o); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_number":   o.OrderNumber,
				"transaction_id": o.TransactionID,
				"error":          err,
			}).Error("Order charged but not saved")
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
	}

	s.saveLastOrder(ctx, sessionID, o)
	s.cartService.ClearCart(ctx, sessionID)

	if s.notifier != nil {
		if err := s.notifier.OrderConfirmed(ctx, o); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_number": o.OrderNumber,
				"error":        err,
			}).Warn("Failed to send order confirmation")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"session_id":   sessionID,
		"total":        o.Total.StringFixed(2),
		"items":        o.ItemCount(),
	}).Info("Order placed")

	return o, nil
}

// LastOrder returns the most recent order placed in the session
func (s *Service) LastOrder(ctx context.Context, sessionID string) (*order.Order, error) {
	key := s.lastOrderKey(sessionID)
	raw, err := s.slot.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoLastOrder
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last order: %w", err)
	}

	var snap lastOrderSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.Version != lastOrderVersion || snap.Order == nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Discarding unreadable last order")
		return nil, ErrNoLastOrder
	}
	return snap.Order, nil
}

// Private helper methods

type lastOrderSnapshot struct {
	Version int          `json:"version"`
	Order   *order.Order `json:"order"`
}

func (s *Service) lastOrderKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.config.Storage.LastOrderKey, sessionID)
}

func (s *Service) saveLastOrder(ctx context.Context, sessionID string, o *order.Order) {
	key := s.lastOrderKey(sessionID)
	data, err := json.Marshal(lastOrderSnapshot{Version: lastOrderVersion, Order: o})
	if err == nil {
		err = s.slot.Set(ctx, key, string(data))
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Last order not persisted")
	}
}

func (s *Service) quote(view *cart.View, req *QuoteRequest) (*Quote, error) {
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}

	method, err := s.findShippingMethod(req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	subtotal := view.Totals.TotalAmount
	discount, promo, err := applyPromo(req.PromoCode, subtotal)
	if err != nil {
		return nil, err
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(method.Price).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &Quote{
		Items:          view.Items,
		ItemCount:      view.Totals.TotalItems,
		ShippingMethod: method,
		PromoCode:      promo,
		Subtotal:       subtotal,
		Shipping:       method.Price,
		TaxRate:        s.taxRate,
		Tax:            tax,
		Discount:       discount,
		Total:          total,
		Currency:       s.config.Checkout.Currency,
	}, nil
}

func (s *Service) findShippingMethod(id string) (ShippingMethod, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = DefaultShippingMethod
	}
	for _, m := range s.methods {
		if m.ID == id {
			return m, nil
		}
	}
	return ShippingMethod{}, fmt.Errorf("%w: %q", ErrInvalidShippingMethod, id)
}

// applyPromo returns the discount, capped at the subtotal, and the normalised code
func applyPromo(code string, subtotal decimal.Decimal) (decimal.Decimal, string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return decimal.Zero, "", nil
	}

	promo, ok := promoCodes[code]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("%w: %q", ErrInvalidPromoCode, code)
	}

	var discount decimal.Decimal
	switch promo.Type {
	case DiscountPercentage:
		discount = subtotal.Mul(promo.Value).Round(2)
	default:
		discount = promo.Value
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, promo.Code, nil
}

func (s *Service) buildOrder(sessionID string, q *Quote, d *payment.Details, at time.Time) *order.Order {
	items := make([]order.OrderItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, order.OrderItem{
			ProductID:    item.Product.ID,
			Name:         item.Product.Name,
			Variety:      item.Product.Variety,
			QuantityType: string(item.Product.QuantityType),
			Quantity:     item.Quantity,
			UnitPrice:    item.Product.Price,
			LineTotal:    item.LineTotal,
		})
	}

	return &order.Order{
		ID:             uuid.NewString(),
		OrderNumber:    order.GenerateOrderNumber(s.config.Checkout.OrderNumberTag, at),
		SessionID:      sessionID,
		Email:          strings.TrimSpace(d.Email),
		Status:         order.OrderStatusConfirmed,
		PaymentStatus:  order.PaymentStatusPending,
		PaymentMethod:  string(d.Method),
		Subtotal:       q.Subtotal,
		Shipping:       q.Shipping,
		Tax:            q.Tax,
		Discount:       q.Discount,
		Total:          q.Total,
		Currency:       q.Currency,
		PromoCode:      q.PromoCode,
		ShippingMethod: q.ShippingMethod.ID,
		ShippingAddr: order.Address{
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			AddressLine1: d.Address,
			City:         d.City,
			State:        d.State,
			PostalCode:   d.ZipCode,
			Country:      d.Country,
			Phone:        d.Phone,
		},
		CreatedAt: at,
		UpdatedAt: at,
		Items:     items,
	}
}
