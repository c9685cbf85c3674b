package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
	"github.com/your-org/sithaphal-storefront/internal/pkg/logger"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Receipt, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*payment.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderConfirmed(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

type fixture struct {
	checkout *Service
	cart     *cart.Service
	gateway  *MockGateway
	orders   *MockRepository
	slot     *storage.MemorySlot
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{CartKey: "sithaphal-cart", LastOrderKey: "lastOrder"},
		Checkout: config.CheckoutConfig{
			TaxRate:        "0.0875",
			Currency:       "USD",
			StandardPrice:  "5.99",
			ExpressPrice:   "12.99",
			OvernightPrice: "24.99",
			OrderNumberTag: "SP",
		},
	}
}

func setup(t *testing.T) fixture {
	t.Helper()
	cfg := testConfig()
	slot := storage.NewMemorySlot()
	log := logger.Discard()
	cartSvc := cart.NewService(catalog.New(catalog.DefaultProducts()), slot, cfg, log)
	gw := &MockGateway{}
	repo := &MockRepository{}

	svc, err := NewService(cfg, cartSvc, repo, gw, slot, log)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }

	return fixture{checkout: svc, cart: cartSvc, gateway: gw, orders: repo, slot: slot}
}

func fillCart(t *testing.T, f fixture, session string, productID uint, qty int) {
	t.Helper()
	_, err := f.cart.AddToCart(context.Background(), session, &cart.AddToCartRequest{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func codRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		QuoteRequest: QuoteRequest{ShippingMethod: "standard"},
		Details: payment.Details{
			Email:     "shopper@example.com",
			Phone:     "555 123 4567",
			FirstName: "Sam",
			LastName:  "Rivera",
			Address:   "12 Orchard Lane",
			City:      "Fresno",
			State:     "CA",
			ZipCode:   "93650",
			Country:   "US",
			Method:    payment.MethodCOD,
		},
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Checkout.TaxRate = "eight percent"
	_, err := NewService(cfg, nil, nil, nil, nil, logger.Discard())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Checkout.ExpressPrice = ""
	_, err = NewService(cfg, nil, nil, nil, nil, logger.Discard())
	assert.Error(t, err)
}

func TestGetShippingMethods(t *testing.T) {
	f := setup(t)
	methods := f.checkout.GetShippingMethods()

	require.Len(t, methods, 3)
	assert.Equal(t, "standard", methods[0].ID)
	assert.True(t, dec("5.99").Equal(methods[0].Price))
	assert.True(t, dec("12.99").Equal(methods[1].Price))
	assert.True(t, dec("24.99").Equal(methods[2].Price))
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	fillCart(t, f, "s1", 1, 2)

	tests := []struct {
		name     string
		req      QuoteRequest
		shipping string
		discount string
		total    string
	}{
		{"default shipping", QuoteRequest{}, "5.99", "0", "19.02"},
		{"express", QuoteRequest{ShippingMethod: "express"}, "12.99", "0", "26.02"},
		{"overnight upper case", QuoteRequest{ShippingMethod: "OVERNIGHT"}, "24.99", "0", "38.02"},
		{"ten percent", QuoteRequest{PromoCode: "sithaphal10"}, "5.99", "1.20", "17.82"},
		{"five off", QuoteRequest{PromoCode: " WELCOME5 "}, "5.99", "5", "14.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := f.checkout.Quote(ctx, "s1", &tt.req)
			require.NoError(t, err)

			assert.True(t, dec("11.98").Equal(q.Subtotal), "subtotal %s", q.Subtotal)
			assert.True(t, dec("1.05").Equal(q.Tax), "tax %s", q.Tax)
			assert.True(t, dec(tt.shipping).Equal(q.Shipping), "shipping %s", q.Shipping)
			assert.True(t, dec(tt.discount).Equal(q.Discount), "discount %s", q.Discount)
			assert.True(t, dec(tt.total).Equal(q.Total), "total %s", q.Total)
			assert.Equal(t, 2, q.ItemCount)
			assert.Equal(t, "USD", q.Currency)
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.checkout.Quote(ctx, "empty", &QuoteRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	fillCart(t, f, "s1", 3, 1)
	_, err = f.checkout.Quote(ctx, "s1", &QuoteRequest{ShippingMethod: "drone"})
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)

	_, err = f.checkout.Quote(ctx, "s1", &QuoteRequest{PromoCode: "FREEFRUIT"})
	assert.ErrorIs(t, err, ErrInvalidPromoCode)
}

func TestApplyPromo_CappedAtSubtotal(t *testing.T) {
	discount, code, err := applyPromo("welcome5", dec("3.00"))
	require.NoError(t, err)
	assert.Equal(t, "WELCOME5", code)
	assert.True(t, dec("3.00").Equal(discount))

	discount, _, err = applyPromo("", dec("3.00"))
	require.NoError(t, err)
	assert.True(t, discount.IsZero())
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	fillCart(t, f, "s1", 1, 2)

	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.Amount.Equal(dec("19.02")) && req.Method == payment.MethodCOD
	})).Return(&payment.Receipt{TransactionID: "txn-1", Method: payment.MethodCOD}, nil).Once()
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	o, err := f.checkout.PlaceOrder(ctx, "s1", codRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^SP-2026-[0-9A-F]{8}$`, o.OrderNumber)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, "txn-1", o.TransactionID)
	assert.Equal(t, "Sam Rivera", o.ShippingAddr.FullName())
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Organic", o.Items[0].Name)
	assert.True(t, dec("11.98").Equal(o.Items[0].LineTotal))

	assert.Equal(t, 0, f.cart.GetCartItemCount(ctx, "s1"))

	last, err := f.checkout.LastOrder(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, last.OrderNumber)
	assert.True(t, o.Total.Equal(last.Total))

	f.gateway.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestPlaceOrder_FailuresKeepCart(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f fixture, req *PlaceOrderRequest)
		check   func(t *testing.T, err error)
	}{
		{
			name:    "validation",
			prepare: func(f fixture, req *PlaceOrderRequest) { req.Email = "not-an-email" },
			check: func(t *testing.T, err error) {
				var verrs payment.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs, "email")
			},
		},
		{
			name: "declined",
			prepare: func(f fixture, req *PlaceOrderRequest) {
				f.gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, payment.ErrPaymentDeclined)
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, payment.ErrPaymentDeclined) },
		},
		{
			name: "save failure",
			prepare: func(f fixture, req *PlaceOrderRequest) {
				f.gateway.On("Charge", mock.Anything, mock.Anything).Return(&payment.Receipt{TransactionID: "txn-2"}, nil)
				f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
			},
			check: func(t *testing.T, err error) { assert.ErrorContains(t, err, "failed to save order") },
		},
		{
			name:    "bad promo",
			prepare: func(f fixture, req *PlaceOrderRequest) { req.PromoCode = "NOPE" },
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidPromoCode) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t)
			fillCart(t, f, "s1", 4, 3)
			req := codRequest()
			tt.prepare(f, req)

			_, err := f.checkout.PlaceOrder(ctx, "s1", req)
			require.Error(t, err)
			tt.check(t, err)

			assert.Equal(t, 3, f.cart.GetCartItemCount(ctx, "s1"))
			_, err = f.checkout.LastOrder(ctx, "s1")
			assert.ErrorIs(t, err, ErrNoLastOrder)
		})
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := setup(t)

	_, err := f.checkout.PlaceOrder(context.Background(), "s1", codRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestPlaceOrder_WithoutRepository(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	slot := storage.NewMemorySlot()
	log := logger.Discard()
	cartSvc := cart.NewService(catalog.New(catalog.DefaultProducts()), slot, cfg, log)
	svc, err := NewService(cfg, cartSvc, nil, payment.NewMockGateway(0, log), slot, log)
	require.NoError(t, err)

	_, err = cartSvc.AddToCart(ctx, "s1", &cart.AddToCartRequest{ProductID: 6})
	require.NoError(t, err)

	o, err := svc.PlaceOrder(ctx, "s1", codRequest())
	require.NoError(t, err)
	assert.True(t, o.IsPaid())

	last, err := svc.LastOrder(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, last.ID)
}

func TestPlaceOrder_NotifierFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	fillCart(t, f, "s1", 3, 1)

	notifier := &MockNotifier{}
	f.checkout.WithNotifier(notifier)

	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&payment.Receipt{TransactionID: "txn-2", Method: payment.MethodCOD}, nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	notifier.On("OrderConfirmed", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.Email == "shopper@example.com" && o.TransactionID == "txn-2"
	})).Return(errors.New("smtp unavailable")).Once()

	o, err := f.checkout.PlaceOrder(ctx, "s1", codRequest())
	require.NoError(t, err)
	assert.True(t, o.IsPaid())
	assert.Equal(t, 0, f.cart.GetCartItemCount(ctx, "s1"))

	notifier.AssertExpectations(t)
}

func TestLastOrder_Corrupt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.slot.Set(ctx, "lastOrder:s1", `{"orderId":"SP-2024-042"}`))

	_, err := f.checkout.LastOrder(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoLastOrder)
}
