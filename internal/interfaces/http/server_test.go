package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/checkout"
	"github.com/your-org/sithaphal-storefront/internal/domain/payment"
	"github.com/your-org/sithaphal-storefront/internal/domain/wishlist"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/sithaphal-storefront/internal/interfaces/http/routes"
	"github.com/your-org/sithaphal-storefront/internal/pkg/auth"
	"github.com/your-org/sithaphal-storefront/internal/pkg/logger"
	"github.com/your-org/sithaphal-storefront/internal/pkg/pdf"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, checks map[string]HealthChecker) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.FromEnv()
	cfg.Storage.Backend = config.StorageBackendMemory
	cfg.Checkout.PaymentDelay = 0

	log := logger.Discard()
	slot := storage.NewMemorySlot()
	cat := catalog.New(catalog.DefaultProducts())

	cartSvc := cart.NewService(cat, slot, cfg, log)
	checkoutSvc, err := checkout.NewService(cfg, cartSvc, nil, payment.NewMockGateway(0, log), slot, log)
	require.NoError(t, err)
	products, err := handlers.NewProductHandler(cat, cfg)
	require.NoError(t, err)

	h := &routes.Handlers{
		Products: products,
		Cart:     handlers.NewCartHandler(cartSvc, log),
		Wishlist: handlers.NewWishlistHandler(wishlist.NewService(cat, slot, cfg, cartSvc, log), log),
		Checkout: handlers.NewCheckoutHandler(checkoutSvc, log),
		Receipts: handlers.NewReceiptHandler(checkoutSvc, pdf.NewService(cfg), log),
	}

	return NewServer(cfg, log, h, auth.NewSessionManager(cfg), nil, checks)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, map[string]HealthChecker{
		"database": checkerFunc(func(context.Context) error { return nil }),
	})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestServer_HealthReportsFailingDependency(t *testing.T) {
	s := newTestServer(t, map[string]HealthChecker{
		"redis": checkerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis ping failed")
}

func TestServer_SessionCarriesCartAcrossRequests(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(middleware.SessionHeader))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":3,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	w = serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart/count", nil)
	req.Header.Set(middleware.SessionHeader, token)
	w = serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	// A different guest starts with an empty cart
	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/cart/count", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
