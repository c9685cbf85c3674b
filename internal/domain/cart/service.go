package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
)

// ErrInvalidQuantity is returned when a request asks for a negative quantity
// or more than MaxLineQuantity units
var ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")

// Service applies cart intents for a shopper session.
// Each call loads the session's slot, applies one intent and persists; the last writer wins.
type Service struct {
	catalog   *catalog.Catalog
	slot      storage.Slot
	keyPrefix string
	logger    *logrus.Logger
}

// NewService creates a new cart service
func NewService(c *catalog.Catalog, slot storage.Slot, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		catalog:   c,
		slot:      slot,
		keyPrefix: cfg.Storage.CartKey,
		logger:    logger,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// Key returns the storage slot key for a session
func (s *Service) Key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// Open returns a freshly loaded store for the session
func (s *Service) Open(ctx context.Context, sessionID string) *Store {
	store := NewStore(s.catalog, s.slot, s.Key(sessionID), s.logger)
	store.Load(ctx)
	return store
}

// GetCart returns the session's cart view
func (s *Service) GetCart(ctx context.Context, sessionID string) *View {
	return s.Open(ctx, sessionID).View()
}

// GetCartItemCount returns the badge count
func (s *Service) GetCartItemCount(ctx context.Context, sessionID string) int {
	return s.Open(ctx, sessionID).Totals().TotalItems
}

// AddToCart adds quantity units of a catalog product; zero quantity means one
func (s *Service) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*View, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	if err := s.requireProduct(req.ProductID); err != nil {
		return nil, err
	}

	store := s.Open(ctx, sessionID)
	store.AddOrIncrement(ctx, req.ProductID, quantity)
	return store.View(), nil
}

// IncrementQuantity adds one unit of a catalog product
func (s *Service) IncrementQuantity(ctx context.Context, sessionID string, productID uint) (*View, error) {
	return s.AddToCart(ctx, sessionID, &AddToCartRequest{ProductID: productID, Quantity: 1})
}

// DecrementQuantity removes one unit, dropping the line at zero
func (s *Service) DecrementQuantity(ctx context.Context, sessionID string, productID uint) *View {
	store := s.Open(ctx, sessionID)
	store.AdjustQuantity(ctx, productID, -1)
	return store.View()
}

// UpdateCartItem sets a line's quantity; quantity <= 0 removes it
func (s *Service) UpdateCartItem(ctx context.Context, sessionID string, productID uint, quantity int) (*View, error) {
	if quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	store := s.Open(ctx, sessionID)
	if quantity > 0 && store.Quantity(productID) == 0 {
		if err := s.requireProduct(productID); err != nil {
			return nil, err
		}
	}
	store.SetQuantity(ctx, productID, quantity)
	return store.View(), nil
}

// RemoveFromCart deletes a line unconditionally
func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID uint) *View {
	store := s.Open(ctx, sessionID)
	store.Remove(ctx, productID)
	return store.View()
}

// ClearCart empties the session's cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) *View {
	store := s.Open(ctx, sessionID)
	store.Clear(ctx)
	return store.View()
}

// PruneCart drops lines for products that left the catalog
func (s *Service) PruneCart(ctx context.Context, sessionID string) (*View, []uint) {
	store := s.Open(ctx, sessionID)
	removed := store.Prune(ctx)
	return store.View(), removed
}

func (s *Service) requireProduct(productID uint) error {
	if _, ok := s.catalog.Find(productID); !ok {
		return fmt.Errorf("product %d: %w", productID, catalog.ErrProductNotFound)
	}
	return nil
}
