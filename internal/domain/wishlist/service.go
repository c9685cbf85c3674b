package wishlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
)

// Service handles wishlist business logic
type Service struct {
	catalog     *catalog.Catalog
	slot        storage.Slot
	keyPrefix   string
	cartService *cart.Service
	logger      *logrus.Logger
	now         func() time.Time
}

// NewService creates a new wishlist service
func NewService(c *catalog.Catalog, slot storage.Slot, cfg *config.Config, cartService *cart.Service, logger *logrus.Logger) *Service {
	return &Service{
		catalog:     c,
		slot:        slot,
		keyPrefix:   cfg.Storage.WishlistKey,
		cartService: cartService,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Key returns the storage slot key for a session
func (s *Service) Key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// GetWishlist returns the session's wishlist in insertion order
func (s *Service) GetWishlist(ctx context.Context, sessionID string) *View {
	ids, updatedAt := s.load(ctx, sessionID)
	return s.view(ids, updatedAt)
}

// IsInWishlist checks if a product is in the session's wishlist
func (s *Service) IsInWishlist(ctx context.Context, sessionID string, productID uint) bool {
	ids, _ := s.load(ctx, sessionID)
	return slices.Contains(ids, productID)
}

// Toggle adds the product when absent and removes it when present
func (s *Service) Toggle(ctx context.Context, sessionID string, productID uint) (*ToggleResult, error) {
	ids, _ := s.load(ctx, sessionID)

	added := false
	if i := slices.Index(ids, productID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		if _, ok := s.catalog.Find(productID); !ok {
			return nil, fmt.Errorf("product %d: %w", productID, catalog.ErrProductNotFound)
		}
		ids = append(ids, productID)
		added = true
	}

	updatedAt := s.persist(ctx, sessionID, ids)
	return &ToggleResult{ProductID: productID, Added: added, View: s.view(ids, updatedAt)}, nil
}

// ClearWishlist removes all items from the wishlist
func (s *Service) ClearWishlist(ctx context.Context, sessionID string) *View {
	updatedAt := s.persist(ctx, sessionID, nil)
	return s.view(nil, updatedAt)
}

// MoveToCart moves an item from wishlist to cart
func (s *Service) MoveToCart(ctx context.Context, sessionID string, productID uint) (*cart.View, error) {
	ids, _ := s.load(ctx, sessionID)
	i := slices.Index(ids, productID)
	if i < 0 {
		return nil, ErrNotInWishlist
	}

	cartView, err := s.cartService.AddToCart(ctx, sessionID, &cart.AddToCartRequest{ProductID: productID, Quantity: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	s.persist(ctx, sessionID, slices.Delete(ids, i, i+1))
	return cartView, nil
}

// Private helper methods

func (s *Service) load(ctx context.Context, sessionID string) ([]uint, time.Time) {
	key := s.Key(sessionID)
	raw, err := s.slot.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, time.Time{}
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Wishlist storage unavailable, starting empty")
		return nil, time.Time{}
	}

	ids, updatedAt, err := decode(raw)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Discarding unreadable wishlist")
		return nil, time.Time{}
	}
	return ids, updatedAt
}

func (s *Service) persist(ctx context.Context, sessionID string, ids []uint) time.Time {
	key := s.Key(sessionID)
	at := s.now()

	blob, err := encode(ids, at)
	if err == nil {
		err = s.slot.Set(ctx, key, blob)
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Wishlist not persisted")
	}
	return at
}

func (s *Service) view(ids []uint, updatedAt time.Time) *View {
	v := &View{Items: make([]catalog.Product, 0, len(ids)), UpdatedAt: updatedAt}
	for _, id := range ids {
		p, ok := s.catalog.Find(id)
		if !ok {
			v.Orphans = append(v.Orphans, id)
			continue
		}
		v.Items = append(v.Items, p)
	}
	v.Count = len(v.Items)
	return v
}
