package cart

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
)

// Store is the single in-memory owner of one shopper's cart.
// It mirrors every mutation to its storage slot; the slot is only read by Load.
// A Store is not safe for concurrent use; build one per request.
type Store struct {
	catalog   *catalog.Catalog
	slot      storage.Slot
	key       string
	logger    *logrus.Logger
	lines     []Line
	updatedAt time.Time
	now       func() time.Time
}

// NewStore creates an empty store bound to key in slot
func NewStore(c *catalog.Catalog, slot storage.Slot, key string, logger *logrus.Logger) *Store {
	return &Store{
		catalog: c,
		slot:    slot,
		key:     key,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Load replaces the in-memory cart with the slot contents.
// Missing, unreadable or corrupt data yields an empty cart.
func (s *Store) Load(ctx context.Context) {
	s.lines = nil
	s.updatedAt = time.Time{}

	raw, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": s.key, "error": err}).Warn("Cart storage unavailable, starting empty")
		return
	}

	lines, updatedAt, err := decode(raw)
	if err != nil {
		if !errors.Is(err, errEmptyBlob) {
			s.logger.WithFields(logrus.Fields{"key": s.key, "error": err}).Warn("Discarding unreadable cart")
		}
		return
	}

	s.lines = lines
	s.updatedAt = updatedAt
}

// AddOrIncrement adds delta to the product's line, creating it when absent.
// The line saturates at MaxLineQuantity.
func (s *Store) AddOrIncrement(ctx context.Context, productID uint, delta int) {
	if i := s.find(productID); i >= 0 {
		s.setAt(i, addQuantity(s.lines[i].Quantity, delta))
	} else if delta > 0 {
		s.lines = append(s.lines, Line{ProductID: productID, Quantity: min(delta, MaxLineQuantity)})
	} else {
		return
	}
	s.Persist(ctx)
}

// AdjustQuantity changes an existing line by delta; a result <= 0 removes it.
// An absent line is left alone and nothing is written.
func (s *Store) AdjustQuantity(ctx context.Context, productID uint, delta int) {
	i := s.find(productID)
	if i < 0 {
		return
	}
	s.setAt(i, addQuantity(s.lines[i].Quantity, delta))
	s.Persist(ctx)
}

// SetQuantity sets the product's quantity; q <= 0 removes the line
func (s *Store) SetQuantity(ctx context.Context, productID uint, quantity int) {
	if i := s.find(productID); i >= 0 {
		s.setAt(i, quantity)
	} else if quantity > 0 {
		s.lines = append(s.lines, Line{ProductID: productID, Quantity: min(quantity, MaxLineQuantity)})
	} else {
		return
	}
	s.Persist(ctx)
}

// Remove deletes the product's line if present
func (s *Store) Remove(ctx context.Context, productID uint) {
	i := s.find(productID)
	if i < 0 {
		return
	}
	s.removeAt(i)
	s.Persist(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	s.Persist(ctx)
}

// Prune drops lines whose product is no longer in the catalog
func (s *Store) Prune(ctx context.Context) []uint {
	orphans := s.Orphans()
	if len(orphans) == 0 {
		return nil
	}
	kept := s.lines[:0]
	for _, l := range s.lines {
		if _, ok := s.catalog.Find(l.ProductID); ok {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	s.Persist(ctx)
	return orphans
}

// Persist writes the cart to its slot.
// Failures are logged and swallowed; the in-memory cart stays authoritative.
func (s *Store) Persist(ctx context.Context) {
	s.updatedAt = s.now()

	blob, err := encode(s.lines, s.updatedAt)
	if err == nil {
		err = s.slot.Set(ctx, s.key, blob)
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": s.key, "error": err}).Warn("Cart not persisted, durability lost for this change")
	}
}

// Lines returns a copy of the raw lines, orphans included
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the product's quantity, 0 when absent
func (s *Store) Quantity(productID uint) int {
	if i := s.find(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines at all
func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Items resolves lines against the catalog, skipping orphans
func (s *Store) Items() []Item {
	items := make([]Item, 0, len(s.lines))
	for _, l := range s.lines {
		p, ok := s.catalog.Find(l.ProductID)
		if !ok {
			continue
		}
		items = append(items, Item{
			Product:   p,
			Quantity:  l.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return items
}

// Orphans lists product ids in the cart that the catalog cannot resolve
func (s *Store) Orphans() []uint {
	var orphans []uint
	for _, l := range s.lines {
		if _, ok := s.catalog.Find(l.ProductID); !ok {
			orphans = append(orphans, l.ProductID)
		}
	}
	return orphans
}

// Totals computes counts and amount at current catalog prices
func (s *Store) Totals() Totals {
	totals := Totals{TotalAmount: decimal.Zero}
	for _, item := range s.Items() {
		totals.DistinctItems++
		totals.TotalItems += item.Quantity
		totals.TotalAmount = totals.TotalAmount.Add(item.LineTotal)
	}
	return totals
}

// View bundles items, totals and orphans for rendering
func (s *Store) View() *View {
	return &View{
		Items:     s.Items(),
		Totals:    s.Totals(),
		Orphans:   s.Orphans(),
		UpdatedAt: s.updatedAt,
	}
}

func (s *Store) find(productID uint) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) setAt(i, quantity int) {
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = min(quantity, MaxLineQuantity)
}

// addQuantity adds delta to a line quantity in [1, MaxLineQuantity] without
// overflowing; sums above the cap saturate.
func addQuantity(quantity, delta int) int {
	if delta > MaxLineQuantity-quantity {
		return MaxLineQuantity
	}
	return quantity + delta
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}
