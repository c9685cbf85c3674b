package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/sithaphal-storefront/internal/config"
	"github.com/your-org/sithaphal-storefront/internal/domain/cart"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/infrastructure/storage"
	"github.com/your-org/sithaphal-storefront/internal/pkg/logger"
)

type fixture struct {
	wishlist *Service
	cart     *cart.Service
	slot     *storage.MemorySlot
}

func setup(t *testing.T) fixture {
	t.Helper()
	cfg := &config.Config{Storage: config.StorageConfig{CartKey: "sithaphal-cart", WishlistKey: "sithaphal-wishlist"}}
	c := catalog.New(catalog.DefaultProducts())
	slot := storage.NewMemorySlot()
	log := logger.Discard()
	cartSvc := cart.NewService(c, slot, cfg, log)
	return fixture{
		wishlist: NewService(c, slot, cfg, cartSvc, log),
		cart:     cartSvc,
		slot:     slot,
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	res, err := f.wishlist.Toggle(ctx, "s1", 3)
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 1, res.View.Count)
	assert.True(t, f.wishlist.IsInWishlist(ctx, "s1", 3))

	res, err = f.wishlist.Toggle(ctx, "s1", 3)
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Equal(t, 0, res.View.Count)
	assert.False(t, f.wishlist.IsInWishlist(ctx, "s1", 3))

	_, err = f.wishlist.Toggle(ctx, "s1", 404)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestGetWishlist_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	for _, id := range []uint{5, 1, 3} {
		_, err := f.wishlist.Toggle(ctx, "s1", id)
		require.NoError(t, err)
	}

	view := f.wishlist.GetWishlist(ctx, "s1")
	require.Len(t, view.Items, 3)
	assert.Equal(t, uint(5), view.Items[0].ID)
	assert.Equal(t, uint(1), view.Items[1].ID)
	assert.Equal(t, uint(3), view.Items[2].ID)
}

func TestGetWishlist_LegacyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.slot.Set(ctx, f.wishlist.Key("legacy"), `[2, 4, 2, 99]`))
	view := f.wishlist.GetWishlist(ctx, "legacy")
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, []uint{99}, view.Orphans)

	require.NoError(t, f.slot.Set(ctx, f.wishlist.Key("broken"), `{{`))
	assert.Equal(t, 0, f.wishlist.GetWishlist(ctx, "broken").Count)

	require.NoError(t, f.slot.Set(ctx, f.wishlist.Key("future"), `{"version":7,"product_ids":[1]}`))
	assert.Equal(t, 0, f.wishlist.GetWishlist(ctx, "future").Count)
}

func TestMoveToCart(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.wishlist.Toggle(ctx, "s1", 2)
	require.NoError(t, err)

	cartView, err := f.wishlist.MoveToCart(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, cartView.Items, 1)
	assert.Equal(t, uint(2), cartView.Items[0].Product.ID)
	assert.False(t, f.wishlist.IsInWishlist(ctx, "s1", 2))
	assert.Equal(t, 1, f.cart.GetCartItemCount(ctx, "s1"))

	_, err = f.wishlist.MoveToCart(ctx, "s1", 2)
	assert.ErrorIs(t, err, ErrNotInWishlist)
}

func TestMoveToCart_OrphanStaysInWishlist(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.slot.Set(ctx, f.wishlist.Key("s1"), `{"version":1,"product_ids":[77]}`))

	_, err := f.wishlist.MoveToCart(ctx, "s1", 77)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.True(t, f.wishlist.IsInWishlist(ctx, "s1", 77))
	assert.Equal(t, 0, f.cart.GetCartItemCount(ctx, "s1"))
}

func TestClearWishlist(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, _ = f.wishlist.Toggle(ctx, "s1", 1)
	_, _ = f.wishlist.Toggle(ctx, "s1", 6)

	view := f.wishlist.ClearWishlist(ctx, "s1")
	assert.Equal(t, 0, view.Count)
	assert.Equal(t, 0, f.wishlist.GetWishlist(ctx, "s1").Count)
}
