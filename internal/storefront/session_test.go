package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/yamlfile"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/memory"
)

func newDeps(t *testing.T, toast time.Duration) (Deps, *memory.HandoffStore) {
	t.Helper()
	cat, err := catalogapp.Load(context.Background(), yamlfile.Default())
	require.NoError(t, err)

	slot := memory.NewHandoffStore()
	co := checkoutapp.NewService(slot, adapter.NewCatalogServiceReader(cat), checkoutapp.Options{}, nil)
	return Deps{
		Catalog:    cat,
		Checkout:   co,
		Money:      Money{Currency: "EGP"},
		HandoffKey: "qamarCart",
		ToastDelay: toast,
	}, slot
}

func TestRenderGrid(t *testing.T) {
	ctx := context.Background()
	deps, _ := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	v := s.View()
	assert.False(t, v.ShowAll)
	require.Len(t, v.Grid, 3)
	assert.Equal(t, "550.00 EGP", v.Grid[0].Price)
	assert.Equal(t, []string{"Hoodie", "T-Shirt"}, v.Categories)
	assert.Equal(t, "none", v.Modal)

	v, err := s.Dispatch(ctx, FilterSelected{Category: "Hoodie"})
	require.NoError(t, err)
	assert.True(t, v.ShowAll)
	require.Len(t, v.Grid, 2)
	assert.Equal(t, "p1", v.Grid[0].ID)
	assert.Equal(t, "p2", v.Grid[1].ID)

	v, err = s.Dispatch(ctx, FilterSelected{})
	require.NoError(t, err)
	assert.False(t, v.ShowAll)
	assert.Len(t, v.Grid, 3)
}

func TestProductOpened(t *testing.T) {
	ctx := context.Background()
	deps, _ := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	v, err := s.Dispatch(ctx, ProductOpened{ProductID: "p2"})
	require.NoError(t, err)
	require.NotNil(t, v.Product)
	assert.Equal(t, "product", v.Modal)
	assert.Equal(t, "600.00 EGP", v.Product.Price)
	assert.True(t, v.Product.Colors[0].Selected)
	assert.False(t, v.Product.Colors[1].Selected)
	assert.True(t, v.Product.Colors[2].Outlined, "white swatch")
	assert.Equal(t, "XS", v.Product.Sizes[0].Label)
	assert.True(t, v.Product.Sizes[0].Selected)

	v, err = s.Dispatch(ctx, ProductOpened{ProductID: "nope"})
	assert.True(t, errors.Is(err, catalogapp.ErrNotFound))
	require.NotNil(t, v.Product, "unknown product leaves the open modal alone")
	assert.Equal(t, "p2", v.Product.ID)

	v, err = s.Dispatch(ctx, ModalsClosed{})
	require.NoError(t, err)
	assert.Nil(t, v.Product)
	assert.Equal(t, "none", v.Modal)
}

func TestAddToCartFlow(t *testing.T) {
	ctx := context.Background()
	deps, slot := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	_, err := s.Dispatch(ctx, ProductOpened{ProductID: "p1"})
	require.NoError(t, err)

	v, err := s.Dispatch(ctx, VariantAddToCart{ProductID: "p1", Color: "black", Size: "M"})
	require.NoError(t, err)
	assert.Equal(t, "none", v.Modal, "adding closes the product modal")
	assert.Equal(t, ToastMessage, v.Toast)
	assert.Equal(t, 1, v.CartCount)

	_, err = s.Dispatch(ctx, VariantAddToCart{ProductID: "p1", Color: "black", Size: "M"})
	require.NoError(t, err)
	v, err = s.Dispatch(ctx, VariantAddToCart{ProductID: "p1", Color: "black", Size: "L"})
	require.NoError(t, err)
	assert.Equal(t, 3, v.CartCount)

	v, err = s.Dispatch(ctx, CartOpened{})
	require.NoError(t, err)
	require.NotNil(t, v.Cart)
	require.Len(t, v.Cart.Lines, 2)
	assert.Equal(t, "1100.00 EGP", v.Cart.Lines[0].Subtotal)
	assert.Equal(t, "1650.00 EGP", v.Cart.Total)
	assert.Empty(t, v.Cart.EmptyMessage)

	v, err = s.Dispatch(ctx, ItemRemoved{LineID: cartdomain.ResolveLineID("p1", "black", "M")})
	require.NoError(t, err)
	require.Len(t, v.Cart.Lines, 1)
	assert.Equal(t, "550.00 EGP", v.Cart.Total)
	assert.Equal(t, 1, v.CartCount)

	v, err = s.Dispatch(ctx, CheckoutRequested{})
	require.NoError(t, err)
	assert.Equal(t, "checkout.html", v.Redirect)
	assert.Equal(t, "none", v.Modal)

	data, err := slot.Get(ctx, "qamarCart")
	require.NoError(t, err)
	items, err := cartdomain.DecodeItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "L", items[0].Size)
}

func TestAddToCartDefaultsAndErrors(t *testing.T) {
	ctx := context.Background()
	deps, _ := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	_, err := s.Dispatch(ctx, VariantAddToCart{ProductID: "p3"})
	require.NoError(t, err)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "white", items[0].Color)
	assert.Equal(t, "S", items[0].Size)

	v, err := s.Dispatch(ctx, VariantAddToCart{ProductID: "p3", Color: "pink", Size: "S"})
	assert.True(t, errors.Is(err, cartapp.ErrInvalidVariant))
	assert.Equal(t, InvalidVariantNotice, v.Notice)
	assert.Equal(t, 1, v.CartCount)

	_, err = s.Dispatch(ctx, VariantAddToCart{ProductID: "nope"})
	assert.True(t, errors.Is(err, catalogapp.ErrNotFound))

	v, err = s.Dispatch(ctx, CartOpened{})
	require.NoError(t, err)
	assert.Empty(t, v.Notice, "notices last for one dispatch")
}

func TestEmptyCheckout(t *testing.T) {
	ctx := context.Background()
	deps, slot := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	v, err := s.Dispatch(ctx, CartOpened{})
	require.NoError(t, err)
	assert.Equal(t, EmptyCartMessage, v.Cart.EmptyMessage)
	assert.Equal(t, "0.00 EGP", v.Cart.Total)

	v, err = s.Dispatch(ctx, CheckoutRequested{})
	assert.True(t, errors.Is(err, checkoutapp.ErrEmptyCart))
	assert.Equal(t, EmptyCheckoutNotice, v.Notice)
	assert.Empty(t, v.Redirect)
	assert.Equal(t, "cart", v.Modal, "no navigation on an empty cart")

	_, err = slot.Get(ctx, "qamarCart")
	assert.True(t, errors.Is(err, checkoutapp.ErrNoHandoff))
}

func TestToastAutoHide(t *testing.T) {
	ctx := context.Background()
	deps, _ := newDeps(t, 20*time.Millisecond)
	s := NewSession("test", deps)

	var (
		mu    sync.Mutex
		views []View
	)
	unsubscribe := s.Subscribe(func(v View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})
	defer unsubscribe()

	v, err := s.Dispatch(ctx, VariantAddToCart{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, ToastMessage, v.Toast)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		last := views[len(views)-1]
		return last.Toast == "" && last.CartCount == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, s.State().Toast)
	assert.Equal(t, 1, s.cart.TotalItemCount(), "toast timer leaves the cart alone")
}

func TestSessions(t *testing.T) {
	deps, _ := newDeps(t, time.Hour)
	reg := NewSessions(deps, SessionsOptions{})
	defer reg.Close()

	a, created := reg.GetOrCreate("")
	require.True(t, created)
	assert.Equal(t, "qamarCart:"+a.ID, a.HandoffKey())

	again, created := reg.GetOrCreate(a.ID)
	assert.False(t, created)
	assert.Same(t, a, again)

	b, created := reg.GetOrCreate("made-up-id")
	assert.True(t, created)
	assert.NotEqual(t, "made-up-id", b.ID)
	assert.Equal(t, 2, reg.Len())

	_, err := a.Dispatch(context.Background(), VariantAddToCart{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.cart.TotalItemCount())
	assert.Equal(t, 0, b.cart.TotalItemCount(), "carts are per session")

	_, ok := reg.Get(b.ID)
	assert.True(t, ok)
}

func TestStaleCartSnapshotIgnored(t *testing.T) {
	deps, _ := newDeps(t, time.Hour)
	s := NewSession("test", deps)

	_, err := s.Dispatch(context.Background(), VariantAddToCart{ProductID: "p1"})
	require.NoError(t, err)
	_, err = s.Dispatch(context.Background(), VariantAddToCart{ProductID: "p2"})
	require.NoError(t, err)

	// A listener call delivered late must not roll the view back.
	s.onCartChange(cartapp.Snapshot{Version: 1})
	assert.Equal(t, 2, s.View().CartCount)
}

func TestSessionsExpireWhenIdle(t *testing.T) {
	deps, _ := newDeps(t, time.Hour)
	reg := NewSessions(deps, SessionsOptions{TTL: time.Minute})
	defer reg.Close()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	active, _ := reg.GetOrCreate("")
	idle, _ := reg.GetOrCreate("")
	require.Equal(t, 2, reg.Len())

	clock = clock.Add(40 * time.Second)
	_, ok := reg.Get(active.ID)
	require.True(t, ok)

	clock = clock.Add(40 * time.Second)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Get(idle.ID)
	assert.False(t, ok, "idle session was dropped")
	again, created := reg.GetOrCreate(active.ID)
	assert.False(t, created)
	assert.Same(t, active, again)

	clock = clock.Add(2 * time.Minute)
	fresh, created := reg.GetOrCreate(active.ID)
	assert.True(t, created, "an expired id is not revived")
	assert.NotEqual(t, active.ID, fresh.ID)
	assert.Equal(t, 1, reg.Len())
}

func TestSessionsCap(t *testing.T) {
	deps, _ := newDeps(t, time.Hour)
	reg := NewSessions(deps, SessionsOptions{Max: 2})
	defer reg.Close()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	first, _ := reg.GetOrCreate("")
	clock = clock.Add(time.Second)
	second, _ := reg.GetOrCreate("")
	clock = clock.Add(time.Second)
	_, _ = reg.GetOrCreate(first.ID)
	clock = clock.Add(time.Second)
	_, _ = reg.GetOrCreate("")

	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Get(second.ID)
	assert.False(t, ok, "least recently seen session goes first")
	_, ok = reg.Get(first.ID)
	assert.True(t, ok)
}
