package services

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesLines(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Dates", "12.50", 10))

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 2))
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 2))

	cart, err := h.store.Carts().GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemChecksCombinedStock(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Honey", "40", 5))

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 3))
	err := h.carts.AddItem(ctx, "u1", pid, 3)
	require.Error(t, err)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), "Honey")
	assert.Contains(t, err.Error(), "5 remaining")

	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItemRejects(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	inactive := activeProduct("Old", "1", 5)
	inactive.IsActive = false
	oldID := h.store.AddProduct(inactive)
	pid := h.store.AddProduct(activeProduct("Milk", "3", 5))

	tests := []struct {
		name      string
		productID uint
		quantity  int
		kind      Kind
	}{
		{"zero quantity", pid, 0, KindInvalidArgument},
		{"unknown product", 999, 1, KindNotFound},
		{"inactive product", oldID, 1, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.carts.AddItem(ctx, "u1", tt.productID, tt.quantity)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestUpdateItem(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Rice", "20", 6))
	other := h.store.AddProduct(activeProduct("Salt", "2", 6))

	err := h.carts.UpdateItem(ctx, "u1", pid, 2)
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.UpdateItem(ctx, "u1", pid, 6))

	err = h.carts.UpdateItem(ctx, "u1", pid, 7)
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	err = h.carts.UpdateItem(ctx, "u1", other, 1)
	assert.Equal(t, KindNotFound, KindOf(err))

	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 6, cart.Items[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.store.AddProduct(activeProduct("A", "10", 5))
	b := h.store.AddProduct(activeProduct("B", "10", 5))
	h.store.AddPromo(percentPromo("SAVE10", "10"))

	require.NoError(t, h.carts.AddItem(ctx, "u1", a, 1))
	require.NoError(t, h.carts.AddItem(ctx, "u1", b, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "save10"))

	require.NoError(t, h.carts.RemoveItem(ctx, "u1", a))
	require.NoError(t, h.carts.RemoveItem(ctx, "u1", a))
	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	require.Len(t, cart.Items, 1)

	require.NoError(t, h.carts.ClearCart(ctx, "u1"))
	cart, _ = h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.PromoCode)
}

func TestApplyPromo(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.store.AddPromo(percentPromo("WELCOME", "10"))

	expired := percentPromo("OLD", "10")
	expired.EndDate = fixedNow.AddDate(0, 0, -1)
	h.store.AddPromo(expired)

	exhausted := percentPromo("USEDUP", "10")
	exhausted.UsageLimit = intPtr(3)
	exhausted.UsedCount = 3
	h.store.AddPromo(exhausted)

	inactive := percentPromo("PAUSED", "10")
	inactive.IsActive = false
	h.store.AddPromo(inactive)

	for _, code := range []string{"", "NOPE", "old", "usedup", "paused"} {
		err := h.carts.ApplyPromo(ctx, "u1", code)
		assert.Equal(t, KindInvalidPromo, KindOf(err), code)
	}

	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "  welcome "))
	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	require.NotNil(t, cart.PromoCode)
	assert.Equal(t, "WELCOME", *cart.PromoCode)
	assert.Equal(t, 0, h.store.Promo("WELCOME").UsedCount)

	require.NoError(t, h.carts.RemovePromo(ctx, "u1"))
	cart, _ = h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Nil(t, cart.PromoCode)
}

func TestQuote(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.store.AddProduct(activeProduct("A", "30.25", 10))
	b := h.store.AddProduct(activeProduct("B", "9.50", 10))
	promo := percentPromo("TEN", "10")
	h.store.AddPromo(promo)

	require.NoError(t, h.carts.AddItem(ctx, "u1", a, 2))
	require.NoError(t, h.carts.AddItem(ctx, "u1", b, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "TEN"))

	quote, err := h.carts.Quote(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, quote.Items, 2)
	assert.True(t, quote.Subtotal.Equal(dec("70")), quote.Subtotal.String())
	assert.True(t, quote.Discount.Equal(dec("7")), quote.Discount.String())
	assert.Equal(t, 3, quote.ItemCount)
	require.NotNil(t, quote.Promo)
	assert.True(t, quote.Promo.Applied)
	assert.True(t, quote.Delivery.Express.Equal(dec("25")))
	assert.True(t, quote.Delivery.Scheduled.Equal(dec("15")))
	assert.Equal(t, 10, quote.Delivery.ItemCountThreshold)
}

func TestQuoteUsesLivePrices(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := activeProduct("Coffee", "50", 10)
	pid := h.store.AddProduct(p)
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 2))

	p.ID = pid
	p.Price = dec("55")
	h.store.AddProduct(p)

	quote, err := h.carts.Quote(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, quote.Subtotal.Equal(dec("110")))
}

func TestQuoteNeverConsumesPromo(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Tea", "100", 10))
	h.store.AddPromo(percentPromo("TEA", "10"))
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "TEA"))

	for i := 0; i < 5; i++ {
		_, err := h.carts.Quote(ctx, "u1")
		require.NoError(t, err)
	}
	assert.Equal(t, 0, h.store.Promo("TEA").UsedCount)
}

func TestQuoteKeepsStalePromo(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Tea", "100", 10))
	promo := percentPromo("SHORT", "10")
	promo.EndDate = fixedNow.Add(time.Hour)
	h.store.AddPromo(promo)
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "SHORT"))

	later := NewCartService(h.store, defaultSettings(), WithClock(func() time.Time {
		return fixedNow.Add(2 * time.Hour)
	}))
	quote, err := later.Quote(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, quote.Discount.IsZero())
	require.NotNil(t, quote.Promo)
	assert.False(t, quote.Promo.Applied)
	assert.NotEmpty(t, quote.Promo.Reason)

	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	require.NotNil(t, cart.PromoCode)
	assert.Equal(t, "SHORT", *cart.PromoCode)
}

func TestQuoteBelowPromoMinimum(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Tea", "300", 10))
	promo := percentPromo("BIG", "10")
	promo.MinOrderAmount = decimal.NullDecimal{Decimal: dec("500"), Valid: true}
	h.store.AddPromo(promo)
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "BIG"))

	quote, err := h.carts.Quote(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, quote.Discount.IsZero())
	assert.False(t, quote.Promo.Applied)
	assert.Contains(t, quote.Promo.Reason, "500.00")
	assert.Equal(t, pricing.PromoPercentage, quote.Promo.Type)
}

func TestQuoteLeavesInactiveProductsOutOfTotals(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	kept := h.store.AddProduct(activeProduct("Dates", "80", 10))
	gone := activeProduct("Honey", "150", 10)
	gone.ID = h.store.AddProduct(gone)
	h.store.AddPromo(percentPromo("TEN", "10"))

	require.NoError(t, h.carts.AddItem(ctx, "u1", kept, 1))
	require.NoError(t, h.carts.AddItem(ctx, "u1", gone.ID, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "TEN"))

	gone.IsActive = false
	h.store.AddProduct(gone)

	quote, err := h.carts.Quote(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, quote.Items, 2)
	assert.False(t, quote.Items[1].Available)
	assert.True(t, quote.Items[1].LineTotal.Equal(dec("150")))
	assert.True(t, quote.Subtotal.Equal(dec("80")), quote.Subtotal.String())
	assert.Equal(t, 1, quote.ItemCount)
	assert.True(t, quote.Discount.Equal(dec("8")), quote.Discount.String())
}
