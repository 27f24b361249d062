package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/models/storetest"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expressCOD(addressID uint) PlaceOrderInput {
	return PlaceOrderInput{
		AddressID:     addressID,
		DeliveryType:  pricing.DeliveryExpress,
		PaymentMethod: models.PaymentCashOnDelivery,
	}
}

func waitMessage(t *testing.T, ch <-chan notify.Message) notify.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
	}
	return notify.Message{}
}

func TestPlaceOrder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Saffron", "100", 10))
	addr := h.store.AddAddress("u1")
	h.store.AddPromo(percentPromo("TEN", "10"))

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 3))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "TEN"))

	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-F]{6}$`, summary.OrderNumber)
	assert.True(t, summary.Total.Equal(dec("295")), summary.Total.String())

	order, err := h.orders.GetForUser(ctx, "u1", summary.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.Subtotal.Equal(dec("300")))
	assert.True(t, order.Discount.Equal(dec("30")))
	assert.True(t, order.DeliveryFee.Equal(dec("25")))
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "TEN", *order.PromoCode)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Saffron", item.NameEn)
	assert.Equal(t, "SKU-Saffron", item.SKU)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.Total.Equal(dec("300")))

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.OrderStatusPending, order.StatusHistory[0].Status)
	assert.Equal(t, "Order placed", order.StatusHistory[0].Note)
	assert.Equal(t, "u1", order.StatusHistory[0].CreatedBy)

	assert.Equal(t, 7, h.store.Product(pid).Stock)
	assert.Equal(t, 1, h.store.Promo("TEN").UsedCount)
	assert.Equal(t, 0, h.store.PaymentCount())

	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.PromoCode)

	msg := waitMessage(t, h.sender.sent)
	assert.Equal(t, "u1", msg.UserID)
	assert.Contains(t, msg.Body, summary.OrderNumber)
	select {
	case published := <-h.feed.published:
		assert.Equal(t, summary.ID, published.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("order not published")
	}
}

func TestPlaceOrderRecordsPayment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Oud", "250", 2))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))

	in := expressCOD(addr)
	in.PaymentMethod = models.PaymentCard
	summary, err := h.orders.PlaceOrder(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.PaymentCount())

	require.NoError(t, h.orders.UpdatePaymentStatus(ctx, summary.ID, models.PaymentStatusPaid))
	order, err := h.orders.Get(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestPlaceOrderValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Figs", "10", 5))
	mine := h.store.AddAddress("u1")
	theirs := h.store.AddAddress("u2")

	_, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(mine))
	assert.Equal(t, KindEmptyCart, KindOf(err))

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))

	_, err = h.orders.PlaceOrder(ctx, "u1", expressCOD(theirs))
	assert.Equal(t, KindNotFound, KindOf(err))

	bad := expressCOD(mine)
	bad.DeliveryType = "drone"
	_, err = h.orders.PlaceOrder(ctx, "u1", bad)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	bad = expressCOD(mine)
	bad.PaymentMethod = "crypto"
	_, err = h.orders.PlaceOrder(ctx, "u1", bad)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	bad = expressCOD(mine)
	bad.DeliveryType = pricing.DeliveryScheduled
	_, err = h.orders.PlaceOrder(ctx, "u1", bad)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	assert.Equal(t, 0, h.store.OrderCount())
	assert.Equal(t, 5, h.store.Product(pid).Stock)
}

func TestPlaceOrderScheduled(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Nuts", "120", 5))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 2))

	date := fixedNow.AddDate(0, 0, 2)
	slot := "10:00-12:00"
	in := expressCOD(addr)
	in.DeliveryType = pricing.DeliveryScheduled
	in.ScheduledDate = &date
	in.ScheduledTime = &slot

	summary, err := h.orders.PlaceOrder(ctx, "u1", in)
	require.NoError(t, err)
	// 240 is above the free scheduled delivery threshold.
	assert.True(t, summary.Total.Equal(dec("240")), summary.Total.String())

	order, _ := h.orders.Get(ctx, summary.ID)
	require.NotNil(t, order.ScheduledTime)
	assert.Equal(t, slot, *order.ScheduledTime)
}

func TestPlaceOrderRechecksStock(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := activeProduct("Ghee", "30", 5)
	pid := h.store.AddProduct(p)
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 3))

	p.ID = pid
	p.Stock = 2
	h.store.AddProduct(p)

	_, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.Error(t, err)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), "Ghee")

	assert.Equal(t, 0, h.store.OrderCount())
	assert.Equal(t, 2, h.store.Product(pid).Stock)
	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Len(t, cart.Items, 1)
}

func TestPlaceOrderRollsBackOnPartialFailure(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.store.AddProduct(activeProduct("A", "10", 5))
	bp := activeProduct("B", "10", 5)
	b := h.store.AddProduct(bp)
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", a, 2))
	require.NoError(t, h.carts.AddItem(ctx, "u1", b, 2))

	bp.ID = b
	bp.IsActive = false
	h.store.AddProduct(bp)

	_, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 5, h.store.Product(a).Stock)
	assert.Equal(t, 0, h.store.OrderCount())
}

func TestFixedPromoNeverExceedsSubtotal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Gum", "100", 5))
	addr := h.store.AddAddress("u1")
	promo := percentPromo("BIGFIXED", "0")
	promo.Type = pricing.PromoFixed
	promo.Value = dec("150")
	h.store.AddPromo(promo)

	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "BIGFIXED"))

	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(dec("25")), summary.Total.String())
}

func TestPromoUsageConsumedOnce(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Cake", "100", 10))
	promo := percentPromo("ONCE", "10")
	promo.UsageLimit = intPtr(1)
	h.store.AddPromo(promo)

	a1 := h.store.AddAddress("u1")
	a2 := h.store.AddAddress("u2")
	for _, u := range []string{"u1", "u2"} {
		require.NoError(t, h.carts.AddItem(ctx, u, pid, 1))
		require.NoError(t, h.carts.ApplyPromo(ctx, u, "ONCE"))
		_, err := h.carts.Quote(ctx, u)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, h.store.Promo("ONCE").UsedCount)

	first, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(a1))
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.Promo("ONCE").UsedCount)

	// The promo ran out between apply and checkout; the second order goes
	// through at full price.
	second, err := h.orders.PlaceOrder(ctx, "u2", expressCOD(a2))
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.Promo("ONCE").UsedCount)
	assert.True(t, first.Total.Equal(dec("115")), first.Total.String())
	assert.True(t, second.Total.Equal(dec("125")), second.Total.String())

	order, _ := h.orders.Get(ctx, second.ID)
	assert.Nil(t, order.PromoCode)
}

func TestCancelRestoresStock(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Cheese", "20", 10))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 3))

	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	assert.Equal(t, 7, h.store.Product(pid).Stock)

	require.NoError(t, h.orders.CancelOrder(ctx, "u1", summary.ID, "changed my mind"))
	assert.Equal(t, 10, h.store.Product(pid).Stock)

	order, _ := h.orders.Get(ctx, summary.ID)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.NotNil(t, order.CancelReason)
	assert.Equal(t, "changed my mind", *order.CancelReason)
	require.Len(t, order.StatusHistory, 2)
	assert.Equal(t, models.OrderStatusCancelled, order.StatusHistory[1].Status)

	err = h.orders.CancelOrder(ctx, "u1", summary.ID, "")
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, 10, h.store.Product(pid).Stock)
}

func TestCancelGuards(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Bread", "5", 10))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 2))
	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)

	err = h.orders.CancelOrder(ctx, "u2", summary.ID, "")
	assert.Equal(t, KindNotFound, KindOf(err))

	for _, st := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusReady,
		models.OrderStatusInTransit,
	} {
		require.NoError(t, h.orders.UpdateStatus(ctx, summary.ID, st, "", "admin"))
	}

	err = h.orders.CancelOrder(ctx, "u1", summary.ID, "too slow")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, "Cannot cancel this order", err.Error())

	order, _ := h.orders.Get(ctx, summary.ID)
	assert.Equal(t, models.OrderStatusInTransit, order.Status)
	assert.Len(t, order.StatusHistory, 5)
	assert.Equal(t, 8, h.store.Product(pid).Stock)
}

func TestUpdateStatus(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Soap", "8", 10))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)

	err = h.orders.UpdateStatus(ctx, summary.ID, models.OrderStatusReady, "", "admin")
	assert.Equal(t, KindInvalidState, KindOf(err))

	err = h.orders.UpdateStatus(ctx, 12345, models.OrderStatusConfirmed, "", "admin")
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, h.orders.AssignDriver(ctx, summary.ID, "driver-7"))
	assert.Equal(t, KindInvalidArgument, KindOf(h.orders.AssignDriver(ctx, summary.ID, " ")))

	for _, st := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusReady,
		models.OrderStatusInTransit,
		models.OrderStatusDelivered,
	} {
		require.NoError(t, h.orders.UpdateStatus(ctx, summary.ID, st, "", "admin"))
	}

	order, _ := h.orders.Get(ctx, summary.ID)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	require.NotNil(t, order.DeliveredAt)
	assert.True(t, order.DeliveredAt.Equal(fixedNow))
	require.NotNil(t, order.DriverID)
	assert.Equal(t, "driver-7", *order.DriverID)
	assert.Equal(t, "admin", order.StatusHistory[len(order.StatusHistory)-1].CreatedBy)

	err = h.orders.UpdateStatus(ctx, summary.ID, models.OrderStatusCancelled, "", "admin")
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, KindInvalidState, KindOf(h.orders.AssignDriver(ctx, summary.ID, "driver-8")))
}

func TestListOrders(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Jam", "6", 10))
	a1 := h.store.AddAddress("u1")
	a2 := h.store.AddAddress("u2")

	var ids []uint
	for _, u := range []struct {
		user string
		addr uint
	}{{"u1", a1}, {"u1", a1}, {"u2", a2}} {
		require.NoError(t, h.carts.AddItem(ctx, u.user, pid, 1))
		s, err := h.orders.PlaceOrder(ctx, u.user, expressCOD(u.addr))
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	mine, err := h.orders.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ids[1], mine[0].ID)

	all, err := h.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = h.orders.GetForUser(ctx, "u1", ids[2])
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestConcurrentCheckoutOfLastUnit(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Limited", "99", 1))

	users := []string{"u1", "u2"}
	addrs := map[string]uint{}
	for _, u := range users {
		addrs[u] = h.store.AddAddress(u)
		require.NoError(t, h.carts.AddItem(ctx, u, pid, 1))
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			<-start
			_, errs[i] = h.orders.PlaceOrder(ctx, u, expressCOD(addrs[u]))
		}(i, u)
	}
	close(start)
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case KindOf(err) == KindInsufficientStock:
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 0, h.store.Product(pid).Stock)
	assert.Equal(t, 1, h.store.OrderCount())
}

func TestDoubleSubmittedCheckoutPlacesOneOrder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Olive Oil", "100", 10))
	addr := h.store.AddAddress("u1")
	h.store.AddPromo(percentPromo("TEN", "10"))
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "TEN"))

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, empty int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case KindOf(err) == KindEmptyCart:
			empty++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, empty)
	assert.Equal(t, 1, h.store.OrderCount())
	assert.Equal(t, 9, h.store.Product(pid).Stock)
	assert.Equal(t, 1, h.store.Promo("TEN").UsedCount)
}

func TestPromoBelowMinimumIsNotRecordedOnOrder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Tea", "300", 10))
	addr := h.store.AddAddress("u1")
	promo := percentPromo("BIG", "10")
	promo.MinOrderAmount = decimal.NullDecimal{Decimal: dec("500"), Valid: true}
	h.store.AddPromo(promo)
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))
	require.NoError(t, h.carts.ApplyPromo(ctx, "u1", "BIG"))

	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(dec("325")), summary.Total.String())

	order, err := h.orders.Get(ctx, summary.ID)
	require.NoError(t, err)
	assert.True(t, order.Discount.IsZero())
	assert.Nil(t, order.PromoCode)
	assert.Equal(t, 0, h.store.Promo("BIG").UsedCount)

	cart, _ := h.store.Carts().GetOrCreate(ctx, "u1")
	assert.Nil(t, cart.PromoCode)
}

func TestNotificationFailureKeepsOrder(t *testing.T) {
	h := newHarness()
	h.sender.err = errors.New("smtp down")
	ctx := context.Background()
	pid := h.store.AddProduct(activeProduct("Water", "1", 10))
	addr := h.store.AddAddress("u1")
	require.NoError(t, h.carts.AddItem(ctx, "u1", pid, 1))

	summary, err := h.orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	waitMessage(t, h.sender.sent)

	_, err = h.orders.Get(ctx, summary.ID)
	assert.NoError(t, err)
}

func TestOrderServiceWithoutCollaborators(t *testing.T) {
	store := storetest.New()
	ctx := context.Background()
	carts := NewCartService(store, defaultSettings(), WithClock(clock))
	orders := NewOrderService(store, defaultSettings(), nil, nil,
		WithClock(clock),
		WithOrderNumbers(func(time.Time) string { return "ORD-TEST-1" }))

	pid := store.AddProduct(activeProduct("Pen", "2.50", 4))
	addr := store.AddAddress("u1")
	require.NoError(t, carts.AddItem(ctx, "u1", pid, 4))

	summary, err := orders.PlaceOrder(ctx, "u1", expressCOD(addr))
	require.NoError(t, err)
	assert.Equal(t, "ORD-TEST-1", summary.OrderNumber)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(35)))
}
