package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderFeed receives orders after they are placed or change status.
type OrderFeed interface {
	Publish(order *models.Order)
}

type PlaceOrderInput struct {
	AddressID     uint
	DeliveryType  pricing.DeliveryType
	PaymentMethod models.PaymentMethod
	ScheduledDate *time.Time
	ScheduledTime *string
	Notes         string
}

type OrderSummary struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

type OrderService struct {
	store    models.Store
	settings models.DeliverySettingsProvider
	notifier notify.Sender
	feed     OrderFeed
	opts     options
}

// NewOrderService wires the settlement engine. notifier and feed may be nil.
func NewOrderService(store models.Store, settings models.DeliverySettingsProvider, notifier notify.Sender, feed OrderFeed, opts ...Option) *OrderService {
	return &OrderService{
		store:    store,
		settings: settings,
		notifier: notifier,
		feed:     feed,
		opts:     buildOptions(opts),
	}
}

type settledLine struct {
	item    models.CartItem
	product *models.Product
}

// PlaceOrder turns the user's cart into an order. Stock, promo validity and
// prices are re-read under row locks inside a single transaction; any failure
// rolls back every write.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*OrderSummary, error) {
	if err := validatePlaceOrder(&in); err != nil {
		return nil, err
	}

	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, EmptyCart()
	}

	owned, err := s.store.Addresses().BelongsTo(ctx, userID, in.AddressID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, NotFound("address not found")
	}

	settings, err := s.settings.DeliverySettings(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx models.Store) error {
		order, err = s.settle(ctx, tx, userID, in, settings)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(order, notify.Message{
		UserID:  userID,
		Subject: "Order " + order.OrderNumber + " confirmed",
		Body: fmt.Sprintf("Thank you! We received your order %s. Total: %s.",
			order.OrderNumber, order.Total.StringFixed(2)),
		Data: map[string]string{"order_id": fmt.Sprint(order.ID), "order_number": order.OrderNumber},
	})

	return &OrderSummary{ID: order.ID, OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

func (s *OrderService) settle(ctx context.Context, tx models.Store, userID string, in PlaceOrderInput, settings pricing.DeliverySettings) (*models.Order, error) {
	now := s.opts.now()

	// The cart lock comes first so a double-submitted checkout waits here and
	// then finds the cart already cleared.
	cart, err := tx.Carts().GetForUpdate(ctx, userID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, EmptyCart()
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, EmptyCart()
	}

	// Lock products in id order so concurrent checkouts cannot deadlock.
	items := append([]models.CartItem(nil), cart.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	lines := make([]settledLine, 0, len(items))
	subtotal := decimal.Zero
	itemCount := 0
	for _, it := range items {
		product, err := tx.Products().FindForUpdate(ctx, it.ProductID)
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, NotFound("product %d no longer exists", it.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, NotFound("%s is no longer available", product.DisplayName())
		}
		if product.Stock < it.Quantity {
			return nil, InsufficientStock(product.DisplayName(), product.Stock)
		}
		lines = append(lines, settledLine{item: it, product: product})
		subtotal = subtotal.Add(pricing.LineTotal(product.Price, it.Quantity))
		itemCount += it.Quantity
	}

	var promo *models.PromoCode
	discount := decimal.Zero
	if cart.PromoCode != nil {
		p, err := tx.Promos().FindByCodeForUpdate(ctx, *cart.PromoCode)
		if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && p.IsValid(now) {
			discount = pricing.ClampDiscount(pricing.Discount(subtotal, p.Rule()), subtotal)
			if discount.IsPositive() {
				promo = p
			}
		}
	}

	fee := pricing.DeliveryFee(subtotal, in.DeliveryType, itemCount, settings)

	order := &models.Order{
		OrderNumber:   s.opts.orderNumber(now),
		UserID:        userID,
		AddressID:     in.AddressID,
		Status:        models.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		DeliveryType:  in.DeliveryType,
		ScheduledDate: in.ScheduledDate,
		ScheduledTime: in.ScheduledTime,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Discount:      discount,
		Total:         pricing.Total(subtotal, fee, discount),
		Notes:         in.Notes,
		CreatedAt:     now,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.OrderStatusPending,
			Note:      "Order placed",
			CreatedBy: userID,
			CreatedAt: now,
		}},
	}
	if promo != nil {
		code := promo.Code
		order.PromoCode = &code
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.product.ID,
			NameAr:    l.product.NameAr,
			NameEn:    l.product.NameEn,
			SKU:       l.product.SKU,
			Price:     l.product.Price,
			Quantity:  l.item.Quantity,
			Total:     pricing.LineTotal(l.product.Price, l.item.Quantity),
		})
	}

	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, err
	}

	if order.PaymentMethod != models.PaymentCashOnDelivery {
		if err := tx.Orders().CreatePayment(ctx, &models.Payment{
			OrderID: order.ID,
			Method:  order.PaymentMethod,
			Amount:  order.Total,
			Status:  models.PaymentStatusPending,
		}); err != nil {
			return nil, err
		}
	}

	for _, l := range lines {
		err := tx.Products().DecrementStock(ctx, l.product.ID, l.item.Quantity)
		if errors.Is(err, models.ErrConflict) {
			return nil, InsufficientStock(l.product.DisplayName(), l.product.Stock)
		}
		if err != nil {
			return nil, err
		}
	}

	if promo != nil {
		err := tx.Promos().IncrementUsage(ctx, promo.ID)
		if errors.Is(err, models.ErrConflict) {
			return nil, InvalidPromo("promo code %s has reached its usage limit", promo.Code)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	if err := tx.Carts().SetPromoCode(ctx, cart.ID, nil); err != nil {
		return nil, err
	}
	return order, nil
}

func validatePlaceOrder(in *PlaceOrderInput) error {
	if !in.DeliveryType.Valid() {
		return InvalidArgument("delivery type must be express or scheduled")
	}
	if _, err := models.ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		return InvalidArgument("%s", err.Error())
	}
	if in.AddressID == 0 {
		return InvalidArgument("address is required")
	}
	if in.DeliveryType == pricing.DeliveryScheduled {
		if in.ScheduledDate == nil || in.ScheduledTime == nil || strings.TrimSpace(*in.ScheduledTime) == "" {
			return InvalidArgument("scheduled delivery needs a date and a time slot")
		}
	} else {
		in.ScheduledDate = nil
		in.ScheduledTime = nil
	}
	return nil
}

// CancelOrder cancels one of the user's own orders and puts its stock back.
func (s *OrderService) CancelOrder(ctx context.Context, userID string, orderID uint, reason string) error {
	note := strings.TrimSpace(reason)
	if note == "" {
		note = "Cancelled by customer"
	}
	return s.transition(ctx, orderID, userID, models.OrderStatusCancelled, note, userID)
}

// UpdateStatus moves an order one step forward, or cancels it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, to models.OrderStatus, note, actor string) error {
	if note == "" {
		note = "Status changed to " + string(to)
	}
	return s.transition(ctx, orderID, "", to, note, actor)
}

func (s *OrderService) transition(ctx context.Context, orderID uint, owner string, to models.OrderStatus, note, actor string) error {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx models.Store) error {
		var err error
		order, err = tx.Orders().FindForUpdate(ctx, orderID)
		if errors.Is(err, models.ErrRecordNotFound) || (err == nil && owner != "" && order.UserID != owner) {
			return NotFound("order not found")
		}
		if err != nil {
			return err
		}

		if !order.Status.CanTransition(to) {
			if to == models.OrderStatusCancelled {
				return InvalidState("Cannot cancel this order")
			}
			return InvalidState("cannot move order from %s to %s", order.Status, to)
		}

		now := s.opts.now()
		changes := models.OrderChanges{Status: &to}
		switch to {
		case models.OrderStatusCancelled:
			for _, it := range order.Items {
				if err := tx.Products().IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			changes.CancelReason = &note
			order.CancelReason = &note
		case models.OrderStatusDelivered:
			changes.DeliveredAt = &now
			order.DeliveredAt = &now
			if order.PaymentMethod == models.PaymentCashOnDelivery {
				paid := models.PaymentStatusPaid
				changes.PaymentStatus = &paid
				order.PaymentStatus = paid
			}
		}

		if err := tx.Orders().Update(ctx, order.ID, changes); err != nil {
			return err
		}
		entry := &models.StatusHistoryEntry{
			OrderID:   order.ID,
			Status:    to,
			Note:      note,
			CreatedBy: actor,
			CreatedAt: now,
		}
		if err := tx.Orders().AppendHistory(ctx, entry); err != nil {
			return err
		}
		order.Status = to
		order.StatusHistory = append(order.StatusHistory, *entry)
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(order, notify.Message{
		UserID:  order.UserID,
		Subject: "Order " + order.OrderNumber + " update",
		Body:    fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, strings.ReplaceAll(string(to), "_", " ")),
		Data:    map[string]string{"order_id": fmt.Sprint(order.ID), "status": string(to)},
	})
	return nil
}

// AssignDriver records the driver of an order that is still open.
func (s *OrderService) AssignDriver(ctx context.Context, orderID uint, driverID string) error {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return InvalidArgument("driver is required")
	}
	return s.store.Transaction(ctx, func(tx models.Store) error {
		order, err := tx.Orders().FindForUpdate(ctx, orderID)
		if errors.Is(err, models.ErrRecordNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return InvalidState("order is already %s", order.Status)
		}
		return tx.Orders().Update(ctx, orderID, models.OrderChanges{DriverID: &driverID})
	})
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error {
	return s.store.Transaction(ctx, func(tx models.Store) error {
		if _, err := tx.Orders().FindForUpdate(ctx, orderID); err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return NotFound("order not found")
			}
			return err
		}
		return tx.Orders().Update(ctx, orderID, models.OrderChanges{PaymentStatus: &status})
	})
}

// GetForUser returns one of the user's orders.
func (s *OrderService) GetForUser(ctx context.Context, userID string, orderID uint) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, NotFound("order not found")
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().Find(ctx, orderID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, NotFound("order not found")
	}
	return order, err
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().List(ctx)
}

// dispatch runs after commit and never blocks or fails the request.
func (s *OrderService) dispatch(order *models.Order, msg notify.Message) {
	if s.notifier == nil && s.feed == nil {
		return
	}
	snapshot := *order
	go func() {
		if s.feed != nil {
			s.feed.Publish(&snapshot)
		}
		if s.notifier != nil {
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.notifyAfter)
			defer cancel()
			_ = s.notifier.Send(ctx, msg)
		}
	}()
}
