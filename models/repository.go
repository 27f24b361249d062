package models

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/storefront-api/pricing"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	// ErrConflict reports a guarded counter update that matched no row,
	// e.g. stock that dropped below the requested quantity.
	ErrConflict = errors.New("conflicting update")
)

type ProductRepository interface {
	Find(ctx context.Context, id uint) (*Product, error)
	FindMany(ctx context.Context, ids []uint) (map[uint]*Product, error)
	// FindForUpdate holds a row lock until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, id uint) (*Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
	IncrementStock(ctx context.Context, id uint, quantity int) error
}

type PromoRepository interface {
	FindByCode(ctx context.Context, code string) (*PromoCode, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*PromoCode, error)
	IncrementUsage(ctx context.Context, id uint) error
}

type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating it on first access.
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	// GetForUpdate locks the user's cart row for the rest of the transaction
	// and returns it with its items. ErrRecordNotFound when there is no cart.
	GetForUpdate(ctx context.Context, userID string) (*Cart, error)
	SaveItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, cartID, productID uint) error
	ClearItems(ctx context.Context, cartID uint) error
	SetPromoCode(ctx context.Context, cartID uint, code *string) error
}

// OrderChanges lists the mutable columns of an order; nil fields are left alone.
type OrderChanges struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	CancelReason  *string
	DriverID      *string
	DeliveredAt   *time.Time
}

type OrderRepository interface {
	// Create inserts the order together with its items and status history.
	Create(ctx context.Context, order *Order) error
	CreatePayment(ctx context.Context, payment *Payment) error
	Find(ctx context.Context, id uint) (*Order, error)
	FindForUpdate(ctx context.Context, id uint) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, id uint, changes OrderChanges) error
	AppendHistory(ctx context.Context, entry *StatusHistoryEntry) error
}

type AddressRepository interface {
	BelongsTo(ctx context.Context, userID string, addressID uint) (bool, error)
}

type DeliverySettingsProvider interface {
	DeliverySettings(ctx context.Context) (pricing.DeliverySettings, error)
}

// Store groups the repositories used by the cart and order services.
// Transaction runs fn against a Store bound to one database transaction;
// returning an error rolls every write back.
type Store interface {
	Products() ProductRepository
	Promos() PromoRepository
	Carts() CartRepository
	Orders() OrderRepository
	Addresses() AddressRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
