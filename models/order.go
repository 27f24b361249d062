package models

import (
	"errors"
	"strings"
	"time"

	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses, in fulfilment order
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Accepted by the store
	OrderStatusProcessing OrderStatus = "processing" // Being picked and packed
	OrderStatusReady      OrderStatus = "ready"      // Packed, waiting for a driver
	OrderStatusInTransit  OrderStatus = "in_transit" // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the order
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before processing

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	// Payment methods are recorded, never processed here
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentWallet         PaymentMethod = "wallet"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

var orderFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if status == OrderStatusCancelled {
		return status, nil
	}
	for _, st := range orderFlow {
		if st == status {
			return status, nil
		}
	}
	return "", ErrInvalidOrderStatus
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return status, nil
	}
	return "", ErrInvalidPaymentStatus
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch method := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); method {
	case PaymentCashOnDelivery, PaymentCard, PaymentWallet, PaymentBankTransfer:
		return method, nil
	}
	return "", ErrInvalidPaymentMethod
}

// Next returns the status that follows s in the fulfilment sequence.
// Terminal statuses have no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range orderFlow[:len(orderFlow)-1] {
		if st == s {
			return orderFlow[i+1], true
		}
	}
	return "", false
}

func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition allows a single forward step, or cancellation while cancellable.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if to == OrderStatusCancelled {
		return s.Cancellable()
	}
	next, ok := s.Next()
	return ok && next == to
}

type Order struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	OrderNumber   string               `gorm:"size:40;uniqueIndex;not null" json:"order_number"`
	UserID        string               `gorm:"index;not null" json:"user_id"`
	AddressID     uint                 `gorm:"not null" json:"address_id"`
	Status        OrderStatus          `gorm:"type:VARCHAR(20);not null;index" json:"status"`
	PaymentMethod PaymentMethod        `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus        `gorm:"type:VARCHAR(20);not null" json:"payment_status"`
	DeliveryType  pricing.DeliveryType `gorm:"type:VARCHAR(20);not null" json:"delivery_type"`
	ScheduledDate *time.Time           `gorm:"type:date" json:"scheduled_date,omitempty"`
	ScheduledTime *string              `gorm:"size:20" json:"scheduled_time,omitempty"`
	Subtotal      decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DeliveryFee   decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"delivery_fee"`
	Discount      decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total         decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"total"`
	PromoCode     *string              `gorm:"size:50" json:"promo_code,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	DriverID      *string              `gorm:"size:64" json:"driver_id,omitempty"`
	CancelReason  *string              `json:"cancel_reason,omitempty"`
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	StatusHistory []StatusHistoryEntry `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
}

// OrderItem is a snapshot of a cart line at commit time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	NameAr    string          `json:"name_ar"`
	NameEn    string          `json:"name_en"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
}

// StatusHistoryEntry is append-only.
type StatusHistoryEntry struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	Note      string      `json:"note"`
	CreatedBy string      `gorm:"size:64" json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "order_status_history"
}

type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Method    PaymentMethod   `gorm:"type:VARCHAR(20);not null" json:"method"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status    PaymentStatus   `gorm:"type:VARCHAR(20);not null" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// All lists every table, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Address{},
		&Product{},
		&Cart{},
		&CartItem{},
		&PromoCode{},
		&DeliverySettings{},
		&Order{},
		&OrderItem{},
		&StatusHistoryEntry{},
		&Payment{},
	}
}
