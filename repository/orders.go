package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error, "create order")
}

func (r *OrderRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(payment).Error, "create payment")
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

func (r *OrderRepository) Find(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := withDetails(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, translate(err, "find order")
	}
	return &o, nil
}

// FindForUpdate locks the order row; items and history are read without locks.
func (r *OrderRepository) FindForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	db := r.db.WithContext(ctx)
	if err := db.Clauses(forUpdate).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err, "lock order")
	}
	if err := db.Where("order_id = ?", id).Find(&o.Items).Error; err != nil {
		return nil, translate(err, "load order items")
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err, "list orders")
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.db.WithContext(ctx)).Order("created_at DESC").Find(&orders).Error
	return orders, translate(err, "list orders")
}

// Update writes the non-nil changes. A payment status change is mirrored on
// the payment record when the order has one.
func (r *OrderRepository) Update(ctx context.Context, id uint, ch models.OrderChanges) error {
	cols := map[string]interface{}{}
	if ch.Status != nil {
		cols["status"] = *ch.Status
	}
	if ch.PaymentStatus != nil {
		cols["payment_status"] = *ch.PaymentStatus
	}
	if ch.CancelReason != nil {
		cols["cancel_reason"] = *ch.CancelReason
	}
	if ch.DriverID != nil {
		cols["driver_id"] = *ch.DriverID
	}
	if ch.DeliveredAt != nil {
		cols["delivered_at"] = *ch.DeliveredAt
	}
	if len(cols) == 0 {
		return nil
	}

	db := r.db.WithContext(ctx)
	res := db.Model(&models.Order{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error, "update order")
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}

	if ch.PaymentStatus != nil {
		err := db.Model(&models.Payment{}).Where("order_id = ?", id).
			Update("status", *ch.PaymentStatus).Error
		if err != nil {
			return translate(err, "update payment")
		}
	}
	return nil
}

func (r *OrderRepository) AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "append status history")
}
