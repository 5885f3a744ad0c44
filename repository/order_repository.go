package repository

import (
	"context"
	"errors"

	"food-shop/models"

	"gorm.io/gorm"
)

// maxSequenceRetries bounds how often a confirmation retries after losing a
// user_order_id race to a concurrent confirmation by the same user.
const maxSequenceRetries = 3

// OrderRepository defines the order ledger access contract
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUserID(ctx context.Context, userID uint, statuses ...models.OrderStatus) ([]models.Order, error)
	FindByUserIDExcludingStatus(ctx context.Context, userID uint, status models.OrderStatus) ([]models.Order, error)
	FindByIDAndUserID(ctx context.Context, orderID, userID uint) (*models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists an order with its items and delivery in one transaction.
// The per-user sequence number is computed inside the transaction; the unique
// (user_id, user_order_id) index turns a concurrent duplicate into
// ErrDuplicatedKey, which is retried with a fresh sequence number.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return createWithSequenceRetry(order, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxSeq int
			if err := tx.Model(&models.Order{}).
				Where("user_id = ?", order.UserID).
				Select("COALESCE(MAX(user_order_id), 0)").
				Scan(&maxSeq).Error; err != nil {
				return err
			}
			order.UserOrderID = maxSeq + 1

			return tx.Create(order).Error
		})
	})
}

// createWithSequenceRetry runs insert up to maxSequenceRetries times,
// retrying only on a duplicate-key rollback and clearing the keys gorm
// assigned so the next attempt inserts fresh rows. Any other error, and the
// final duplicate, are returned as-is.
func createWithSequenceRetry(order *models.Order, insert func() error) error {
	var err error
	for attempt := 0; attempt < maxSequenceRetries; attempt++ {
		err = insert()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		resetAssignedIDs(order)
	}
	return err
}

// resetAssignedIDs clears primary and foreign keys gorm filled in during a
// rolled-back create, so the next attempt inserts fresh rows.
func resetAssignedIDs(order *models.Order) {
	order.ID = 0
	order.Delivery.ID = 0
	order.Delivery.OrderID = 0
	for i := range order.OrderItems {
		order.OrderItems[i].OrderID = 0
	}
}

// FindByUserID retrieves a user's orders, newest first, optionally filtered
// to the given statuses.
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uint, statuses ...models.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var orders []models.Order
	if err := query.
		Preload("OrderItems").
		Preload("Delivery").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByUserIDExcludingStatus retrieves a user's orders in any status except
// the given one, newest first.
func (r *GormOrderRepository) FindByUserIDExcludingStatus(ctx context.Context, userID uint, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, status).
		Preload("OrderItems").
		Preload("Delivery").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByIDAndUserID retrieves one order scoped by both id and owner. A
// mismatched owner reads as (nil, nil), indistinguishable from a missing
// order.
func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("Delivery").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
