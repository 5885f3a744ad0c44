package repository

import (
	"testing"

	"food-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sequencedInsert mimics the transactional insert: it assigns the next
// sequence number and the keys gorm would fill in, then reports whatever the
// ledger decided for this attempt.
func sequencedInsert(order *models.Order, results []error) (func() error, *int) {
	attempts := 0
	return func() error {
		err := results[attempts]
		attempts++
		order.UserOrderID = attempts
		order.ID = uint(100 + attempts)
		order.Delivery.ID = uint(200 + attempts)
		order.Delivery.OrderID = order.ID
		for i := range order.OrderItems {
			order.OrderItems[i].OrderID = order.ID
		}
		return err
	}, &attempts
}

func TestCreateWithSequenceRetry(t *testing.T) {
	t.Run("duplicate sequence is retried with fresh keys", func(t *testing.T) {
		order := &models.Order{
			UserID:     7,
			OrderItems: []models.OrderItem{{ProductID: 1, SizeID: 1, Quantity: 2}},
		}
		insert, attempts := sequencedInsert(order, []error{gorm.ErrDuplicatedKey, nil})

		err := createWithSequenceRetry(order, insert)

		require.NoError(t, err)
		assert.Equal(t, 2, *attempts)
		assert.Equal(t, 2, order.UserOrderID)
	})

	t.Run("gives up after three duplicate rollbacks", func(t *testing.T) {
		order := &models.Order{UserID: 7}
		insert, attempts := sequencedInsert(order, []error{
			gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey,
		})

		err := createWithSequenceRetry(order, insert)

		require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		assert.Equal(t, 3, *attempts)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		order := &models.Order{UserID: 7}
		insert, attempts := sequencedInsert(order, []error{assert.AnError, nil})

		err := createWithSequenceRetry(order, insert)

		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, *attempts)
	})
}

func TestResetAssignedIDs(t *testing.T) {
	order := &models.Order{
		ID:     101,
		UserID: 7,
		OrderItems: []models.OrderItem{
			{OrderID: 101, ProductID: 1, SizeID: 1, Quantity: 2},
			{OrderID: 101, ProductID: 2, SizeID: 2, Quantity: 1},
		},
		Delivery: models.Delivery{ID: 201, OrderID: 101, DeliveryType: models.DeliveryTypePickup},
	}

	resetAssignedIDs(order)

	assert.Zero(t, order.ID)
	assert.Zero(t, order.Delivery.ID)
	assert.Zero(t, order.Delivery.OrderID)
	for _, item := range order.OrderItems {
		assert.Zero(t, item.OrderID)
	}
	assert.Equal(t, uint(7), order.UserID, "owner must survive a reset")
	assert.Len(t, order.OrderItems, 2)
}
