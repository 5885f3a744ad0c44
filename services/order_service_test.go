package services

import (
	"context"
	"testing"

	apperrors "food-shop/errors"
	"food-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// fakeOrderLedger is an in-memory stand-in for the relational ledger. It
// assigns user_order_id the same way the real repository does: one past the
// user's current maximum.
type fakeOrderLedger struct {
	orders []models.Order
	nextID uint
}

func (f *fakeOrderLedger) Create(_ context.Context, order *models.Order) error {
	maxSeq := 0
	for _, existing := range f.orders {
		if existing.UserID == order.UserID && existing.UserOrderID > maxSeq {
			maxSeq = existing.UserOrderID
		}
	}
	order.UserOrderID = maxSeq + 1
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderLedger) FindByUserID(_ context.Context, userID uint, statuses ...models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if o.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderLedger) FindByUserIDExcludingStatus(_ context.Context, userID uint, status models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID && o.Status != status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderLedger) FindByIDAndUserID(_ context.Context, orderID, userID uint) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.UserID == userID {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	const userID = uint(7)

	newCartWith := func(cartRepo *MockCartRepository, catalogRepo *MockCatalogRepository) {
		cartRepo.On("GetAllLines", ctx, userID).Return([]models.CartLine{
			{ProductID: 1, SizeID: 1, Quantity: 2},
			{ProductID: 2, SizeID: 2, Quantity: 1},
		}, nil).Once()
		catalogRepo.On("Resolve", ctx, uint(1), uint(1)).Return(catalogEntry(1, 1, "Margherita", "Small", "5.00", 0), nil).Once()
		catalogRepo.On("Resolve", ctx, uint(2), uint(2)).Return(catalogEntry(2, 2, "Pepperoni", "Large", "3.50", 0), nil).Once()
	}

	t.Run("snapshots items and clears the cart after commit", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		producer := new(MockProducer)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, producer, nil)

		newCartWith(cartRepo, catalogRepo)
		orderRepo.On("Create", ctx, mock.MatchedBy(func(order *models.Order) bool {
			return order.UserID == userID &&
				len(order.OrderItems) == 2 &&
				order.Status == models.OrderStatusCreated &&
				dec("13.50").Equal(order.TotalAmount)
		})).Return(nil).Once()
		cartRepo.On("DeleteCart", ctx, userID).Return(true, nil).Once()
		producer.On("Publish", ctx, "user-7", mock.Anything).Return(nil).Once()

		order, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{
			DeliveryType:    models.DeliveryTypeCourier,
			DeliveryAddress: strPtr("Test Address"),
		})

		require.Nil(t, appErr)
		require.Len(t, order.OrderItems, 2)
		assert.Equal(t, "Margherita", order.OrderItems[0].Name)
		assert.Equal(t, "Small", order.OrderItems[0].SizeName)
		assert.True(t, dec("10.00").Equal(order.OrderItems[0].TotalPrice))
		assert.True(t, dec("3.50").Equal(order.OrderItems[1].TotalPrice))
		assert.True(t, dec("13.50").Equal(order.TotalAmount))
		assert.Equal(t, models.DeliveryTypeCourier, order.Delivery.DeliveryType)
		require.NotNil(t, order.Delivery.DeliveryAddress)
		assert.Equal(t, "Test Address", *order.Delivery.DeliveryAddress)
		cartRepo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("empty cart fails without any write", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, nil, nil)

		cartRepo.On("GetAllLines", ctx, userID).Return([]models.CartLine{}, nil).Once()

		_, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrEmptyCart, appErr)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		cartRepo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
	})

	t.Run("courier delivery requires an address", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, new(MockCatalogRepository))
		svc := NewOrderService(orderRepo, cartRepo, new(MockCatalogRepository), cartService, nil, nil)

		_, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypeCourier})

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrDeliveryAddressRequired, appErr)
		cartRepo.AssertNotCalled(t, "GetAllLines", mock.Anything, mock.Anything)
	})

	t.Run("pickup delivery carries no address", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, nil, nil)

		newCartWith(cartRepo, catalogRepo)
		orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		cartRepo.On("DeleteCart", ctx, userID).Return(true, nil).Once()

		order, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{
			DeliveryType:    models.DeliveryTypePickup,
			DeliveryAddress: strPtr("ignored"),
		})

		require.Nil(t, appErr)
		assert.Nil(t, order.Delivery.DeliveryAddress)
	})

	t.Run("ledger failure keeps the cart intact", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, nil, nil)

		newCartWith(cartRepo, catalogRepo)
		orderRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		_, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrStoreUnavailable.Code, appErr.Code)
		cartRepo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
	})

	t.Run("failed cart clear does not fail the confirmation", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, nil, nil)

		newCartWith(cartRepo, catalogRepo)
		orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		cartRepo.On("DeleteCart", ctx, userID).Return(false, assert.AnError).Once()

		order, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})

		require.Nil(t, appErr)
		assert.NotNil(t, order)
	})
}

func TestConfirmSequencesUserOrderIDs(t *testing.T) {
	ctx := context.Background()
	const userID = uint(7)

	ledger := &fakeOrderLedger{}
	for seq := 1; seq <= 3; seq++ {
		require.NoError(t, ledger.Create(ctx, &models.Order{UserID: userID, Status: models.OrderStatusCompleted}))
	}

	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	cartService := NewCartService(cartRepo, catalogRepo)
	svc := NewOrderService(ledger, cartRepo, catalogRepo, cartService, nil, nil)

	cartRepo.On("GetAllLines", ctx, userID).Return([]models.CartLine{{ProductID: 1, SizeID: 1, Quantity: 1}}, nil)
	catalogRepo.On("Resolve", ctx, uint(1), uint(1)).Return(catalogEntry(1, 1, "Margherita", "Small", "5.00", 0), nil)
	cartRepo.On("DeleteCart", ctx, userID).Return(true, nil)

	order, appErr := svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})
	require.Nil(t, appErr)
	assert.Equal(t, 4, order.UserOrderID)

	// a fresh user starts at 1
	cartRepo.On("GetAllLines", ctx, uint(8)).Return([]models.CartLine{{ProductID: 1, SizeID: 1, Quantity: 1}}, nil)
	cartRepo.On("DeleteCart", ctx, uint(8)).Return(true, nil)

	first, appErr := svc.Confirm(ctx, uint(8), models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})
	require.Nil(t, appErr)
	assert.Equal(t, 1, first.UserOrderID)
}

func TestOrderReadCache(t *testing.T) {
	ctx := context.Background()
	const userID = uint(7)

	t.Run("second list read is served without hitting the ledger", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, newFakeCache())

		orderRepo.On("FindByUserID", ctx, userID, []models.OrderStatus(nil)).
			Return([]models.Order{{ID: 1, UserID: userID, Status: models.OrderStatusCreated}}, nil).Once()

		first, appErr := svc.ListOrders(ctx, userID, "")
		require.Nil(t, appErr)

		second, appErr := svc.ListOrders(ctx, userID, "")
		require.Nil(t, appErr)

		assert.Equal(t, len(first), len(second))
		assert.Equal(t, first[0].ID, second[0].ID)
		orderRepo.AssertNumberOfCalls(t, "FindByUserID", 1)
	})

	t.Run("status-filtered reads use separate cache entries", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, newFakeCache())

		orderRepo.On("FindByUserID", ctx, userID, []models.OrderStatus(nil)).
			Return([]models.Order{{ID: 1}, {ID: 2}}, nil).Once()
		orderRepo.On("FindByUserID", ctx, userID, []models.OrderStatus{models.OrderStatusCooking}).
			Return([]models.Order{{ID: 2, Status: models.OrderStatusCooking}}, nil).Once()

		all, appErr := svc.ListOrders(ctx, userID, "")
		require.Nil(t, appErr)
		require.Len(t, all, 2)

		cooking, appErr := svc.ListOrders(ctx, userID, "cooking")
		require.Nil(t, appErr)
		require.Len(t, cooking, 1)
		orderRepo.AssertExpectations(t)
	})

	t.Run("confirmation invalidates the cached lists", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		cartService := NewCartService(cartRepo, catalogRepo)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, cartService, nil, newFakeCache())

		orderRepo.On("FindByUserID", ctx, userID, []models.OrderStatus(nil)).
			Return([]models.Order{{ID: 1}}, nil).Once()
		before, appErr := svc.ListOrders(ctx, userID, "")
		require.Nil(t, appErr)
		require.Len(t, before, 1)

		cartRepo.On("GetAllLines", ctx, userID).Return([]models.CartLine{{ProductID: 1, SizeID: 1, Quantity: 1}}, nil).Once()
		catalogRepo.On("Resolve", ctx, uint(1), uint(1)).Return(catalogEntry(1, 1, "Margherita", "Small", "5.00", 0), nil).Once()
		orderRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		cartRepo.On("DeleteCart", ctx, userID).Return(true, nil).Once()
		_, appErr = svc.Confirm(ctx, userID, models.DeliveryRequest{DeliveryType: models.DeliveryTypePickup})
		require.Nil(t, appErr)

		orderRepo.On("FindByUserID", ctx, userID, []models.OrderStatus(nil)).
			Return([]models.Order{{ID: 2}, {ID: 1}}, nil).Once()
		after, appErr := svc.ListOrders(ctx, userID, "")
		require.Nil(t, appErr)
		assert.Len(t, after, 2)
		orderRepo.AssertExpectations(t)
	})

	t.Run("a cached order is never served to another user", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, newFakeCache())

		orderRepo.On("FindByIDAndUserID", ctx, uint(5), userID).Return(&models.Order{ID: 5, UserID: userID}, nil).Once()
		orderRepo.On("FindByIDAndUserID", ctx, uint(5), uint(8)).Return(nil, nil).Once()

		_, appErr := svc.GetOrder(ctx, 5, userID)
		require.Nil(t, appErr)

		_, appErr = svc.GetOrder(ctx, 5, 8)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrOrderNotFound, appErr)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads the order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, nil)

		orderRepo.On("FindByIDAndUserID", ctx, uint(5), uint(7)).Return(&models.Order{ID: 5, UserID: 7}, nil).Once()

		order, appErr := svc.GetOrder(ctx, 5, 7)

		require.Nil(t, appErr)
		assert.Equal(t, uint(5), order.ID)
	})

	t.Run("another user's order reads as not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, nil)

		orderRepo.On("FindByIDAndUserID", ctx, uint(5), uint(8)).Return(nil, nil).Once()

		_, appErr := svc.GetOrder(ctx, 5, 8)

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrOrderNotFound, appErr)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status filter is rejected", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockCartRepository), new(MockCatalogRepository), nil, nil, nil)

		_, appErr := svc.ListOrders(ctx, 7, "shipped")

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrInvalidStatus, appErr)
	})

	t.Run("filters by a valid status", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, nil)

		orderRepo.On("FindByUserID", ctx, uint(7), []models.OrderStatus{models.OrderStatusCooking}).
			Return([]models.Order{{ID: 1, Status: models.OrderStatusCooking}}, nil).Once()

		orders, appErr := svc.ListOrders(ctx, 7, "cooking")

		require.Nil(t, appErr)
		require.Len(t, orders, 1)
	})
}

func TestRepeatOrder(t *testing.T) {
	ctx := context.Background()
	const userID = uint(7)

	t.Run("re-adds resolvable lines and skips deleted ones", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewOrderService(orderRepo, cartRepo, catalogRepo, nil, nil, nil)

		orderRepo.On("FindByIDAndUserID", ctx, uint(5), userID).Return(&models.Order{
			ID:     5,
			UserID: userID,
			OrderItems: []models.OrderItem{
				{ProductID: 1, SizeID: 1, Quantity: 2},
				{ProductID: 9, SizeID: 9, Quantity: 1},
			},
		}, nil).Once()
		cartRepo.On("LineCount", ctx, userID).Return(int64(0), nil).Once()
		catalogRepo.On("Resolve", ctx, uint(1), uint(1)).Return(catalogEntry(1, 1, "Margherita", "Small", "5.00", 0), nil).Once()
		catalogRepo.On("Resolve", ctx, uint(9), uint(9)).Return(nil, nil).Once()
		cartRepo.On("SaveLine", ctx, userID, models.CartLine{ProductID: 1, SizeID: 1, Quantity: 2}).Return(nil).Once()
		cartRepo.On("ExpireCart", ctx, userID).Return(nil).Once()

		appErr := svc.RepeatOrder(ctx, 5, userID)

		assert.Nil(t, appErr)
		cartRepo.AssertExpectations(t)
		cartRepo.AssertNotCalled(t, "SaveLine", ctx, userID, models.CartLine{ProductID: 9, SizeID: 9, Quantity: 1})
	})

	t.Run("another user's order reads as not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), nil, nil, nil)

		orderRepo.On("FindByIDAndUserID", ctx, uint(5), userID).Return(nil, nil).Once()

		appErr := svc.RepeatOrder(ctx, 5, userID)

		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrOrderNotFound, appErr)
	})
}
