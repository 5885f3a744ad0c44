package services

import (
	"context"
	"fmt"
	"time"

	apperrors "food-shop/errors"
	"food-shop/kafka"
	"food-shop/logger"
	"food-shop/models"
	"food-shop/repository"

	"go.uber.org/zap"
)

// OrderService runs the cart-to-order confirmation workflow and the order
// read side. The relational write is one transaction; the cart clear happens
// after commit and is not part of it. A crash between the two leaves a
// confirmed order with a non-empty cart, so re-confirmation can duplicate
// the order: an accepted at-least-once gap.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	cartService *CartService
	producer    kafka.ProducerAPI
	cache       repository.Cache
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	cartService *CartService,
	producer kafka.ProducerAPI,
	cache repository.Cache,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		cartService: cartService,
		producer:    producer,
		cache:       cache,
	}
}

// orderListCacheKeys are the per-user list entries a new order can change
func orderListCacheKeys(userID uint) []string {
	return []string{
		fmt.Sprintf("orders:%d:all", userID),
		fmt.Sprintf("orders:%d:current", userID),
		fmt.Sprintf("orders:%d:history", userID),
		fmt.Sprintf("orders:%d:status:%s", userID, models.OrderStatusCreated),
	}
}

// Confirm converts the user's live cart into a durable order. OrderItems
// snapshot name, size name and total price exactly as the cart read returned
// them; they are never re-resolved from the catalog.
func (s *OrderService) Confirm(ctx context.Context, userID uint, delivery models.DeliveryRequest) (*models.Order, *apperrors.Error) {
	if delivery.DeliveryType == models.DeliveryTypeCourier &&
		(delivery.DeliveryAddress == nil || *delivery.DeliveryAddress == "") {
		return nil, apperrors.ErrDeliveryAddressRequired
	}

	cart, appErr := s.cartService.GetCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if len(cart.CartItems) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	order := &models.Order{
		UserID:      userID,
		TotalAmount: cart.TotalAmount,
		Status:      models.OrderStatusCreated,
		OrderItems:  make([]models.OrderItem, 0, len(cart.CartItems)),
		Delivery: models.Delivery{
			DeliveryType: delivery.DeliveryType,
		},
	}
	if delivery.DeliveryType == models.DeliveryTypeCourier {
		order.Delivery.DeliveryAddress = delivery.DeliveryAddress
	}
	for _, item := range cart.CartItems {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID:  item.Product.ProductID,
			SizeID:     item.Product.SizeID,
			Name:       item.Product.Name,
			SizeName:   item.Product.SizeName,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}

	// The order is durable from here on. A failed cart clear is logged and
	// swallowed; the caller still gets the order.
	if _, err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		logger.Error(ctx, "Cart clear failed after order commit", err,
			zap.Uint("user_id", userID),
			zap.Uint("order_id", order.ID),
		)
	}

	cacheDelete(ctx, s.cache, orderListCacheKeys(userID)...)

	s.publish(ctx, fmt.Sprintf("user-%d", userID), kafka.OrderCreatedEvent{
		Event:       "order.created",
		OrderID:     order.ID,
		UserID:      userID,
		UserOrderID: order.UserOrderID,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now(),
	})

	return order, nil
}

// ListOrders returns the user's orders, newest first, optionally filtered by
// a single status. Results are cached per user for a short window.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, status string) ([]models.Order, *apperrors.Error) {
	key := fmt.Sprintf("orders:%d:all", userID)
	var statuses []models.OrderStatus
	if status != "" {
		parsed := models.OrderStatus(status)
		if !parsed.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		statuses = append(statuses, parsed)
		key = fmt.Sprintf("orders:%d:status:%s", userID, parsed)
	}

	var cached []models.Order
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	orders, err := s.orderRepo.FindByUserID(ctx, userID, statuses...)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	cacheSet(ctx, s.cache, key, orders)
	return orders, nil
}

// ListHistory returns the user's completed orders
func (s *OrderService) ListHistory(ctx context.Context, userID uint) ([]models.Order, *apperrors.Error) {
	key := fmt.Sprintf("orders:%d:history", userID)
	var cached []models.Order
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	orders, err := s.orderRepo.FindByUserID(ctx, userID, models.OrderStatusCompleted)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	cacheSet(ctx, s.cache, key, orders)
	return orders, nil
}

// ListCurrent returns the user's orders still in progress
func (s *OrderService) ListCurrent(ctx context.Context, userID uint) ([]models.Order, *apperrors.Error) {
	key := fmt.Sprintf("orders:%d:current", userID)
	var cached []models.Order
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	orders, err := s.orderRepo.FindByUserIDExcludingStatus(ctx, userID, models.OrderStatusCompleted)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	cacheSet(ctx, s.cache, key, orders)
	return orders, nil
}

// GetOrder returns one order scoped to its owner. A wrong owner gets the
// same not-found answer as a missing order. The cache key carries the owner,
// so one user's cached order is never served to another.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint) (*models.Order, *apperrors.Error) {
	key := fmt.Sprintf("orders:%d:order:%d", userID, orderID)
	var cached models.Order
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if order == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	cacheSet(ctx, s.cache, key, order)
	return order, nil
}

// RepeatOrder copies a historical order's lines back into the live cart.
// Lines whose (product, size) pair no longer resolves are skipped. Prices
// are not copied: the next cart read resolves them fresh.
func (s *OrderService) RepeatOrder(ctx context.Context, orderID, userID uint) *apperrors.Error {
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if order == nil {
		return apperrors.ErrOrderNotFound
	}

	lineCount, err := s.cartRepo.LineCount(ctx, userID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}

	added := 0
	for _, item := range order.OrderItems {
		entry, err := s.catalogRepo.Resolve(ctx, item.ProductID, item.SizeID)
		if err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
		if entry == nil {
			logger.Warn(ctx, "Skipping repeated order item with missing catalog entry",
				zap.Uint("order_id", orderID),
				zap.Uint("product_id", item.ProductID),
				zap.Uint("size_id", item.SizeID),
			)
			continue
		}

		line := models.CartLine{
			ProductID: item.ProductID,
			SizeID:    item.SizeID,
			Quantity:  item.Quantity,
		}
		if err := s.cartRepo.SaveLine(ctx, userID, line); err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
		added++
	}

	if lineCount == 0 && added > 0 {
		if err := s.cartRepo.ExpireCart(ctx, userID); err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, key string, event any) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		logger.Warn(ctx, "Event publish failed", zap.Error(err))
	}
}
