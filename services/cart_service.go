package services

import (
	"context"
	"sort"

	apperrors "food-shop/errors"
	"food-shop/logger"
	"food-shop/models"
	"food-shop/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService orchestrates cart mutations against the redis-backed cart
// store, validating every referenced (product, size) pair against the
// catalog. All operations are scoped to a single user.
type CartService struct {
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
}

func NewCartService(cartRepo repository.CartRepository, catalogRepo repository.CatalogRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
	}
}

// AddItem adds one unit of a (product, size) pair to the user's cart,
// incrementing the quantity if the line already exists. The cart TTL is set
// only when the cart had no lines before this write.
//
// The increment is a read-modify-write against redis; two concurrent adds
// for the same line can lose one increment. Accepted tradeoff for a
// best-effort cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID, sizeID uint) *apperrors.Error {
	entry, err := s.catalogRepo.Resolve(ctx, productID, sizeID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if entry == nil {
		return apperrors.ErrProductNotFound
	}

	line, err := s.cartRepo.GetLine(ctx, userID, productID, sizeID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if line == nil {
		line = &models.CartLine{ProductID: productID, SizeID: sizeID, Quantity: 0}
	}
	line.Quantity++

	lineCount, err := s.cartRepo.LineCount(ctx, userID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}

	if err := s.cartRepo.SaveLine(ctx, userID, *line); err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if lineCount == 0 {
		if err := s.cartRepo.ExpireCart(ctx, userID); err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
	}
	return nil
}

// UpdateItem replaces the quantity of an existing cart line. The line must
// exist and the (product, size) pair must still resolve in the catalog.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID, sizeID uint, quantity int) *apperrors.Error {
	if quantity < 1 {
		return apperrors.ErrInvalidQuantity
	}

	entry, err := s.catalogRepo.Resolve(ctx, productID, sizeID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if entry == nil {
		return apperrors.ErrProductNotFound
	}

	line, err := s.cartRepo.GetLine(ctx, userID, productID, sizeID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if line == nil {
		return apperrors.ErrCartItemNotFound
	}

	line.Quantity = quantity
	if err := s.cartRepo.SaveLine(ctx, userID, *line); err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// GetCart returns the user's cart with live catalog data and totals. Lines
// whose (product, size) pair no longer resolves are deleted from the store
// and excluded from the result.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.CartView, *apperrors.Error) {
	lines, err := s.cartRepo.GetAllLines(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].SizeID < lines[j].SizeID
	})

	// two fractional digits even when empty, so the wire shape is stable
	view := &models.CartView{
		CartItems:   []models.CartItemView{},
		TotalAmount: decimal.NewFromInt(0).Round(2),
	}
	for _, line := range lines {
		entry, err := s.catalogRepo.Resolve(ctx, line.ProductID, line.SizeID)
		if err != nil {
			return nil, apperrors.ErrStoreUnavailable.Wrap(err)
		}
		if entry == nil {
			logger.Warn(ctx, "Dropping cart line with missing catalog entry",
				zap.Uint("user_id", userID),
				zap.Uint("product_id", line.ProductID),
				zap.Uint("size_id", line.SizeID),
			)
			if _, err := s.cartRepo.DeleteLine(ctx, userID, line.ProductID, line.SizeID); err != nil {
				return nil, apperrors.ErrStoreUnavailable.Wrap(err)
			}
			continue
		}

		totalPrice := LineTotal(FinalPrice(entry.UnitPrice, entry.Discount), line.Quantity)
		view.CartItems = append(view.CartItems, models.CartItemView{
			Product:    *entry,
			Quantity:   line.Quantity,
			TotalPrice: totalPrice,
		})
		view.TotalAmount = view.TotalAmount.Add(totalPrice)
	}
	return view, nil
}

// GetItem returns a single cart line with live catalog data
func (s *CartService) GetItem(ctx context.Context, userID, productID, sizeID uint) (*models.CartItemView, *apperrors.Error) {
	line, err := s.cartRepo.GetLine(ctx, userID, productID, sizeID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if line == nil {
		return nil, apperrors.ErrCartItemNotFound
	}

	entry, err := s.catalogRepo.Resolve(ctx, productID, sizeID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if entry == nil {
		return nil, apperrors.ErrProductNotFound
	}

	totalPrice := LineTotal(FinalPrice(entry.UnitPrice, entry.Discount), line.Quantity)
	return &models.CartItemView{
		Product:    *entry,
		Quantity:   line.Quantity,
		TotalPrice: totalPrice,
	}, nil
}

// RemoveItem deletes one cart line
func (s *CartService) RemoveItem(ctx context.Context, userID, productID, sizeID uint) *apperrors.Error {
	removed, err := s.cartRepo.DeleteLine(ctx, userID, productID, sizeID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if !removed {
		return apperrors.ErrCartItemNotFound
	}
	return nil
}

// ClearCart deletes the user's whole cart. Clearing an already-empty cart is
// reported as not found so callers can tell there was nothing to clear.
func (s *CartService) ClearCart(ctx context.Context, userID uint) *apperrors.Error {
	deleted, err := s.cartRepo.DeleteCart(ctx, userID)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if !deleted {
		return apperrors.ErrCartNotFound
	}
	return nil
}
