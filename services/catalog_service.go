package services

import (
	"context"
	"fmt"

	apperrors "food-shop/errors"
	"food-shop/models"
	"food-shop/repository"

	"github.com/shopspring/decimal"
)

// ProductSizeOut is a priced size option with its discount applied
type ProductSizeOut struct {
	SizeID     uint            `json:"size_id"`
	SizeName   string          `json:"size_name"`
	Price      decimal.Decimal `json:"price"`
	Discount   int             `json:"discount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

type ProductOut struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CategoryID  uint             `json:"category_id"`
	Sizes       []ProductSizeOut `json:"sizes"`
}

// CatalogService serves the read-only product listing endpoints. Results are
// cached in redis for a short window; prices changing mid-window is acceptable
// since the cart and order flows resolve prices live.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	cache       repository.Cache
}

func NewCatalogService(catalogRepo repository.CatalogRepository, cache repository.Cache) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cache:       cache,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, *apperrors.Error) {
	const key = "catalog:categories"

	var cached []models.Category
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	categories, err := s.catalogRepo.FindCategories(ctx)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	cacheSet(ctx, s.cache, key, categories)
	return categories, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID uint) ([]ProductOut, *apperrors.Error) {
	key := fmt.Sprintf("catalog:products:%d", categoryID)

	var cached []ProductOut
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	products, err := s.catalogRepo.FindProducts(ctx, categoryID)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}

	out := make([]ProductOut, 0, len(products))
	for _, p := range products {
		out = append(out, toProductOut(p))
	}
	cacheSet(ctx, s.cache, key, out)
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductOut, *apperrors.Error) {
	key := fmt.Sprintf("catalog:product:%d", id)

	var cached ProductOut
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	product, err := s.catalogRepo.FindProductByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if product == nil {
		return nil, apperrors.ErrProductNotFound
	}
	out := toProductOut(*product)
	cacheSet(ctx, s.cache, key, out)
	return &out, nil
}

func toProductOut(p models.Product) ProductOut {
	out := ProductOut{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Sizes:       make([]ProductSizeOut, 0, len(p.Sizes)),
	}
	for _, ps := range p.Sizes {
		out.Sizes = append(out.Sizes, ProductSizeOut{
			SizeID:     ps.SizeID,
			SizeName:   ps.Size.Name,
			Price:      ps.Price,
			Discount:   ps.Discount,
			FinalPrice: FinalPrice(ps.Price, ps.Discount),
		})
	}
	return out
}
