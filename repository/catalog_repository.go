package repository

import (
	"context"
	"errors"

	"food-shop/models"

	"gorm.io/gorm"
)

// CatalogRepository is the read-only view of products, sizes and prices.
// The cart/order core never writes through it.
type CatalogRepository interface {
	Resolve(ctx context.Context, productID, sizeID uint) (*models.CatalogEntry, error)
	FindCategories(ctx context.Context) ([]models.Category, error)
	FindProducts(ctx context.Context, categoryID uint) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uint) (*models.Product, error)
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Resolve returns the catalog entry for a (product, size) pair, or (nil, nil)
// when the combination does not exist.
func (r *GormCatalogRepository) Resolve(ctx context.Context, productID, sizeID uint) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry

	err := r.db.WithContext(ctx).
		Table("product_sizes").
		Select("product_sizes.product_id, product_sizes.size_id, products.name AS name, sizes.name AS size_name, product_sizes.price AS unit_price, product_sizes.discount").
		Joins("JOIN products ON products.id = product_sizes.product_id").
		Joins("JOIN sizes ON sizes.id = product_sizes.size_id").
		Where("product_sizes.product_id = ? AND product_sizes.size_id = ?", productID, sizeID).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormCatalogRepository) FindCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Preload("Products").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCatalogRepository) FindProducts(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product

	query := r.db.WithContext(ctx).Preload("Sizes.Size")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormCatalogRepository) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product

	err := r.db.WithContext(ctx).
		Preload("Sizes.Size").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
