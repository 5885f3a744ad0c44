package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Sizes []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
}

type Size struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// ProductSize is the priced (product, size) combination sold by the shop.
type ProductSize struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_product_size" json:"product_id"`
	SizeID    uint            `gorm:"not null;uniqueIndex:idx_product_size" json:"size_id"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Discount  int             `gorm:"not null;default:0;check:discount >= 0 AND discount <= 100" json:"discount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Size Size `gorm:"foreignKey:SizeID" json:"size"`
}

// CatalogEntry is the read model for one resolvable (product, size) pair.
// UnitPrice is the undiscounted price; FinalPrice applies the discount.
type CatalogEntry struct {
	ProductID uint            `json:"product_id"`
	SizeID    uint            `json:"size_id"`
	Name      string          `json:"name"`
	SizeName  string          `json:"size_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  int             `json:"discount"`
}
