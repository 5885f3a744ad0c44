package models

import "github.com/shopspring/decimal"

// CartLine is the JSON value stored per (product, size) field in a user's
// redis cart hash. Quantity is always >= 1; a line dropping to zero is
// deleted, never kept.
type CartLine struct {
	ProductID uint `json:"product_id"`
	SizeID    uint `json:"size_id"`
	Quantity  int  `json:"quantity"`
}

// CartItemView is one cart line joined with its live catalog entry.
type CartItemView struct {
	Product    CatalogEntry    `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartView struct {
	CartItems   []CartItemView  `json:"cart_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
