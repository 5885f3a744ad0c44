package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusCooking    OrderStatus = "cooking"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusCooking, OrderStatusReady,
		OrderStatusDelivering, OrderStatusCompleted:
		return true
	}
	return false
}

type DeliveryType string

const (
	DeliveryTypePickup  DeliveryType = "pickup"
	DeliveryTypeCourier DeliveryType = "courier"
)

// Order is immutable once created except for Status and UpdatedAt.
// UserOrderID is a per-user sequential counter assigned at confirmation time,
// distinct from the globally unique ID.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_user_order_seq" json:"-"`
	UserOrderID int             `gorm:"not null;uniqueIndex:idx_user_order_seq" json:"user_order_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	Delivery   Delivery    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery"`
}

// OrderItem snapshots name, size name and total price at confirmation time.
// Later catalog changes never alter it.
type OrderItem struct {
	OrderID    uint            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ProductID  uint            `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	SizeID     uint            `gorm:"primaryKey;autoIncrement:false" json:"size_id"`
	Name       string          `gorm:"not null" json:"name"`
	SizeName   string          `gorm:"not null" json:"size_name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
}

type Delivery struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	OrderID         uint         `gorm:"not null;uniqueIndex" json:"order_id"`
	DeliveryType    DeliveryType `gorm:"type:varchar(10);not null" json:"delivery_type"`
	DeliveryAddress *string      `json:"delivery_address"`
}

// DeliveryRequest is the caller-supplied delivery data for order confirmation.
type DeliveryRequest struct {
	DeliveryType    DeliveryType `json:"delivery_type" binding:"required,oneof=pickup courier"`
	DeliveryAddress *string      `json:"delivery_address"`
}
