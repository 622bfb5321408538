package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type PurchaseOrder struct {
	ID              uint `gorm:"primaryKey"`
	SupplierID      uint `gorm:"index;not null"`
	Supplier        Supplier
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	QuantityOrdered float64     `gorm:"not null"`
	OrderDate       time.Time   `gorm:"not null"`
	UnitPrice       float64     `gorm:"not null"`
	Status          OrderStatus `gorm:"size:20;not null;default:Pending"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
