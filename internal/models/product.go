package models

import "time"

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:200;not null"`
	CategoryID uint   `gorm:"index;not null"`
	Category   Category
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier
	Price      float64 `gorm:"not null"`
	Quantity   float64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
