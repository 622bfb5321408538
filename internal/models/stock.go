package models

import "time"

// Stock: one row per product, quantity on hand plus the last restock date.
type Stock struct {
	ID              uint `gorm:"primaryKey"`
	ProductID       uint `gorm:"uniqueIndex;not null"`
	Product         Product
	Quantity        float64   `gorm:"not null"`
	LastRestockDate time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
