package models

import (
	"time"

	"gorm.io/gorm"
)

// Product status values. Status is a visibility flag, not a lifecycle.
const (
	ProductStatusActive   = "Active"
	ProductStatusInactive = "Inactive"
)

// Product represents a catalog item. Category is a plain label matched by
// string equality; there is no foreign key to the Category table.
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=2,max=255"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"not null" validate:"required,gt=0"`
	Stock       int     `json:"stock" gorm:"not null" validate:"gte=0"`
	Category    string  `json:"category" gorm:"type:varchar(100)" validate:"required"`
	Image       string  `json:"image" gorm:"type:varchar(500)"`
	Status      string  `json:"status" gorm:"type:varchar(10);default:Active"`
	Details     string  `json:"details" gorm:"type:text"`
	Size        string  `json:"size" gorm:"type:varchar(50)"`
	Color       string  `json:"color" gorm:"type:varchar(50)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// DeriveStatus resolves the visibility flag from the stock level.
func DeriveStatus(stock int) string {
	if stock > 0 {
		return ProductStatusActive
	}
	return ProductStatusInactive
}
