package models

import "time"

// Category is an admin-managed grouping keyed by a short display code
// (C001, C002, ...). Products reference categories by label, not by key.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(10)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(10);default:Active"`
	CreatedAt   time.Time `json:"created_at"`
}
