package models

import "time"

// CartItem is one (user, product, quantity) row of a shopping cart. The
// composite unique index guarantees a single row per pair at the storage
// layer; the application treats a duplicate-key insert as "increment the
// existing row instead".
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	AddedAt   time.Time `json:"added_at" gorm:"autoCreateTime"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}
