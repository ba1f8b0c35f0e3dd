package models

import "time"

// Order status values.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order. There is no order-creation path in
// this module; orders are listed, reported on, and status-managed only.
type Order struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	TotalAmount float64   `json:"total_amount" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(12);default:Pending"`
	OrderDate   time.Time `json:"order_date" gorm:"autoCreateTime"`

	User    User          `json:"-" gorm:"foreignKey:UserID"`
	Details []OrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderDetail is a single order line. Price is the unit price captured at
// order time and never tracks later product price changes.
type OrderDetail struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`

	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}
