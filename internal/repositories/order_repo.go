package repositories

import (
	"time"

	"boutique/internal/models"
)

// ProductSales is one row of the best-sellers rollup.
type ProductSales struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	TotalSold int    `json:"sales"`
}

// CategorySales is one row of the revenue-by-category rollup.
type CategorySales struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// OrderRepository defines read and status-update operations for orders.
// There is deliberately no Create: order creation is outside this module.
type OrderRepository interface {
	List() ([]models.Order, error)
	ListRecent(limit int) ([]models.Order, error)
	ListSince(t time.Time) ([]models.Order, error)
	Count() (int64, error)
	SumTotal() (float64, error)
	UpdateStatus(id uint, status string) error
	TopProducts(limit int) ([]ProductSales, error)
	TopCategories(limit int) ([]CategorySales, error)
}
