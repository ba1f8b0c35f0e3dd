package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"boutique/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// List returns all orders with customer and lines preloaded.
func (r *GORMOrderRepository) List() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("User").Preload("Details").Order("order_date desc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListRecent returns the most recent orders, newest first.
func (r *GORMOrderRepository) ListRecent(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("User").Order("order_date desc").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// ListSince returns orders placed at or after t.
func (r *GORMOrderRepository) ListSince(t time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("order_date >= ?", t).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders since %s: %w", t.Format(time.RFC3339), err)
	}
	return orders, nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// SumTotal returns the sum of all order totals.
func (r *GORMOrderRepository) SumTotal() (float64, error) {
	var sum float64
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

// UpdateStatus overwrites an order's status.
func (r *GORMOrderRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TopProducts returns the products with the highest summed line quantity.
func (r *GORMOrderRepository) TopProducts(limit int) ([]ProductSales, error) {
	var out []ProductSales
	err := r.db.Model(&models.OrderDetail{}).
		Select("products.name AS name, products.category AS category, SUM(order_details.quantity) AS total_sold").
		Joins("JOIN products ON products.id = order_details.product_id").
		Group("products.id, products.name, products.category").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return out, nil
}

// TopCategories returns the category labels with the highest line revenue.
func (r *GORMOrderRepository) TopCategories(limit int) ([]CategorySales, error) {
	var out []CategorySales
	err := r.db.Model(&models.OrderDetail{}).
		Select("products.category AS name, SUM(order_details.quantity * order_details.price) AS sales").
		Joins("JOIN products ON products.id = order_details.product_id").
		Group("products.category").
		Order("sales DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	return out, nil
}
