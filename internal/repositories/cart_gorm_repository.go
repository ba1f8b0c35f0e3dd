package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boutique/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create inserts a new cart row. The composite unique index on
// (user_id, product_id) rejects a concurrent duplicate insert.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// GetByID retrieves a cart row with its product preloaded.
func (r *GORMCartRepository) GetByID(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", id, err)
	}
	return &item, nil
}

// GetByUserAndProduct retrieves the single row for a (user, product) pair.
func (r *GORMCartRepository) GetByUserAndProduct(userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item for user %d product %d: %w", userID, productID, err)
	}
	return &item, nil
}

// IncrementQuantity is the compare-and-swap update closing the concurrent
// add race: the quantity only changes when the guarded condition still
// holds at write time.
func (r *GORMCartRepository) IncrementQuantity(id uint, delta, maxQty int) (bool, error) {
	res := r.db.Model(&models.CartItem{}).
		Where("id = ? AND quantity + ? <= ?", id, delta, maxQty).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment cart item %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetQuantity overwrites a row's quantity.
func (r *GORMCartRepository) SetQuantity(id uint, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to set quantity on cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a cart row.
func (r *GORMCartRepository) Delete(id uint) error {
	res := r.db.Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUser removes every cart row belonging to a user.
func (r *GORMCartRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}
	return nil
}

// ListByUser returns a user's cart rows with products preloaded. A row
// whose product was deleted comes back with a zero-valued Product.
func (r *GORMCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %d: %w", userID, err)
	}
	return items, nil
}

// CountByUser returns the number of cart rows for a user.
func (r *GORMCartRepository) CountByUser(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cart for user %d: %w", userID, err)
	}
	return n, nil
}
