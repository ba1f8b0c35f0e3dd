package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boutique/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// Create persists a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Update saves all fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected ourselves.
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every product regardless of status.
func (r *GORMProductRepository) ListAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListActive returns one page of Active products.
func (r *GORMProductRepository) ListActive(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("status = ?", models.ProductStatusActive).
		Order("id asc").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}

// CountActive returns the number of Active products.
func (r *GORMProductRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return n, nil
}

// ListByCategory returns Active products whose category label matches exactly.
func (r *GORMProductRepository) ListByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("category = ? AND status = ?", category, models.ProductStatusActive).
		Order("id asc").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products in category %q: %w", category, err)
	}
	return products, nil
}

// ListRelated returns up to limit Active products sharing a category label,
// excluding the product itself.
func (r *GORMProductRepository) ListRelated(category string, excludeID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("category = ? AND id != ? AND status = ?",
		category, excludeID, models.ProductStatusActive).
		Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list related products: %w", err)
	}
	return products, nil
}

// Count returns the total number of products.
func (r *GORMProductRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
