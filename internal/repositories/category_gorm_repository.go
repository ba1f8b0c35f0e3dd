package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boutique/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// Create persists a new category.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by its short code.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category %q: %w", id, err)
	}
	return &category, nil
}

// Update saves all fields of an existing category.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	res := r.db.Save(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category %q: %w", category.ID, res.Error)
	}
	return nil
}

// Delete removes a category by its short code.
func (r *GORMCategoryRepository) Delete(id string) error {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns all categories ordered by code.
func (r *GORMCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Count returns the total number of categories.
func (r *GORMCategoryRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Category{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}
