package repositories

import "boutique/internal/models"

// CategoryRepository defines persistence operations for categories.
// GetByID returns (nil, nil) when no row matches.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id string) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id string) error
	List() ([]models.Category, error)
	Count() (int64, error)
}
