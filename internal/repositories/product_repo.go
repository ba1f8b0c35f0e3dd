package repositories

import "boutique/internal/models"

// ProductRepository defines persistence operations for catalog products.
// GetByID returns (nil, nil) when no row matches.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	ListAll() ([]models.Product, error)
	ListActive(offset, limit int) ([]models.Product, error)
	CountActive() (int64, error)
	ListByCategory(category string) ([]models.Product, error)
	ListRelated(category string, excludeID uint, limit int) ([]models.Product, error)
	Count() (int64, error)
}
