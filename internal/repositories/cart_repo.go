package repositories

import "boutique/internal/models"

// CartRepository defines persistence operations for cart rows. Lookup
// methods return (nil, nil) when no row matches.
type CartRepository interface {
	Create(item *models.CartItem) error
	GetByID(id uint) (*models.CartItem, error)
	GetByUserAndProduct(userID, productID uint) (*models.CartItem, error)
	// IncrementQuantity adds delta to a row's quantity only if the result
	// stays within maxQty, reporting whether the guarded update applied.
	IncrementQuantity(id uint, delta, maxQty int) (bool, error)
	SetQuantity(id uint, quantity int) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
	ListByUser(userID uint) ([]models.CartItem, error)
	CountByUser(userID uint) (int64, error)
}
