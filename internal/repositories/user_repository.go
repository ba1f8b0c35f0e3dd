package repositories

import "boutique/internal/models"

// UserRepository defines persistence operations for users. Lookup methods
// return (nil, nil) when no row matches.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByName(name string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List() ([]models.User, error)
	Count() (int64, error)
}
