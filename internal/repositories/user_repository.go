package repositories

import "geckoland/internal/models"

// UserRepository defines the interface for user profile data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	// GetWithLocation returns every user that has shared coordinates.
	GetWithLocation() ([]models.User, error)
}
