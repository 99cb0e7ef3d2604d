package repositories

import "geckoland/internal/models"

// FeedRepository defines the interface for feed data access.
type FeedRepository interface {
	// GetAll returns every feed, newest first.
	GetAll() ([]models.Feed, error)
	GetByID(id string) (*models.Feed, error)
	// GetByUserID returns a user's feeds, newest first.
	GetByUserID(userID string) ([]models.Feed, error)
	CountByUserID(userID string) (int64, error)
	Create(feed *models.Feed) error
	Update(feed *models.Feed) error
	// UpdateLikes replaces the whole likes array on the feed row.
	UpdateLikes(id string, likes []string) error
	Delete(id string) error
}
