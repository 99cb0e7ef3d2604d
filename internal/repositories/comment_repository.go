package repositories

import "geckoland/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	// GetByFeedID returns a feed's comments ordered by creation time ascending.
	GetByFeedID(feedID string) ([]models.Comment, error)
	GetByID(id string) (*models.Comment, error)
	CountByFeedID(feedID string) (int64, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(id string) error
}
