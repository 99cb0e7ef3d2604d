package repositories

import (
	"fmt"

	"geckoland/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// GetByFeedID retrieves a feed's comments ordered by creation time ascending.
func (r *GORMCommentRepository) GetByFeedID(feedID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("feed_id = ?", feedID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to get comments for feed %s: %w", feedID, err)
	}
	return comments, nil
}

// GetByID retrieves a single comment by its ID.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("comment with ID %s: %w", id, translateError(err))
	}
	return &comment, nil
}

// CountByFeedID counts the comments referencing a feed.
func (r *GORMCommentRepository) CountByFeedID(feedID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("feed_id = ?", feedID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments for feed %s: %w", feedID, err)
	}
	return count, nil
}

// Create inserts a new comment row.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// Update saves the full comment row.
func (r *GORMCommentRepository) Update(comment *models.Comment) error {
	res := r.db.Save(comment)
	if res.Error != nil {
		return fmt.Errorf("failed to update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %s for update: %w", comment.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
