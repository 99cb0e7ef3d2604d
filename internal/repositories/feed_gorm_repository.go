package repositories

import (
	"fmt"

	"geckoland/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFeedRepository is a GORM implementation of FeedRepository.
type GORMFeedRepository struct {
	db *gorm.DB
}

// NewGORMFeedRepository creates a new instance of GORMFeedRepository.
func NewGORMFeedRepository(db *gorm.DB) *GORMFeedRepository {
	return &GORMFeedRepository{
		db: db,
	}
}

// GetAll retrieves all feeds, newest first.
func (r *GORMFeedRepository) GetAll() ([]models.Feed, error) {
	var feeds []models.Feed
	if err := r.db.Order("created_at DESC").Find(&feeds).Error; err != nil {
		return nil, fmt.Errorf("failed to get all feeds: %w", err)
	}
	return feeds, nil
}

// GetByID retrieves a single feed by its ID.
func (r *GORMFeedRepository) GetByID(id string) (*models.Feed, error) {
	var feed models.Feed
	if err := r.db.First(&feed, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("feed with ID %s: %w", id, translateError(err))
	}
	return &feed, nil
}

// GetByUserID retrieves a user's feeds, newest first.
func (r *GORMFeedRepository) GetByUserID(userID string) ([]models.Feed, error) {
	var feeds []models.Feed
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&feeds).Error; err != nil {
		return nil, fmt.Errorf("failed to get feeds for user %s: %w", userID, err)
	}
	return feeds, nil
}

// CountByUserID counts how many feeds a user has posted.
func (r *GORMFeedRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Feed{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count feeds for user %s: %w", userID, err)
	}
	return count, nil
}

// Create inserts a new feed row.
func (r *GORMFeedRepository) Create(feed *models.Feed) error {
	if feed.ID == "" {
		feed.ID = uuid.New().String()
	}
	if err := r.db.Create(feed).Error; err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}
	return nil
}

// Update saves the full feed row.
func (r *GORMFeedRepository) Update(feed *models.Feed) error {
	res := r.db.Save(feed)
	if res.Error != nil {
		return fmt.Errorf("failed to update feed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feed with ID %s for update: %w", feed.ID, ErrNotFound)
	}
	return nil
}

// UpdateLikes replaces the likes array on the feed row. Last writer wins
// when two users update the same row concurrently.
func (r *GORMFeedRepository) UpdateLikes(id string, likes []string) error {
	res := r.db.Model(&models.Feed{}).Where("id = ?", id).Update("likes", likes)
	if res.Error != nil {
		return fmt.Errorf("failed to update likes for feed %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feed with ID %s for like update: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a feed by its ID.
func (r *GORMFeedRepository) Delete(id string) error {
	res := r.db.Delete(&models.Feed{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete feed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feed with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
