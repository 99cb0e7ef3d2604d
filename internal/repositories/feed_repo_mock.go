package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"geckoland/internal/models"

	"github.com/google/uuid"
)

// MockFeedRepository is an in-memory implementation of FeedRepository.
type MockFeedRepository struct {
	feeds map[string]models.Feed
	mu    sync.RWMutex
}

// NewMockFeedRepository creates a new instance of MockFeedRepository.
func NewMockFeedRepository() *MockFeedRepository {
	return &MockFeedRepository{
		feeds: make(map[string]models.Feed),
	}
}

// GetAll returns all feeds, newest first.
func (r *MockFeedRepository) GetAll() ([]models.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feedList := make([]models.Feed, 0, len(r.feeds))
	for _, f := range r.feeds {
		feedList = append(feedList, f)
	}
	sort.Slice(feedList, func(i, j int) bool {
		return feedList[i].CreatedAt.After(feedList[j].CreatedAt)
	})
	return feedList, nil
}

// GetByID returns a feed by its ID.
func (r *MockFeedRepository) GetByID(id string) (*models.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feed, ok := r.feeds[id]
	if !ok {
		return nil, fmt.Errorf("feed with ID %s: %w", id, ErrNotFound)
	}
	return &feed, nil
}

// GetByUserID returns a user's feeds, newest first.
func (r *MockFeedRepository) GetByUserID(userID string) ([]models.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var feedList []models.Feed
	for _, f := range r.feeds {
		if f.UserID == userID {
			feedList = append(feedList, f)
		}
	}
	sort.Slice(feedList, func(i, j int) bool {
		return feedList[i].CreatedAt.After(feedList[j].CreatedAt)
	})
	return feedList, nil
}

// CountByUserID counts a user's feeds.
func (r *MockFeedRepository) CountByUserID(userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, f := range r.feeds {
		if f.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Create adds a new feed.
func (r *MockFeedRepository) Create(feed *models.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if feed.ID == "" {
		feed.ID = uuid.New().String()
	}
	now := time.Now()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = now
	}
	feed.UpdatedAt = now
	r.feeds[feed.ID] = *feed
	return nil
}

// Update modifies an existing feed.
func (r *MockFeedRepository) Update(feed *models.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.feeds[feed.ID]; !ok {
		return fmt.Errorf("feed with ID %s for update: %w", feed.ID, ErrNotFound)
	}
	feed.UpdatedAt = time.Now()
	r.feeds[feed.ID] = *feed
	return nil
}

// UpdateLikes replaces the likes array on an existing feed.
func (r *MockFeedRepository) UpdateLikes(id string, likes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed, ok := r.feeds[id]
	if !ok {
		return fmt.Errorf("feed with ID %s for like update: %w", id, ErrNotFound)
	}
	feed.Likes = likes
	feed.UpdatedAt = time.Now()
	r.feeds[id] = feed
	return nil
}

// Delete removes a feed by its ID.
func (r *MockFeedRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.feeds[id]; !ok {
		return fmt.Errorf("feed with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.feeds, id)
	return nil
}
