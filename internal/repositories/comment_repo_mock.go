package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"geckoland/internal/models"

	"github.com/google/uuid"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[string]models.Comment),
	}
}

// GetByFeedID returns a feed's comments ordered by creation time ascending.
func (r *MockCommentRepository) GetByFeedID(feedID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var commentList []models.Comment
	for _, c := range r.comments {
		if c.FeedID == feedID {
			commentList = append(commentList, c)
		}
	}
	sort.Slice(commentList, func(i, j int) bool {
		return commentList[i].CreatedAt.Before(commentList[j].CreatedAt)
	})
	return commentList, nil
}

// GetByID returns a comment by its ID.
func (r *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
	}
	return &comment, nil
}

// CountByFeedID counts the comments referencing a feed.
func (r *MockCommentRepository) CountByFeedID(feedID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, c := range r.comments {
		if c.FeedID == feedID {
			count++
		}
	}
	return count, nil
}

// Create adds a new comment.
func (r *MockCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now
	r.comments[comment.ID] = *comment
	return nil
}

// Update modifies an existing comment.
func (r *MockCommentRepository) Update(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; !ok {
		return fmt.Errorf("comment with ID %s for update: %w", comment.ID, ErrNotFound)
	}
	comment.UpdatedAt = time.Now()
	r.comments[comment.ID] = *comment
	return nil
}

// Delete removes a comment by its ID.
func (r *MockCommentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}
