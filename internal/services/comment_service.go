package services

import (
	"encoding/json"
	"log"

	"geckoland/internal/models"
	"geckoland/internal/repositories"

	"github.com/google/uuid"
)

// CommentService handles business logic related to comments.
type CommentService struct {
	commentRepo repositories.CommentRepository
	feedRepo    repositories.FeedRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, feedRepo repositories.FeedRepository, userRepo repositories.UserRepository, publisher EventPublisher) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		feedRepo:    feedRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

func (s *CommentService) annotate(comment models.Comment) models.CommentWithUser {
	out := models.CommentWithUser{Comment: comment}
	if user, err := s.userRepo.GetByID(comment.UserID); err == nil {
		out.User = *user
	} else {
		log.Printf("Failed to load user %s for comment %s: %v", comment.UserID, comment.ID, err)
	}
	return out
}

// GetCommentsByFeed retrieves a feed's comments ordered by creation time
// ascending, annotated with their authors.
func (s *CommentService) GetCommentsByFeed(feedID string) ([]models.CommentWithUser, error) {
	comments, err := s.commentRepo.GetByFeedID(feedID)
	if err != nil {
		return nil, err
	}
	annotated := make([]models.CommentWithUser, 0, len(comments))
	for _, c := range comments {
		annotated = append(annotated, s.annotate(c))
	}
	return annotated, nil
}

// GetCommentByID retrieves a single annotated comment.
func (s *CommentService) GetCommentByID(id string) (*models.CommentWithUser, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	annotated := s.annotate(*comment)
	return &annotated, nil
}

// CreateComment attaches a new comment to an existing feed.
func (s *CommentService) CreateComment(feedID, userID, content string) (*models.Comment, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	// Existence check only; any authenticated user may comment.
	if _, err := s.feedRepo.GetByID(feedID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:      uuid.New().String(),
		FeedID:  feedID,
		UserID:  userID,
		Content: content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		body, err := json.Marshal(map[string]interface{}{
			"commentID": comment.ID,
			"feedID":    feedID,
			"userID":    userID,
		})
		if err != nil {
			log.Printf("Failed to marshal comment.created event: %v", err)
		} else if err := s.publisher.Publish("feed", "comment.created", body); err != nil {
			log.Printf("Warning: failed to publish comment.created event: %v", err)
		}
	}
	return comment, nil
}

// UpdateComment replaces a comment's content. Only the author may edit it.
func (s *CommentService) UpdateComment(id, userID, content string) (*models.Comment, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}
	comment.Content = content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment by its ID. Only the author may delete it.
func (s *CommentService) DeleteComment(id, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	return s.commentRepo.Delete(id)
}
