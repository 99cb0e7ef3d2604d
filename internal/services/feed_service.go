package services

import (
	"encoding/json"
	"log"

	"geckoland/internal/models"
	"geckoland/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes domain events to the message broker. Services
// treat a nil publisher and a publish failure the same way: log and move on.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// FeedService handles business logic related to feeds: listing with derived
// counts, CRUD and the likes-array read-modify-write.
type FeedService struct {
	feedRepo    repositories.FeedRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
}

// NewFeedService creates a new FeedService.
func NewFeedService(feedRepo repositories.FeedRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, publisher EventPublisher) *FeedService {
	return &FeedService{
		feedRepo:    feedRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// FeedUpdate carries the editable feed fields. Nil pointers leave the
// corresponding field untouched.
type FeedUpdate struct {
	Contents *string
	Images   *[]string
	Emojis   *[]string
}

// annotate attaches the owning user and the derived counts to a feed row.
// The comment count is recomputed here on every fetch; it is never stored.
func (s *FeedService) annotate(feed models.Feed) models.FeedWithUser {
	out := models.FeedWithUser{
		Feed:       feed,
		LikesCount: len(feed.Likes),
	}
	if user, err := s.userRepo.GetByID(feed.UserID); err == nil {
		out.User = *user
	} else {
		log.Printf("Failed to load user %s for feed %s: %v", feed.UserID, feed.ID, err)
	}
	if count, err := s.commentRepo.CountByFeedID(feed.ID); err == nil {
		out.CommentsCount = int(count)
	} else {
		log.Printf("Failed to count comments for feed %s: %v", feed.ID, err)
	}
	return out
}

// GetFeeds retrieves all feeds, newest first, annotated with their owning
// user and derived comment/like counts.
func (s *FeedService) GetFeeds() ([]models.FeedWithUser, error) {
	feeds, err := s.feedRepo.GetAll()
	if err != nil {
		return nil, err
	}
	annotated := make([]models.FeedWithUser, 0, len(feeds))
	for _, f := range feeds {
		annotated = append(annotated, s.annotate(f))
	}
	return annotated, nil
}

// GetFeedByID retrieves a single annotated feed.
func (s *FeedService) GetFeedByID(id string) (*models.FeedWithUser, error) {
	feed, err := s.feedRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	annotated := s.annotate(*feed)
	return &annotated, nil
}

// GetFeedsByUser retrieves a user's annotated feeds, newest first.
func (s *FeedService) GetFeedsByUser(userID string) ([]models.FeedWithUser, error) {
	feeds, err := s.feedRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	annotated := make([]models.FeedWithUser, 0, len(feeds))
	for _, f := range feeds {
		annotated = append(annotated, s.annotate(f))
	}
	return annotated, nil
}

// CreateFeed creates a new feed owned by the signed-in user.
func (s *FeedService) CreateFeed(userID, contents string, images, emojis []string) (*models.Feed, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	feed := &models.Feed{
		ID:       uuid.New().String(),
		UserID:   userID,
		Contents: contents,
		Images:   images,
		Emojis:   emojis,
		Likes:    []string{},
	}
	if feed.Images == nil {
		feed.Images = []string{}
	}
	if feed.Emojis == nil {
		feed.Emojis = []string{}
	}

	if err := s.feedRepo.Create(feed); err != nil {
		return nil, err
	}

	s.publishEvent("feed.created", map[string]interface{}{
		"feedID": feed.ID,
		"userID": feed.UserID,
	})
	return feed, nil
}

// UpdateFeed applies a partial edit to an existing feed. Only the owner may
// edit it.
func (s *FeedService) UpdateFeed(id, userID string, upd FeedUpdate) (*models.Feed, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	feed, err := s.feedRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if feed.UserID != userID {
		return nil, ErrForbidden
	}
	if upd.Contents != nil {
		feed.Contents = *upd.Contents
	}
	if upd.Images != nil {
		feed.Images = *upd.Images
	}
	if upd.Emojis != nil {
		feed.Emojis = *upd.Emojis
	}

	if err := s.feedRepo.Update(feed); err != nil {
		return nil, err
	}
	return feed, nil
}

// DeleteFeed removes a feed by its ID. Only the owner may delete it.
func (s *FeedService) DeleteFeed(id, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	feed, err := s.feedRepo.GetByID(id)
	if err != nil {
		return err
	}
	if feed.UserID != userID {
		return ErrForbidden
	}
	if err := s.feedRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("feed.deleted", map[string]interface{}{
		"feedID": id,
		"userID": userID,
	})
	return nil
}

// LikeFeed adds the acting user to the feed's likes array. Already-present
// user ids make it a no-op: nothing is written. The array rewrite is
// last-writer-wins across concurrent likers.
func (s *FeedService) LikeFeed(feedID, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	feed, err := s.feedRepo.GetByID(feedID)
	if err != nil {
		return err
	}
	if feed.LikedBy(userID) {
		return nil
	}
	return s.feedRepo.UpdateLikes(feedID, append(feed.Likes, userID))
}

// UnlikeFeed removes the acting user from the feed's likes array. A user
// not in the array makes it a no-op.
func (s *FeedService) UnlikeFeed(feedID, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	feed, err := s.feedRepo.GetByID(feedID)
	if err != nil {
		return err
	}
	updated := make([]string, 0, len(feed.Likes))
	for _, id := range feed.Likes {
		if id != userID {
			updated = append(updated, id)
		}
	}
	if len(updated) == len(feed.Likes) {
		return nil
	}
	return s.feedRepo.UpdateLikes(feedID, updated)
}

func (s *FeedService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("feed", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
