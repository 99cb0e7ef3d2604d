// Package store is the client-side state layer: cached query accessors over
// the data access layer, mutation wrappers carrying the cache invalidation
// rules, and the optimistic like toggle.
package store

import (
	"geckoland/internal/cache"
	"geckoland/internal/models"
	"geckoland/internal/services"
)

// FeedAPI is the slice of the data access layer the store consumes for
// feeds. *services.FeedService satisfies it.
type FeedAPI interface {
	GetFeeds() ([]models.FeedWithUser, error)
	GetFeedByID(id string) (*models.FeedWithUser, error)
	GetFeedsByUser(userID string) ([]models.FeedWithUser, error)
	CreateFeed(userID, contents string, images, emojis []string) (*models.Feed, error)
	UpdateFeed(id, userID string, upd services.FeedUpdate) (*models.Feed, error)
	DeleteFeed(id, userID string) error
	LikeFeed(feedID, userID string) error
	UnlikeFeed(feedID, userID string) error
}

// CommentAPI is the slice of the data access layer the store consumes for
// comments. *services.CommentService satisfies it.
type CommentAPI interface {
	GetCommentsByFeed(feedID string) ([]models.CommentWithUser, error)
	CreateComment(feedID, userID, content string) (*models.Comment, error)
	UpdateComment(id, userID, content string) (*models.Comment, error)
	DeleteComment(id, userID string) error
}

// FeedStore serves reads through the query cache and applies the
// invalidation rules after each mutation settles.
type FeedStore struct {
	feeds    FeedAPI
	comments CommentAPI
	cache    *cache.QueryCache
}

// NewFeedStore creates a FeedStore over the given APIs and cache. The cache
// is injected, never a package-level singleton, so independent stores can
// coexist in tests.
func NewFeedStore(feeds FeedAPI, comments CommentAPI, qc *cache.QueryCache) *FeedStore {
	return &FeedStore{
		feeds:    feeds,
		comments: comments,
		cache:    qc,
	}
}

// Cache exposes the underlying query cache for subscriptions.
func (s *FeedStore) Cache() *cache.QueryCache {
	return s.cache
}

func feedOpts() cache.Options {
	return cache.Options{FreshFor: feedFreshFor, RetainFor: feedRetainFor}
}

func commentOpts() cache.Options {
	return cache.Options{FreshFor: commentFreshFor, RetainFor: commentRetainFor}
}

// Feeds returns the feed list, cached.
func (s *FeedStore) Feeds() ([]models.FeedWithUser, error) {
	v, err := s.cache.ReadThrough(FeedListKey(), feedOpts(), func() (interface{}, error) {
		return s.feeds.GetFeeds()
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.FeedWithUser), nil
}

// Feed returns one feed's detail view, cached.
func (s *FeedStore) Feed(id string) (*models.FeedWithUser, error) {
	v, err := s.cache.ReadThrough(FeedDetailKey(id), feedOpts(), func() (interface{}, error) {
		return s.feeds.GetFeedByID(id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.FeedWithUser), nil
}

// UserFeeds returns a user's feeds, cached.
func (s *FeedStore) UserFeeds(userID string) ([]models.FeedWithUser, error) {
	v, err := s.cache.ReadThrough(UserFeedsKey(userID), feedOpts(), func() (interface{}, error) {
		return s.feeds.GetFeedsByUser(userID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.FeedWithUser), nil
}

// Comments returns a feed's comments, cached.
func (s *FeedStore) Comments(feedID string) ([]models.CommentWithUser, error) {
	v, err := s.cache.ReadThrough(CommentListKey(feedID), commentOpts(), func() (interface{}, error) {
		return s.comments.GetCommentsByFeed(feedID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.CommentWithUser), nil
}

// CreateFeed creates a feed and invalidates the list queries. No optimistic
// local mutation: dependents refetch.
func (s *FeedStore) CreateFeed(userID, contents string, images, emojis []string) (*models.Feed, error) {
	feed, err := s.feeds.CreateFeed(userID, contents, images, emojis)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(feedListKey)
	s.cache.Invalidate(UserFeedsKey(userID))
	return feed, nil
}

// UpdateFeed edits a feed and invalidates its detail and list queries.
func (s *FeedStore) UpdateFeed(id, userID string, upd services.FeedUpdate) (*models.Feed, error) {
	feed, err := s.feeds.UpdateFeed(id, userID, upd)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(FeedDetailKey(id))
	s.cache.Invalidate(feedListKey)
	return feed, nil
}

// DeleteFeed removes a feed, drops its detail entry and invalidates the
// list queries.
func (s *FeedStore) DeleteFeed(id, userID string) error {
	if err := s.feeds.DeleteFeed(id, userID); err != nil {
		return err
	}
	s.cache.Remove(FeedDetailKey(id))
	s.cache.Invalidate(feedListKey)
	s.cache.Invalidate(userFeedsPrefix)
	return nil
}

// Like adds the user to a feed's likes and invalidates the feed list so
// counts elsewhere reconcile. The detail view's optimistic state is treated
// as already correct.
func (s *FeedStore) Like(feedID, userID string) error {
	if err := s.feeds.LikeFeed(feedID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(feedListKey)
	return nil
}

// Unlike removes the user from a feed's likes and invalidates the feed
// list.
func (s *FeedStore) Unlike(feedID, userID string) error {
	if err := s.feeds.UnlikeFeed(feedID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(feedListKey)
	return nil
}

// CreateComment adds a comment without optimistic list insertion: on
// success both the feed's comment list and its detail view (for the derived
// comment count) are invalidated, forcing a consistent refetch.
func (s *FeedStore) CreateComment(feedID, userID, content string) (*models.Comment, error) {
	comment, err := s.comments.CreateComment(feedID, userID, content)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(CommentListKey(feedID))
	s.cache.Invalidate(FeedDetailKey(feedID))
	return comment, nil
}

// UpdateComment edits a comment and invalidates the feed's comment list.
func (s *FeedStore) UpdateComment(feedID, id, userID, content string) (*models.Comment, error) {
	comment, err := s.comments.UpdateComment(id, userID, content)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(CommentListKey(feedID))
	return comment, nil
}

// DeleteComment removes a comment and invalidates both the feed's comment
// list and its detail view.
func (s *FeedStore) DeleteComment(feedID, id, userID string) error {
	if err := s.comments.DeleteComment(id, userID); err != nil {
		return err
	}
	s.cache.Invalidate(CommentListKey(feedID))
	s.cache.Invalidate(FeedDetailKey(feedID))
	return nil
}
