package store

import (
	"time"

	"geckoland/internal/cache"
)

// One composite key per distinct query. Families share a prefix so
// mutations can invalidate them as a group.
const (
	feedListKey       cache.Key = "feeds/list"
	feedDetailPrefix  cache.Key = "feeds/detail/"
	userFeedsPrefix   cache.Key = "feeds/user/"
	commentListPrefix cache.Key = "comments/list/"
)

// Staleness windows: feed and user queries stay fresh for five minutes and
// are retained for ten; comments churn faster and get two and five.
const (
	feedFreshFor     = 5 * time.Minute
	feedRetainFor    = 10 * time.Minute
	commentFreshFor  = 2 * time.Minute
	commentRetainFor = 5 * time.Minute
)

// FeedListKey addresses the main feed list query.
func FeedListKey() cache.Key {
	return feedListKey
}

// FeedDetailKey addresses a single feed's detail query.
func FeedDetailKey(id string) cache.Key {
	return feedDetailPrefix + cache.Key(id)
}

// UserFeedsKey addresses the feeds-by-user query.
func UserFeedsKey(userID string) cache.Key {
	return userFeedsPrefix + cache.Key(userID)
}

// CommentListKey addresses the comments-for-feed query.
func CommentListKey(feedID string) cache.Key {
	return commentListPrefix + cache.Key(feedID)
}
