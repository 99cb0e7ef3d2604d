package store_test

import (
	"errors"
	"testing"
	"time"

	"geckoland/internal/cache"
	"geckoland/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newToggleStore(feedAPI *mockFeedAPI) *store.FeedStore {
	return store.NewFeedStore(feedAPI, new(mockCommentAPI), cache.New())
}

func TestToggleLikeFlipsLocallyAndCallsBackend(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	feedAPI.On("LikeFeed", "f1", "u1").Return(nil)

	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", []string{"other"})
	assert.False(t, tg.IsLiked())

	require.NoError(t, tg.Toggle())

	assert.True(t, tg.IsLiked())
	assert.Equal(t, []string{"other", "u1"}, tg.Likes())
	feedAPI.AssertNumberOfCalls(t, "LikeFeed", 1)
}

func TestToggleTwiceRestoresOriginalMembership(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	feedAPI.On("LikeFeed", "f1", "u1").Return(nil)
	feedAPI.On("UnlikeFeed", "f1", "u1").Return(nil)

	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", []string{"other"})

	require.NoError(t, tg.Toggle())
	require.NoError(t, tg.Toggle())

	assert.False(t, tg.IsLiked())
	assert.Equal(t, []string{"other"}, tg.Likes())
	feedAPI.AssertNumberOfCalls(t, "LikeFeed", 1)
	feedAPI.AssertNumberOfCalls(t, "UnlikeFeed", 1)
}

func TestToggleRollsBackExactSnapshotOnFailure(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	feedAPI.On("LikeFeed", "f1", "u1").Return(errors.New("network down"))

	seed := []string{"a", "b"}
	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", seed)

	assert.Error(t, tg.Toggle())

	assert.False(t, tg.IsLiked())
	assert.Equal(t, seed, tg.Likes())
	assert.False(t, tg.Pending())
}

func TestToggleUnlikeRollsBackOnFailure(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	feedAPI.On("UnlikeFeed", "f1", "u1").Return(errors.New("network down"))

	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", []string{"u1", "x"})

	assert.Error(t, tg.Toggle())

	assert.True(t, tg.IsLiked())
	assert.Equal(t, []string{"u1", "x"}, tg.Likes())
}

func TestToggleWhilePendingIsNoOp(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	release := make(chan struct{})
	feedAPI.On("LikeFeed", "f1", "u1").Run(func(mock.Arguments) {
		<-release
	}).Return(nil)

	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", nil)

	done := make(chan error, 1)
	go func() {
		done <- tg.Toggle()
	}()
	require.Eventually(t, tg.Pending, time.Second, time.Millisecond)

	// The flip is already visible locally while the call is in flight, and
	// a second toggle is ignored instead of queued.
	assert.True(t, tg.IsLiked())
	assert.NoError(t, tg.Toggle())

	close(release)
	require.NoError(t, <-done)
	feedAPI.AssertNumberOfCalls(t, "LikeFeed", 1)
	feedAPI.AssertNumberOfCalls(t, "UnlikeFeed", 0)
}

func TestSetLikesIgnoredWhilePending(t *testing.T) {
	feedAPI := new(mockFeedAPI)
	release := make(chan struct{})
	feedAPI.On("LikeFeed", "f1", "u1").Run(func(mock.Arguments) {
		<-release
	}).Return(nil)

	tg := store.NewLikeToggle(newToggleStore(feedAPI), "f1", "u1", nil)

	done := make(chan error, 1)
	go func() {
		done <- tg.Toggle()
	}()
	require.Eventually(t, tg.Pending, time.Second, time.Millisecond)

	tg.SetLikes([]string{"z"})

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"u1"}, tg.Likes())

	// Once idle again, fresh data is accepted.
	tg.SetLikes([]string{"z"})
	assert.Equal(t, []string{"z"}, tg.Likes())
}
