package store

import "sync"

// toggleState tracks one optimistic mutation: idle, or pending with a
// stored pre-mutation snapshot that either commits or rolls back.
type toggleState int

const (
	toggleIdle toggleState = iota
	togglePending
)

// LikeToggle makes like/unlike feel instantaneous for one feed as seen by
// one component instance. Local membership flips before the network call;
// on failure the pre-toggle snapshot is restored exactly. Only one toggle
// may be in flight per instance; further requests are ignored until it
// resolves. Two instances viewing the same feed can still race; that is
// accepted.
type LikeToggle struct {
	mu       sync.Mutex
	store    *FeedStore
	feedID   string
	userID   string
	likes    []string
	snapshot []string
	state    toggleState
}

// NewLikeToggle creates a toggle for the given feed and acting user, seeded
// with the feed's current likes array.
func NewLikeToggle(s *FeedStore, feedID, userID string, likes []string) *LikeToggle {
	return &LikeToggle{
		store:  s,
		feedID: feedID,
		userID: userID,
		likes:  append([]string(nil), likes...),
	}
}

// SetLikes replaces the locally held likes set when fresh feed data
// arrives. Ignored while a toggle is pending so the rollback snapshot stays
// coherent.
func (t *LikeToggle) SetLikes(likes []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == togglePending {
		return
	}
	t.likes = append([]string(nil), likes...)
}

// IsLiked reports the acting user's locally observed membership.
func (t *LikeToggle) IsLiked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return contains(t.likes, t.userID)
}

// Likes returns a copy of the locally held likes set.
func (t *LikeToggle) Likes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.likes...)
}

// Pending reports whether a toggle is in flight.
func (t *LikeToggle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == togglePending
}

// Toggle flips the acting user's like membership. The local set is updated
// synchronously before the network call; on success the feed list is
// invalidated (via the store), on failure the pre-toggle state is restored
// and the error returned. A toggle while one is already pending is a no-op.
func (t *LikeToggle) Toggle() error {
	t.mu.Lock()
	if t.state == togglePending {
		t.mu.Unlock()
		return nil
	}
	t.snapshot = append([]string(nil), t.likes...)
	wasLiked := contains(t.likes, t.userID)
	if wasLiked {
		t.likes = remove(t.likes, t.userID)
	} else {
		t.likes = append(t.likes, t.userID)
	}
	t.state = togglePending
	t.mu.Unlock()

	var err error
	if wasLiked {
		err = t.store.Unlike(t.feedID, t.userID)
	} else {
		err = t.store.Like(t.feedID, t.userID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = toggleIdle
	if err != nil {
		t.likes = t.snapshot
		t.snapshot = nil
		return err
	}
	t.snapshot = nil
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
