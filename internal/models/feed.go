package models

import "time"

// Feed represents a user-authored post. Likes are stored directly on the
// row as an array of liker user ids, so like/unlike rewrite the whole
// array. Concurrent likers are last-writer-wins on that column.
type Feed struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	Contents  string    `json:"contents" validate:"required,max=2000"`
	Images    []string  `json:"images" gorm:"serializer:json"`
	Emojis    []string  `json:"emojies" gorm:"serializer:json"`
	Likes     []string  `json:"likes" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikedBy reports whether userID is present in the likes array.
func (f *Feed) LikedBy(userID string) bool {
	for _, id := range f.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FeedWithUser is a feed annotated for display: the owning user plus the
// derived comment and like counts. CommentsCount is not stored on the feed
// row and is recomputed on every fetch.
type FeedWithUser struct {
	Feed
	User          User `json:"user"`
	CommentsCount int  `json:"comments_count"`
	LikesCount    int  `json:"likes_count"`
}
