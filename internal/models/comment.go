package models

import "time"

// Comment represents a comment attached to a feed.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FeedID    string    `json:"feed_id" gorm:"index;type:varchar(36)" validate:"required"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	Content   string    `json:"content" validate:"required,max=1000"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentWithUser is a comment annotated with its author for display.
type CommentWithUser struct {
	Comment
	User User `json:"user"`
}
