package models

import "time"

// User represents a profile row. It is created on first authenticated
// session (see the provisioning flow in services.UserService) and is never
// hard-deleted.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string    `json:"email" gorm:"type:varchar(255)" validate:"omitempty,email"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(20)" validate:"omitempty,min=3,max=20"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url"`
	Tag          string    `json:"tag"`
	Description  string    `json:"description"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	LocationName string    `json:"location_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasLocation reports whether the user has shared coordinates.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
