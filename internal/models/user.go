package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID      uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	GoogleID  string    `gorm:"uniqueIndex" json:"google_id"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session binds a bearer access token to a user until it expires.
type Session struct {
	UUID        uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	UserUUID    uuid.UUID `gorm:"not null" json:"user_uuid"`
	AccessToken string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}
