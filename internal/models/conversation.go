package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Conversation struct {
	UUID      uuid.UUID `gorm:"type:uuid;primaryKey;" json:"uuid"`
	UserUUID  uuid.UUID `gorm:"not null;index" json:"user_uuid"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message rows are append-only; the transcript is the created_at order.
type Message struct {
	UUID             uuid.UUID      `gorm:"type:uuid;primaryKey;" json:"uuid"`
	ConversationUUID uuid.UUID      `gorm:"not null;index" json:"conversation_uuid"`
	Role             Role           `gorm:"not null" json:"role"`
	Content          string         `gorm:"not null" json:"content"`
	Meta             datatypes.JSON `json:"meta,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
