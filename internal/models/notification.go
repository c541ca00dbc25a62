package models

import (
	"github.com/google/uuid"
)

// Notification is an append-only inbox message; only the Read flag is
// ever mutated after creation.
type Notification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Payload string    `json:"payload,omitempty"`
	Read    bool      `gorm:"default:false" json:"read"`
}
