package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is a named participant scoped to a single session. Names are not
// deduplicated: re-joining with the same name creates a fresh identity.
type Student struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	SessionID uint           `json:"session_id" gorm:"not null"`
	Name      string         `json:"name" gorm:"not null"`
	JoinedAt  time.Time      `json:"joined_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Session Session `json:"session,omitempty"`
}
