package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

type Session struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	QuizID           uint           `json:"quiz_id" gorm:"not null"`
	ClassCode        string         `json:"class_code" gorm:"uniqueIndex;not null"`
	Status           string         `json:"status" gorm:"not null;default:'active'"` // active, closed
	StartedAt        time.Time      `json:"started_at"`
	ClosedAt         *time.Time     `json:"closed_at,omitempty"`
	AutoCloseMinutes *int           `json:"auto_close_minutes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz     Quiz            `json:"quiz,omitempty"`
	Students []Student       `json:"students,omitempty" gorm:"foreignKey:SessionID"`
	Answers  []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:SessionID"`
}

func (Session) TableName() string {
	return "quiz_sessions"
}

// IsAcceptingSubmissions must be checked at submission time, not only when
// the student's form was rendered, since the teacher may have closed the
// session in between.
func (s *Session) IsAcceptingSubmissions() bool {
	return s.Status == SessionStatusActive
}
