package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	TeacherID        uint           `json:"teacher_id" gorm:"not null"`
	Title            string         `json:"title" gorm:"not null"`
	NumChoices       int            `json:"num_choices" gorm:"not null;default:4"`
	AllowMultiple    bool           `json:"allow_multiple" gorm:"not null;default:false"`
	HasCorrect       bool           `json:"has_correct" gorm:"not null;default:true"`
	QuizMode         string         `json:"quiz_mode" gorm:"not null;default:'easy'"` // easy, hard
	AutoCloseMinutes int            `json:"auto_close_minutes" gorm:"not null;default:1"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Teacher  Teacher   `json:"teacher,omitempty"`
	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuizID"`
	Sessions []Session `json:"sessions,omitempty" gorm:"foreignKey:QuizID"`
}
