package models

import (
	"time"

	"gorm.io/gorm"
)

// StudentAnswer is one ledger row per selected choice, append-only. For
// multi-answer questions is_correct on every row of a (student, question)
// pair is rewritten whenever a new selection arrives, so all rows agree on
// the correctness of the full selection set.
type StudentAnswer struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	StudentID        uint           `json:"student_id" gorm:"not null;index:idx_student_question"`
	SessionID        uint           `json:"session_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index:idx_student_question"`
	AnswerID         uint           `json:"answer_id" gorm:"not null"`
	IsCorrect        bool           `json:"is_correct" gorm:"not null"`
	TimeTakenSeconds int            `json:"time_taken_seconds" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Student  Student  `json:"student,omitempty"`
	Session  Session  `json:"session,omitempty"`
	Question Question `json:"question,omitempty"`
	Answer   Answer   `json:"answer,omitempty"`
}
