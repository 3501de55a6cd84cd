package models

import (
	"time"

	"gorm.io/gorm"
)

// GradingMode is derived from how many answers of a question are flagged
// correct. Questions with no correct answer are ungraded; two or more
// correct answers put the question in multiple-selection mode no matter
// what the quiz's stored allow_multiple flag says.
type GradingMode int

const (
	GradingNone GradingMode = iota
	GradingSingle
	GradingMultiple
)

func GradingModeFor(correctCount int) GradingMode {
	switch {
	case correctCount == 0:
		return GradingNone
	case correctCount == 1:
		return GradingSingle
	default:
		return GradingMultiple
	}
}

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quiz_id" gorm:"uniqueIndex;not null"` // one question per quiz
	Text      string         `json:"text" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}

// CorrectCount counts the loaded answers flagged correct.
func (q *Question) CorrectCount() int {
	count := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			count++
		}
	}
	return count
}

// Mode reports the grading mode implied by the loaded answers.
func (q *Question) Mode() GradingMode {
	return GradingModeFor(q.CorrectCount())
}
