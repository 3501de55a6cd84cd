package services

import (
	"errors"

	"classquiz/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title            string                `json:"title" binding:"required"`
	QuestionText     string                `json:"question_text" binding:"required"`
	HasCorrect       *bool                 `json:"has_correct"`
	QuizMode         string                `json:"quiz_mode"`
	AutoCloseMinutes int                   `json:"auto_close_minutes"`
	Answers          []CreateAnswerRequest `json:"answers" binding:"required,min=2,max=8,dive"`
}

type CreateAnswerRequest struct {
	Text      string `json:"text" binding:"required"`
	Order     int    `json:"order"`
	IsCorrect bool   `json:"is_correct"`
}

// QuizSummary is the teacher dashboard list row.
type QuizSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	NumChoices   int    `json:"num_choices"`
	QuizMode     string `json:"quiz_mode"`
	SessionCount int    `json:"session_count"`
}

// QuizDetail carries the quiz with its question, ordered answers and the
// grading mode derived from the actual correct-answer count.
type QuizDetail struct {
	Quiz         models.Quiz        `json:"quiz"`
	Question     models.Question    `json:"question"`
	CorrectCount int                `json:"correct_count"`
	GradingMode  models.GradingMode `json:"grading_mode"`
}

// CreateQuiz creates the quiz, its single question and its answers in one
// transaction. Quizzes are immutable once created; there is no update path.
func (s *QuizService) CreateQuiz(teacherID uint, req *CreateQuizRequest) (*QuizDetail, error) {
	correctCount := 0
	for _, ans := range req.Answers {
		if ans.IsCorrect {
			correctCount++
		}
	}

	hasCorrect := true
	if req.HasCorrect != nil {
		hasCorrect = *req.HasCorrect
	}

	quizMode := req.QuizMode
	if quizMode == "" {
		quizMode = "easy"
	}

	autoClose := req.AutoCloseMinutes
	if autoClose <= 0 {
		autoClose = 1
	}

	quiz := models.Quiz{
		TeacherID:  teacherID,
		Title:      req.Title,
		NumChoices: len(req.Answers),
		// allow_multiple must stay consistent with the correct-answer count:
		// two or more correct answers force multiple-selection mode.
		AllowMultiple:    correctCount >= 2,
		HasCorrect:       hasCorrect && correctCount > 0,
		QuizMode:         quizMode,
		AutoCloseMinutes: autoClose,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		question := models.Question{
			QuizID: quiz.ID,
			Text:   req.QuestionText,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for i, ansReq := range req.Answers {
			order := ansReq.Order
			if order == 0 {
				order = i + 1
			}
			answer := models.Answer{
				QuestionID: question.ID,
				Text:       ansReq.Text,
				Order:      order,
				IsCorrect:  ansReq.IsCorrect,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetQuizByID(quiz.ID, teacherID)
}

func (s *QuizService) GetTeacherQuizzes(teacherID uint) ([]QuizSummary, error) {
	var quizzes []models.Quiz
	if err := s.db.Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		var sessionCount int64
		if err := s.db.Model(&models.Session{}).
			Where("quiz_id = ?", quiz.ID).
			Count(&sessionCount).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, QuizSummary{
			ID:           quiz.ID,
			Title:        quiz.Title,
			NumChoices:   quiz.NumChoices,
			QuizMode:     quiz.QuizMode,
			SessionCount: int(sessionCount),
		})
	}

	return summaries, nil
}

func (s *QuizService) GetQuizByID(quizID uint, teacherID uint) (*QuizDetail, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND teacher_id = ?", quizID, teacherID).
		Preload("Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.answer_order")
		}).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	return s.quizDetail(quiz), nil
}

func (s *QuizService) quizDetail(quiz models.Quiz) *QuizDetail {
	detail := &QuizDetail{Quiz: quiz}
	if quiz.Question != nil {
		detail.Question = *quiz.Question
		detail.CorrectCount = quiz.Question.CorrectCount()
		detail.GradingMode = quiz.Question.Mode()
		// Reconcile the stored flag with reality for readers.
		if detail.GradingMode == models.GradingMultiple {
			detail.Quiz.AllowMultiple = true
		}
	}
	detail.Quiz.Question = nil
	return detail
}
