package services

import (
	"errors"
	"sync"

	"classquiz/models"

	"gorm.io/gorm"
)

// AnswerService is the answer ledger and correctness evaluator. Rows are
// append-only: each selected choice becomes its own student_answers row, and
// correctness is a property of the student's cumulative selection set for the
// question, not of a single choice.
type AnswerService struct {
	db *gorm.DB

	// Submissions for the same (student, question) pair are a
	// read-modify-write on the cumulative selection set and on the
	// correctness of prior rows, so they are serialized per pair.
	// Different students never contend.
	mu    sync.Mutex
	locks map[submissionKey]*sync.Mutex
}

type submissionKey struct {
	studentID  uint
	questionID uint
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{
		db:    db,
		locks: make(map[submissionKey]*sync.Mutex),
	}
}

type SubmitAnswerRequest struct {
	StudentID        uint `json:"student_id" binding:"required"`
	SessionID        uint `json:"session_id" binding:"required"`
	QuestionID       uint `json:"question_id" binding:"required"`
	AnswerID         uint `json:"answer_id" binding:"required"`
	TimeTakenSeconds int  `json:"time_taken_seconds"`
}

// Submit records one selected choice and re-evaluates correctness for the
// student's full selection set on that question:
//
//   - single-answer question: the new row is correct iff the chosen answer is
//     flagged correct;
//   - multi-answer question (two or more answers flagged correct): the
//     selection is correct iff the cumulative set equals the correct set
//     exactly, and every existing row for the pair is rewritten with that
//     result so all rows agree;
//   - ungraded question (no answer flagged correct): every row is false.
//
// Duplicate selections are appended, not deduplicated. All writes happen in
// one transaction.
func (s *AnswerService) Submit(req *SubmitAnswerRequest) error {
	var session models.Session
	if err := s.db.First(&session, req.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	// Re-validate at submission time; the student's form may predate the
	// teacher's close action.
	if !session.IsAcceptingSubmissions() {
		return ErrSessionClosed
	}

	var student models.Student
	if err := s.db.First(&student, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if student.SessionID != session.ID {
		return ErrStudentNotFound
	}

	var answer models.Answer
	if err := s.db.First(&answer, req.AnswerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnswerNotFound
		}
		return err
	}
	if answer.QuestionID != req.QuestionID {
		return ErrAnswerNotInQuestion
	}

	lock := s.lockFor(submissionKey{studentID: req.StudentID, questionID: req.QuestionID})
	lock.Lock()
	defer lock.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var correctIDs []uint
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_correct = ?", req.QuestionID, true).
			Pluck("id", &correctIDs).Error; err != nil {
			return err
		}

		var priorIDs []uint
		if err := tx.Model(&models.StudentAnswer{}).
			Where("student_id = ? AND question_id = ?", req.StudentID, req.QuestionID).
			Pluck("answer_id", &priorIDs).Error; err != nil {
			return err
		}

		selected := make(map[uint]struct{}, len(priorIDs)+1)
		for _, id := range priorIDs {
			selected[id] = struct{}{}
		}
		selected[req.AnswerID] = struct{}{}

		mode := models.GradingModeFor(len(correctIDs))
		isCorrect := evaluateSelection(mode, correctIDs, selected, req.AnswerID)

		row := models.StudentAnswer{
			StudentID:        req.StudentID,
			SessionID:        req.SessionID,
			QuestionID:       req.QuestionID,
			AnswerID:         req.AnswerID,
			IsCorrect:        isCorrect,
			TimeTakenSeconds: req.TimeTakenSeconds,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		// In multiple mode correctness belongs to the whole selection, so
		// every row of the pair is rewritten to the freshly computed value.
		if mode == models.GradingMultiple {
			if err := tx.Model(&models.StudentAnswer{}).
				Where("student_id = ? AND question_id = ?", req.StudentID, req.QuestionID).
				Update("is_correct", isCorrect).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func evaluateSelection(mode models.GradingMode, correctIDs []uint, selected map[uint]struct{}, newAnswerID uint) bool {
	switch mode {
	case models.GradingMultiple:
		// Exact match: every correct choice present, no incorrect choice present.
		if len(selected) != len(correctIDs) {
			return false
		}
		for _, id := range correctIDs {
			if _, ok := selected[id]; !ok {
				return false
			}
		}
		return true
	case models.GradingSingle:
		return newAnswerID == correctIDs[0]
	default:
		return false
	}
}

func (s *AnswerService) lockFor(key submissionKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
