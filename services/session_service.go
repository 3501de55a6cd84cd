package services

import (
	"crypto/rand"
	"errors"
	"time"

	"classquiz/models"

	"gorm.io/gorm"
)

const classCodeLength = 6

const classCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type SessionService struct {
	db      *gorm.DB
	codeGen func() string
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db, codeGen: generateClassCode}
}

// NewSessionServiceWithCodeFunc is test-only for deterministic class codes.
func NewSessionServiceWithCodeFunc(db *gorm.DB, codeGen func() string) *SessionService {
	return &SessionService{db: db, codeGen: codeGen}
}

type StartSessionRequest struct {
	QuizID                   uint `json:"quiz_id" binding:"required"`
	OverrideAutoCloseMinutes *int `json:"override_auto_close_minutes"`
}

type JoinSessionRequest struct {
	SessionID uint   `json:"session_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// SessionInfo is the polling payload for the countdown display.
type SessionInfo struct {
	SessionID        uint   `json:"session_id"`
	QuizID           uint   `json:"quiz_id"`
	ClassCode        string `json:"class_code"`
	Status           string `json:"status"`
	StartedAt        string `json:"started_at"` // ISO-8601, UTC
	AutoCloseMinutes *int   `json:"auto_close_minutes"`
}

// SessionEntry is what a student needs to render the answer form. Answer
// options deliberately omit is_correct while the session is live.
type SessionEntry struct {
	SessionID    uint          `json:"session_id"`
	QuizID       uint          `json:"quiz_id"`
	QuizTitle    string        `json:"quiz_title"`
	Status       string        `json:"status"`
	QuestionID   uint          `json:"question_id"`
	QuestionText string        `json:"question_text"`
	Options      []EntryOption `json:"options"`
}

type EntryOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// StartSession activates a quiz under a fresh class code. A code collision is
// reported as ErrDuplicateClassCode, never silently regenerated.
func (s *SessionService) StartSession(teacherID uint, req *StartSessionRequest) (*models.Session, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND teacher_id = ?", req.QuizID, teacherID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	autoClose := quiz.AutoCloseMinutes
	if req.OverrideAutoCloseMinutes != nil {
		autoClose = *req.OverrideAutoCloseMinutes
	}

	session := models.Session{
		QuizID:           quiz.ID,
		ClassCode:        s.codeGen(),
		Status:           models.SessionStatusActive,
		StartedAt:        time.Now().UTC(),
		AutoCloseMinutes: &autoClose,
	}

	if err := s.db.Create(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateClassCode
		}
		return nil, err
	}

	return &session, nil
}

// CloseSession marks the session closed. Closed is terminal: closing an
// already-closed session reports success without touching closed_at.
func (s *SessionService) CloseSession(sessionID uint) error {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if session.Status == models.SessionStatusClosed {
		return nil
	}

	now := time.Now().UTC()
	return s.db.Model(&session).Updates(map[string]interface{}{
		"status":    models.SessionStatusClosed,
		"closed_at": now,
	}).Error
}

func (s *SessionService) GetSession(sessionID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) GetSessionInfo(sessionID uint) (*SessionInfo, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionInfo{
		SessionID:        session.ID,
		QuizID:           session.QuizID,
		ClassCode:        session.ClassCode,
		Status:           session.Status,
		StartedAt:        session.StartedAt.UTC().Format(time.RFC3339),
		AutoCloseMinutes: session.AutoCloseMinutes,
	}, nil
}

// GetSessionByCode resolves a class code for a joining student.
func (s *SessionService) GetSessionByCode(classCode string) (*SessionEntry, error) {
	var session models.Session
	err := s.db.Where("class_code = ?", classCode).
		Preload("Quiz.Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.answer_order")
		}).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	entry := &SessionEntry{
		SessionID: session.ID,
		QuizID:    session.QuizID,
		QuizTitle: session.Quiz.Title,
		Status:    session.Status,
	}

	if question := session.Quiz.Question; question != nil {
		entry.QuestionID = question.ID
		entry.QuestionText = question.Text
		entry.Options = make([]EntryOption, 0, len(question.Answers))
		for _, answer := range question.Answers {
			entry.Options = append(entry.Options, EntryOption{
				ID:    answer.ID,
				Text:  answer.Text,
				Order: answer.Order,
			})
		}
	}

	return entry, nil
}

// JoinSession adds a named student to an active session. Names are not
// deduplicated: joining twice with the same name creates two students.
func (s *SessionService) JoinSession(req *JoinSessionRequest) (*models.Student, error) {
	var session models.Session
	if err := s.db.First(&session, req.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.IsAcceptingSubmissions() {
		return nil, ErrSessionClosed
	}

	student := models.Student{
		SessionID: session.ID,
		Name:      req.Name,
		JoinedAt:  time.Now().UTC(),
	}

	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func generateClassCode() string {
	bytes := make([]byte, classCodeLength)
	rand.Read(bytes)

	code := make([]byte, classCodeLength)
	for i, b := range bytes {
		code[i] = classCodeCharset[int(b)%len(classCodeCharset)]
	}
	return string(code)
}
