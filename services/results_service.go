package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"classquiz/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// resultsCacheTTL matches the dashboard polling cadence; stale-by-one-poll
// reads are acceptable.
const resultsCacheTTL = 3 * time.Second

// ResultsService computes live aggregates for a session from the answer
// ledger. Reads are self-contained; snapshots are cached in Redis for the
// duration of one poll interval.
type ResultsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewResultsService(db *gorm.DB, redis *redis.Client) *ResultsService {
	return &ResultsService{db: db, redis: redis}
}

type ResultItem struct {
	AnswerID    uint    `json:"answer_id" gorm:"column:answer_id"`
	AnswerText  string  `json:"answer_text" gorm:"column:answer_text"`
	AnswerOrder int     `json:"answer_order" gorm:"column:answer_order"`
	IsCorrect   bool    `json:"is_correct" gorm:"column:is_correct"`
	Count       int     `json:"count" gorm:"column:answer_count"`
	Percentage  float64 `json:"percentage" gorm:"-"`
}

type SessionResults struct {
	Results          []ResultItem `json:"results"`
	ParticipantCount int          `json:"participant_count"`
	TotalResponses   int          `json:"total_responses"`
	RespondedCount   int          `json:"responded_count"`
	ResponseRate     float64      `json:"response_rate"`
	// Accuracy is omitted when the quiz is ungraded, so dashboards show
	// "not applicable" instead of 0%.
	Accuracy *float64 `json:"accuracy,omitempty"`
}

type StudentResponse struct {
	StudentID   uint   `json:"student_id" gorm:"column:student_id"`
	StudentName string `json:"student_name" gorm:"column:student_name"`
	AnswerText  string `json:"answer_text" gorm:"column:answer_text"`
	IsCorrect   bool   `json:"is_correct" gorm:"column:is_correct"`
}

type StudentResponsesReport struct {
	Students       []StudentResponse `json:"students"`
	TotalStudents  int               `json:"total_students"`
	TotalResponses int               `json:"total_responses"`
}

// SessionResults returns the per-answer response distribution plus
// participation and accuracy aggregates for the live dashboard.
func (s *ResultsService) SessionResults(sessionID uint) (*SessionResults, error) {
	if cached := s.getCachedResults(sessionID); cached != nil {
		return cached, nil
	}

	var session models.Session
	if err := s.db.Preload("Quiz").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// One row per answer choice, counting distinct students: a student
	// selecting the same answer twice counts once.
	var items []ResultItem
	err := s.db.Raw(`
		SELECT a.id AS answer_id,
		       a.text AS answer_text,
		       a.answer_order AS answer_order,
		       a.is_correct AS is_correct,
		       COUNT(DISTINCT sa.student_id) AS answer_count
		FROM answers a
		JOIN questions q ON a.question_id = q.id
		JOIN quiz_sessions qs ON q.quiz_id = qs.quiz_id
		LEFT JOIN student_answers sa ON sa.answer_id = a.id AND sa.session_id = qs.id
		WHERE qs.id = ?
		GROUP BY a.id, a.text, a.answer_order, a.is_correct
		ORDER BY a.answer_order`, sessionID).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	totalResponses := 0
	correctAnswers := 0
	for _, item := range items {
		totalResponses += item.Count
		if item.IsCorrect {
			correctAnswers++
		}
	}
	for i := range items {
		if totalResponses > 0 {
			items[i].Percentage = round1(float64(items[i].Count) / float64(totalResponses) * 100)
		}
	}

	var participantCount int64
	if err := s.db.Model(&models.Student{}).
		Where("session_id = ?", sessionID).
		Count(&participantCount).Error; err != nil {
		return nil, err
	}

	respondedCount, err := s.respondedCount(sessionID)
	if err != nil {
		return nil, err
	}

	results := &SessionResults{
		Results:          items,
		ParticipantCount: int(participantCount),
		TotalResponses:   totalResponses,
		RespondedCount:   respondedCount,
	}

	if participantCount > 0 {
		results.ResponseRate = round1(float64(respondedCount) / float64(participantCount) * 100)
	}

	// Accuracy only applies when grading is on and at least one answer is
	// flagged correct.
	if session.Quiz.HasCorrect && correctAnswers > 0 {
		accuracy, err := s.accuracy(sessionID, respondedCount)
		if err != nil {
			return nil, err
		}
		results.Accuracy = &accuracy
	}

	s.cacheResults(sessionID, results)
	return results, nil
}

// StudentResponses lists every joined student with their latest recorded
// answer, for the teacher's roster table.
func (s *ResultsService) StudentResponses(sessionID uint) (*StudentResponsesReport, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var responses []StudentResponse
	err := s.db.Raw(`
		SELECT s.id AS student_id,
		       s.name AS student_name,
		       COALESCE(a.text, 'Not submitted') AS answer_text,
		       COALESCE(sa.is_correct, FALSE) AS is_correct
		FROM students s
		LEFT JOIN student_answers sa ON sa.student_id = s.id
		LEFT JOIN answers a ON a.id = sa.answer_id
		WHERE s.session_id = ?
		ORDER BY s.id`, sessionID).Scan(&responses).Error
	if err != nil {
		return nil, err
	}

	var totalStudents int64
	if err := s.db.Model(&models.Student{}).
		Where("session_id = ?", sessionID).
		Count(&totalStudents).Error; err != nil {
		return nil, err
	}

	var totalResponses int64
	if err := s.db.Model(&models.StudentAnswer{}).
		Where("session_id = ?", sessionID).
		Count(&totalResponses).Error; err != nil {
		return nil, err
	}

	return &StudentResponsesReport{
		Students:       responses,
		TotalStudents:  int(totalStudents),
		TotalResponses: int(totalResponses),
	}, nil
}

// RespondedCount is the number of distinct students with at least one ledger row.
func (s *ResultsService) RespondedCount(sessionID uint) (int, error) {
	return s.respondedCount(sessionID)
}

func (s *ResultsService) respondedCount(sessionID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.StudentAnswer{}).
		Where("session_id = ?", sessionID).
		Distinct("student_id").
		Count(&count).Error
	return int(count), err
}

// accuracy counts students whose every ledger row is correct. For
// multi-answer questions the submit path has already normalized all rows of a
// pair to one boolean, so this reduces to checking that normalized value.
func (s *ResultsService) accuracy(sessionID uint, respondedCount int) (float64, error) {
	if respondedCount == 0 {
		return 0, nil
	}

	var correctStudents int64
	err := s.db.Raw(`
		SELECT COUNT(*) FROM (
			SELECT sa.student_id
			FROM student_answers sa
			WHERE sa.session_id = ?
			GROUP BY sa.student_id
			HAVING SUM(CASE WHEN sa.is_correct THEN 0 ELSE 1 END) = 0
		) correct_students`, sessionID).Scan(&correctStudents).Error
	if err != nil {
		return 0, err
	}

	return round1(float64(correctStudents) / float64(respondedCount) * 100), nil
}

func (s *ResultsService) cacheResults(sessionID uint, results *SessionResults) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		log.Printf("Failed to marshal results for session %d: %v", sessionID, err)
		return
	}

	if err := s.redis.Set(context.Background(), resultsCacheKey(sessionID), data, resultsCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache results for session %d: %v", sessionID, err)
	}
}

func (s *ResultsService) getCachedResults(sessionID uint) *SessionResults {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(context.Background(), resultsCacheKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting results for session %d: %v", sessionID, err)
		}
		return nil
	}

	var results SessionResults
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		log.Printf("Failed to unmarshal cached results for session %d: %v", sessionID, err)
		return nil
	}
	return &results
}

func resultsCacheKey(sessionID uint) string {
	return fmt.Sprintf("results:%d", sessionID)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
