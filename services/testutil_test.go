package services_test

import (
	"fmt"
	"testing"

	"classquiz/models"
	"classquiz/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Teacher{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.Session{},
		&models.Student{},
		&models.StudentAnswer{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func createTeacher(t *testing.T, db *gorm.DB) models.Teacher {
	t.Helper()

	teacher := models.Teacher{
		Username: fmt.Sprintf("teacher-%d", teacherSeq(db)),
		Email:    fmt.Sprintf("teacher-%d@example.com", teacherSeq(db)),
		Password: "hashed",
	}
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return teacher
}

func teacherSeq(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.Teacher{}).Count(&count)
	return count + 1
}

// createQuiz builds a quiz whose answers are lettered A, B, C... with the
// given correctness flags.
func createQuiz(t *testing.T, db *gorm.DB, teacherID uint, correct []bool) *services.QuizDetail {
	t.Helper()

	req := services.CreateQuizRequest{
		Title:        "Capital cities",
		QuestionText: "Which of these are capitals?",
	}
	for i, isCorrect := range correct {
		req.Answers = append(req.Answers, services.CreateAnswerRequest{
			Text:      string(rune('A' + i)),
			Order:     i + 1,
			IsCorrect: isCorrect,
		})
	}

	detail, err := services.NewQuizService(db).CreateQuiz(teacherID, &req)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return detail
}

func startSession(t *testing.T, db *gorm.DB, teacherID, quizID uint, code string) *models.Session {
	t.Helper()

	svc := services.NewSessionServiceWithCodeFunc(db, func() string { return code })
	session, err := svc.StartSession(teacherID, &services.StartSessionRequest{QuizID: quizID})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return session
}

func joinStudent(t *testing.T, db *gorm.DB, sessionID uint, name string) *models.Student {
	t.Helper()

	student, err := services.NewSessionService(db).JoinSession(&services.JoinSessionRequest{
		SessionID: sessionID,
		Name:      name,
	})
	if err != nil {
		t.Fatalf("join session: %v", err)
	}
	return student
}

// answerByOrder returns the answer with the given display order (1-based).
func answerByOrder(t *testing.T, detail *services.QuizDetail, order int) models.Answer {
	t.Helper()

	for _, answer := range detail.Question.Answers {
		if answer.Order == order {
			return answer
		}
	}
	t.Fatalf("no answer with order %d", order)
	return models.Answer{}
}

func ledgerRows(t *testing.T, db *gorm.DB, studentID, questionID uint) []models.StudentAnswer {
	t.Helper()

	var rows []models.StudentAnswer
	if err := db.Where("student_id = ? AND question_id = ?", studentID, questionID).
		Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("load ledger rows: %v", err)
	}
	return rows
}
