package services_test

import (
	"errors"
	"testing"
	"time"

	"classquiz/services"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestDistributionCountsDistinctStudents(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{true, false, false})
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	answers := services.NewAnswerService(db)
	results := services.NewResultsService(db, client)

	alice := joinStudent(t, db, session.ID, "Alice")
	bob := joinStudent(t, db, session.ID, "Bob")

	answerA := answerByOrder(t, quiz, 1).ID
	// Alice selects A twice; the duplicate row must not inflate the count.
	submit(t, answers, alice.ID, session.ID, quiz.Question.ID, answerA)
	submit(t, answers, alice.ID, session.ID, quiz.Question.ID, answerA)
	submit(t, answers, bob.ID, session.ID, quiz.Question.ID, answerA)

	snapshot, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}

	if len(snapshot.Results) != 3 {
		t.Fatalf("expected 3 answer rows, got %d", len(snapshot.Results))
	}
	if snapshot.Results[0].Count != 2 {
		t.Fatalf("expected answer A to count 2 distinct students, got %d", snapshot.Results[0].Count)
	}
	if snapshot.Results[0].Percentage != 100.0 {
		t.Fatalf("expected 100%% for answer A, got %v", snapshot.Results[0].Percentage)
	}
	if snapshot.ParticipantCount != 2 || snapshot.RespondedCount != 2 {
		t.Fatalf("expected 2 participants / 2 responded, got %d / %d",
			snapshot.ParticipantCount, snapshot.RespondedCount)
	}
}

func TestZeroParticipantAggregation(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{true, false})
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	results := services.NewResultsService(db, client)

	snapshot, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}

	if snapshot.ParticipantCount != 0 || snapshot.TotalResponses != 0 || snapshot.ResponseRate != 0 {
		t.Fatalf("expected zeroed aggregates, got %+v", snapshot)
	}
	for _, item := range snapshot.Results {
		if item.Count != 0 || item.Percentage != 0 {
			t.Fatalf("expected zero count and percentage, got %+v", item)
		}
	}
}

func TestUngradedAccuracyNotApplicable(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{false, false}) // empty correct set
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	answers := services.NewAnswerService(db)
	results := services.NewResultsService(db, client)

	student := joinStudent(t, db, session.ID, "Alice")
	submit(t, answers, student.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 1).ID)

	snapshot, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}

	if snapshot.Accuracy != nil {
		t.Fatalf("accuracy must be not-applicable for ungraded quizzes, got %v", *snapshot.Accuracy)
	}
	if snapshot.RespondedCount != 1 {
		t.Fatalf("expected 1 responded, got %d", snapshot.RespondedCount)
	}
}

func TestAccuracyAndResponseRate(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{true, false, true}) // correct set {A, C}
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	answers := services.NewAnswerService(db)
	results := services.NewResultsService(db, client)

	alice := joinStudent(t, db, session.ID, "Alice")
	bob := joinStudent(t, db, session.ID, "Bob")
	joinStudent(t, db, session.ID, "Carol") // joins but never answers

	// Alice matches the correct set exactly; Bob picks a wrong answer.
	submit(t, answers, alice.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 1).ID)
	submit(t, answers, alice.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 3).ID)
	submit(t, answers, bob.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 2).ID)

	snapshot, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}

	if snapshot.ParticipantCount != 3 || snapshot.RespondedCount != 2 {
		t.Fatalf("expected 3 participants / 2 responded, got %d / %d",
			snapshot.ParticipantCount, snapshot.RespondedCount)
	}
	if snapshot.ResponseRate != 66.7 {
		t.Fatalf("expected response rate 66.7, got %v", snapshot.ResponseRate)
	}
	if snapshot.Accuracy == nil || *snapshot.Accuracy != 50.0 {
		t.Fatalf("expected accuracy 50.0, got %v", snapshot.Accuracy)
	}
	// Distribution: A=1, B=1, C=1, each one third of responses.
	for _, item := range snapshot.Results {
		if item.Count != 1 || item.Percentage != 33.3 {
			t.Fatalf("expected count 1 at 33.3%%, got %+v", item)
		}
	}
	if snapshot.TotalResponses != 3 {
		t.Fatalf("expected 3 total responses, got %d", snapshot.TotalResponses)
	}
}

func TestResultsSnapshotCached(t *testing.T) {
	db := newTestDB(t)
	mr, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{true, false})
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	answers := services.NewAnswerService(db)
	results := services.NewResultsService(db, client)

	student := joinStudent(t, db, session.ID, "Alice")

	first, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if first.RespondedCount != 0 {
		t.Fatalf("expected no responses yet, got %d", first.RespondedCount)
	}

	submit(t, answers, student.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 1).ID)

	// Within the TTL the cached snapshot is served.
	cached, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if cached.RespondedCount != 0 {
		t.Fatalf("expected stale snapshot within TTL, got %d responded", cached.RespondedCount)
	}

	mr.FastForward(5 * time.Second)

	fresh, err := results.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if fresh.RespondedCount != 1 {
		t.Fatalf("expected fresh snapshot after TTL, got %d responded", fresh.RespondedCount)
	}
}

func TestStudentResponsesRoster(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	teacher := createTeacher(t, db)
	quiz := createQuiz(t, db, teacher.ID, []bool{true, false})
	session := startSession(t, db, teacher.ID, quiz.Quiz.ID, "AAA111")
	answers := services.NewAnswerService(db)
	results := services.NewResultsService(db, client)

	alice := joinStudent(t, db, session.ID, "Alice")
	joinStudent(t, db, session.ID, "Bob") // never answers
	submit(t, answers, alice.ID, session.ID, quiz.Question.ID, answerByOrder(t, quiz, 1).ID)

	report, err := results.StudentResponses(session.ID)
	if err != nil {
		t.Fatalf("student responses: %v", err)
	}

	if report.TotalStudents != 2 || report.TotalResponses != 1 {
		t.Fatalf("expected 2 students / 1 response, got %d / %d",
			report.TotalStudents, report.TotalResponses)
	}
	if len(report.Students) != 2 {
		t.Fatalf("expected 2 roster rows, got %d", len(report.Students))
	}
	if report.Students[0].AnswerText != "A" || !report.Students[0].IsCorrect {
		t.Fatalf("expected Alice's correct answer A, got %+v", report.Students[0])
	}
	if report.Students[1].AnswerText != "Not submitted" || report.Students[1].IsCorrect {
		t.Fatalf("expected Bob marked as not submitted, got %+v", report.Students[1])
	}
}

func TestResultsUnknownSession(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	results := services.NewResultsService(db, client)

	if _, err := results.SessionResults(42); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := results.StudentResponses(42); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
