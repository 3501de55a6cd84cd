package services

import "errors"

var (
	// ErrTeacherNotFound is returned when a teacher id has no account.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrEmailTaken is returned when registering with an email or username already in use.
	ErrEmailTaken = errors.New("email or username already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrQuizNotFound is returned when a quiz id is unknown or not owned by the caller.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a session id or class code is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStudentNotFound is returned when a student id is unknown or belongs to another session.
	ErrStudentNotFound = errors.New("student not found in session")
	// ErrAnswerNotFound is returned when an answer id is unknown.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrSessionClosed is returned when a submission or join hits a session that
	// is no longer accepting it.
	ErrSessionClosed = errors.New("session is closed")
	// ErrDuplicateClassCode is returned when a freshly generated class code
	// collides with an existing session. Collisions are surfaced, not retried.
	ErrDuplicateClassCode = errors.New("class code already exists")
	// ErrAnswerNotInQuestion is returned when the submitted answer does not
	// belong to the stated question.
	ErrAnswerNotInQuestion = errors.New("answer does not belong to question")
)
