package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a test session does not exist for the caller.
	ErrSessionNotFound = errors.New("test session not found")
	// ErrSessionNotActive is returned for mutations outside the active state.
	ErrSessionNotActive = errors.New("test session is not active")
	// ErrInvalidConfig means category or class was missing or out of range.
	ErrInvalidConfig = errors.New("invalid test configuration")
	// ErrNoQuestions indicates the question bank returned nothing for the configuration.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuestionFetch wraps backend failures while loading questions.
	ErrQuestionFetch = errors.New("failed to load questions")
	// ErrInvalidOption indicates a label outside A-D.
	ErrInvalidOption = errors.New("invalid option label")
	// ErrContentNotFound indicates an unknown content id.
	ErrContentNotFound = errors.New("content not found")
	// ErrNotificationNotFound indicates the notification is not delivered to the user.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrProfileNotFound indicates a missing profile row.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrForbidden is returned when the caller lacks the admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput wraps payload validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream indicates the AI backend failed.
	ErrUpstream = errors.New("ai service error")
)
