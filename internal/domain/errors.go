package domain

import "errors"

var (
	// ErrDuplicatePlayer is returned when a player id is already registered.
	ErrDuplicatePlayer = errors.New("player id already registered")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions indicates a quiz definition without any questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrNoCorrectOption indicates a question without a correct option.
	ErrNoCorrectOption = errors.New("question has no correct option")
	// ErrSessionClosed is returned when a command arrives after the session ended.
	ErrSessionClosed = errors.New("quiz session closed")
)
