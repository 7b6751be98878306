// Package quizfile loads a quiz definition from a YAML document:
//
//	name: Capital cities
//	questions:
//	  - text: Capital of France?
//	    time_limit: 30
//	    options:
//	      - answer: Paris
//	        correct: true
//	      - answer: Lyon
//	        correct: false
package quizfile

import (
	"context"
	"fmt"
	"os"

	"github.com/ZelenyMartin/quiz-server/internal/domain"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the quiz document at path. Any failure here is
// fatal for the process; a session never starts on a broken definition.
func Load(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read quiz file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a quiz document.
func Parse(data []byte) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := yaml.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse quiz file: %w", err)
	}
	if err := Validate(quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Validate checks the structural invariants of a quiz definition.
func Validate(quiz domain.Quiz) error {
	if quiz.Name == "" {
		return fmt.Errorf("quiz name missing")
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz %q: %w", quiz.Name, domain.ErrNoQuestions)
	}
	for i, q := range quiz.Questions {
		if q.Text == "" {
			return fmt.Errorf("question %d: text missing", i+1)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: no options", i+1)
		}
		correct := false
		for _, opt := range q.Options {
			if opt.Answer == "" {
				return fmt.Errorf("question %d: option with empty answer", i+1)
			}
			if opt.Correct {
				correct = true
			}
		}
		if !correct {
			return fmt.Errorf("question %d: %w", i+1, domain.ErrNoCorrectOption)
		}
	}
	return nil
}

// Loader adapts a quiz file to the loader interface used by the caching
// repositories; the quiz id is ignored, a file holds exactly one quiz.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadQuiz(_ context.Context, _ string) (domain.Quiz, error) {
	return Load(l.path)
}
