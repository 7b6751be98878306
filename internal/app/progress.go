package app

import "github.com/ZelenyMartin/quiz-server/internal/domain"

// Progress walks an immutable question list one step at a time. The cursor is
// the only mutable field and is touched by the session loop alone, so no lock
// is needed here.
type Progress struct {
	questions []domain.Question
	cursor    int
}

// NewProgress starts a fresh walk over the quiz's questions.
func NewProgress(quiz domain.Quiz) *Progress {
	return &Progress{questions: quiz.Questions}
}

// Advance returns the next question and its 1-based index. Once the list is
// exhausted it returns ok=false, and keeps doing so on every later call; the
// exhausted state is terminal and never re-delivers a question.
func (p *Progress) Advance() (domain.Question, int, bool) {
	if p.cursor >= len(p.questions) {
		p.cursor = len(p.questions)
		return domain.Question{}, p.cursor, false
	}
	q := p.questions[p.cursor]
	p.cursor++
	return q, p.cursor, true
}

// Len reports the total number of questions.
func (p *Progress) Len() int { return len(p.questions) }

// Current reports how many questions have been handed out so far.
func (p *Progress) Current() int { return p.cursor }

// Exhausted reports whether every question has been handed out.
func (p *Progress) Exhausted() bool { return p.cursor >= len(p.questions) }
