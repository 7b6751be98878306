package domain

import "time"

// Option is one selectable answer for a question. The Correct flag is
// internal; it is never serialized toward players.
type Option struct {
	Answer  string `json:"answer" yaml:"answer"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question is an immutable prompt with its ordered options. Option order is
// the stable answer ordering shown to players; labels are derived from
// position (a, b, c, ...).
type Question struct {
	Text      string   `json:"text" yaml:"text"`
	TimeLimit int      `json:"time_limit,omitempty" yaml:"time_limit,omitempty"` // seconds, 0 = no limit
	Options   []Option `json:"options" yaml:"options"`
}

// TimeLimitDuration returns the question's time limit as a duration, or zero
// when no limit is set.
func (q Question) TimeLimitDuration() time.Duration {
	if q.TimeLimit <= 0 {
		return 0
	}
	return time.Duration(q.TimeLimit) * time.Second
}

// OptionTexts returns the option answer texts in display order.
func (q Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		texts[i] = opt.Answer
	}
	return texts
}

// Quiz is the immutable quiz definition loaded once at session start.
type Quiz struct {
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Score is one entry of the end-of-quiz summary.
type Score struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}
