package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/ZelenyMartin/quiz-server/internal/domain"
)

const joinPrompt = "Check your name on the screen!"

// Command is an operator instruction for the session loop.
type Command interface{ isCommand() }

// Start arms the session; questions can be advanced afterwards.
type Start struct{}

// Advance moves the quiz to the next question, or ends it when none remain.
type Advance struct{}

func (Start) isCommand()   {}
func (Advance) isCommand() {}

// Session owns one quiz run: the progression cursor, the player registry and
// the command loop driving both. All quiz-mutating work happens on the loop
// goroutine, so advances are serialized by construction; joins and answers
// only touch the registry and per-player state, which carry their own locks.
type Session struct {
	quiz     domain.Quiz
	progress *Progress
	registry *Registry
	operator io.Writer

	inbox chan Command
	done  chan struct{}
	once  sync.Once

	started bool
}

// NewSession builds a session for quiz. Operator feedback (progress lines,
// question text) is written to operator.
func NewSession(quiz domain.Quiz, operator io.Writer) *Session {
	if operator == nil {
		operator = io.Discard
	}
	return &Session{
		quiz:     quiz,
		progress: NewProgress(quiz),
		registry: NewRegistry(),
		operator: operator,
		inbox:    make(chan Command, 8),
		done:     make(chan struct{}),
	}
}

// Registry exposes the player registry to the transport layer.
func (s *Session) Registry() *Registry { return s.registry }

// Done is closed exactly once, when the quiz ends or the session is
// cancelled.
func (s *Session) Done() <-chan struct{} { return s.done }

// Send queues an operator command for the session loop. It fails once the
// session has terminated.
func (s *Session) Send(cmd Command) error {
	select {
	case <-s.done:
		return domain.ErrSessionClosed
	default:
	}
	select {
	case <-s.done:
		return domain.ErrSessionClosed
	case s.inbox <- cmd:
		return nil
	}
}

// Join registers a new player and greets it with the quiz name and the join
// prompt. The player only sees questions broadcast after this call returns.
func (s *Session) Join(playerID string) (*Player, error) {
	select {
	case <-s.done:
		return nil, domain.ErrSessionClosed
	default:
	}

	p := NewPlayer(playerID)
	if err := s.registry.Add(p); err != nil {
		return nil, err
	}
	p.enqueue(domain.InfoMessage(s.quiz.Name))
	p.enqueue(domain.InfoMessage(joinPrompt))
	log.Printf("player %s registered", playerID)
	return p, nil
}

// Leave removes a disconnected player. Safe to call more than once.
func (s *Session) Leave(playerID string) {
	s.registry.Remove(playerID)
	log.Printf("player %s disconnected", playerID)
}

// HandleAnswer runs one inbound player message through the answer gate. The
// player gets a neutral acknowledgment for its first in-window answer;
// out-of-window messages are ignored.
func (s *Session) HandleAnswer(p *Player, answer domain.Answer) {
	accepted, correct := p.Submit(answer.Answer)
	if !accepted {
		log.Printf("player %s: message outside answer window ignored", p.ID())
		return
	}
	if correct {
		log.Printf("player %s answered correctly", p.ID())
	}
	p.enqueue(domain.Message{Type: domain.MessageAck, Text: "answer received"})
}

// Run executes the command loop until the quiz ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.terminate("quiz aborted")
			return
		case cmd := <-s.inbox:
			switch cmd.(type) {
			case Start:
				s.handleStart()
			case Advance:
				if s.handleAdvance() {
					return
				}
			}
		}
	}
}

func (s *Session) handleStart() {
	if s.started {
		fmt.Fprintln(s.operator, "quiz already started")
		return
	}
	s.started = true
	fmt.Fprintf(s.operator, "quiz %q started, %d questions\n", s.quiz.Name, s.progress.Len())
	s.registry.Broadcast(domain.InfoMessage("The quiz is starting!"))
}

// handleAdvance reports true when the quiz finished.
func (s *Session) handleAdvance() bool {
	if !s.started {
		fmt.Fprintln(s.operator, "quiz not started yet")
		return false
	}

	q, idx, ok := s.progress.Advance()
	if !ok {
		s.finish()
		return true
	}

	// Broadcast first, then open windows: nobody may answer a question it
	// has not been offered.
	s.registry.Broadcast(domain.QuestionMessage(q))
	s.registry.OpenWindows(q)

	fmt.Fprintf(s.operator, "%d/%d\n%s\n", idx, s.progress.Len(), formatQuestion(q))
	return false
}

func (s *Session) finish() {
	summary := formatScores(s.registry.Scores())
	s.registry.Broadcast(domain.Message{Type: domain.MessageEnd, Text: "Quiz ended. " + summary})
	fmt.Fprintf(s.operator, "quiz finished\n%s\n", summary)
	s.terminate("quiz ended")
}

// terminate closes every connection and marks the session done, exactly once.
func (s *Session) terminate(reason string) {
	s.once.Do(func() {
		s.registry.CloseAll(reason)
		close(s.done)
	})
}

func formatQuestion(q domain.Question) string {
	var b strings.Builder
	b.WriteString(q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "\n  %s) %s", optionLabel(i), opt.Answer)
	}
	return b.String()
}

func formatScores(scores []domain.Score) string {
	if len(scores) == 0 {
		return "No players."
	}
	parts := make([]string, len(scores))
	for i, sc := range scores {
		parts[i] = fmt.Sprintf("%s=%d", sc.PlayerID, sc.Points)
	}
	return "Final scores: " + strings.Join(parts, ", ")
}
