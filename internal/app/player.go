package app

import (
	"strings"
	"sync"
	"time"

	"github.com/ZelenyMartin/quiz-server/internal/domain"
)

// outboundBuffer bounds how many undelivered messages a player may accumulate
// before it counts as a delivery failure.
const outboundBuffer = 16

// Player is one connected participant. Multiple goroutines touch a player at
// once (its own reader, the connection writer, the session loop), so all gate
// state lives behind the mutex.
type Player struct {
	id  string
	out chan domain.Message

	mu        sync.Mutex
	accepting bool
	question  domain.Question
	epoch     uint64
	timer     *time.Timer
	score     int
	closed    bool
}

// NewPlayer creates a player ready for registration.
func NewPlayer(id string) *Player {
	return &Player{
		id:  id,
		out: make(chan domain.Message, outboundBuffer),
	}
}

// ID returns the player's session-unique identifier.
func (p *Player) ID() string { return p.id }

// Outbound is drained by the connection's writer; the channel is closed when
// the player leaves the session.
func (p *Player) Outbound() <-chan domain.Message { return p.out }

// Score returns the player's accumulated points.
func (p *Player) Score() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

// enqueue hands a message to the player's writer without blocking. A closed
// player or a full buffer counts as a delivery failure; the caller decides
// what to do with the player.
func (p *Player) enqueue(msg domain.Message) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.out <- msg:
		return true
	default:
		return false
	}
}

// close shuts the outbound channel exactly once. A farewell message is
// delivered best-effort before the close.
func (p *Player) close(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.accepting = false
	if p.timer != nil {
		p.timer.Stop()
	}
	if reason != "" {
		select {
		case p.out <- domain.InfoMessage(reason):
		default:
		}
	}
	close(p.out)
}

// openWindow arms the answer gate for q, superseding any previous window.
// The epoch counter ties a pending time-limit expiry to the window it was
// armed for, so an expiry can never close a later window.
func (p *Player) openWindow(q domain.Question) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.epoch++
	p.accepting = true
	p.question = q
	if d := q.TimeLimitDuration(); d > 0 {
		epoch := p.epoch
		p.timer = time.AfterFunc(d, func() { p.expireWindow(epoch) })
	}
}

// expireWindow closes the gate on timeout, unless the first answer or a
// newer window already got there.
func (p *Player) expireWindow(epoch uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch || !p.accepting {
		return
	}
	p.accepting = false
}

// Submit evaluates an inbound answer against the player's window. The first
// in-window answer closes the window and is scored; anything else reports
// accepted=false and leaves the player untouched.
func (p *Player) Submit(answer string) (accepted, correct bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.accepting {
		return false, false
	}
	p.accepting = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if matchOption(p.question, answer) {
		p.score++
		return true, true
	}
	return true, false
}

// matchOption accepts either the option's answer text or its positional
// label (a, b, c, ...), case-insensitively.
func matchOption(q domain.Question, answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return false
	}
	for i, opt := range q.Options {
		if !opt.Correct {
			continue
		}
		if answer == strings.ToLower(strings.TrimSpace(opt.Answer)) {
			return true
		}
		if answer == optionLabel(i) {
			return true
		}
	}
	return false
}

// optionLabel derives the positional label for option index i: a..z, then
// aa, ab, ... for absurdly long option lists.
func optionLabel(i int) string {
	label := ""
	for {
		label = string(rune('a'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}
