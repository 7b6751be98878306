package app

import (
	"log"
	"sort"
	"sync"

	"github.com/ZelenyMartin/quiz-server/internal/domain"
)

// Registry is the concurrency-safe set of connected players. Join and leave
// events race freely against broadcasts from the session loop; broadcasts
// operate on a snapshot so in-flight deliveries never observe a corrupted
// membership view.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Add registers a player under its id. A second registration for a live id
// fails with domain.ErrDuplicatePlayer and leaves the registry unchanged.
// After CloseAll the registry accepts nobody; a join racing termination must
// not strand a connection that no one will ever close.
func (r *Registry) Add(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrSessionClosed
	}
	if _, ok := r.players[p.id]; ok {
		return domain.ErrDuplicatePlayer
	}
	r.players[p.id] = p
	return nil
}

// Remove drops the player and closes its outbound channel. Removing an
// absent id is a no-op, so a disconnect may race a broadcast-triggered
// removal without either side caring who won.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	p, ok := r.players[id]
	if ok {
		delete(r.players, id)
	}
	r.mu.Unlock()
	if ok {
		p.close("")
	}
}

// Len reports the current number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// snapshot returns the membership at call time.
func (r *Registry) snapshot() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	return players
}

// Broadcast attempts exactly one delivery of msg to every player present at
// call time. A failed delivery drops only that player; the rest of the
// broadcast is unaffected.
func (r *Registry) Broadcast(msg domain.Message) {
	for _, p := range r.snapshot() {
		if !p.enqueue(msg) {
			log.Printf("dropping player %s: delivery failed", p.id)
			r.Remove(p.id)
		}
	}
}

// OpenWindows arms the answer gate for q on every registered player. Called
// strictly after the question broadcast returns, so no player can answer a
// question it has not been offered.
func (r *Registry) OpenWindows(q domain.Question) {
	for _, p := range r.snapshot() {
		p.openWindow(q)
	}
}

// CloseAll empties the registry and closes every player's connection with
// the given reason. Called once, at quiz termination.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	r.closed = true
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	r.players = make(map[string]*Player)
	r.mu.Unlock()

	for _, p := range players {
		p.close(reason)
	}
}

// Scores returns the scoreboard sorted by points descending, then id.
func (r *Registry) Scores() []domain.Score {
	players := r.snapshot()
	scores := make([]domain.Score, 0, len(players))
	for _, p := range players {
		scores = append(scores, domain.Score{PlayerID: p.ID(), Points: p.Score()})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Points != scores[j].Points {
			return scores[i].Points > scores[j].Points
		}
		return scores[i].PlayerID < scores[j].PlayerID
	})
	return scores
}
