package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/ZelenyMartin/quiz-server/internal/domain"
)

func TestAddRejectsDuplicateID(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(NewPlayer("p1")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := r.Add(NewPlayer("p1"))
	if !errors.Is(err, domain.ErrDuplicatePlayer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("failed add changed registry size: %d", r.Len())
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Remove("ghost")
	r.Remove("ghost")
	if r.Len() != 0 {
		t.Fatalf("registry size %d", r.Len())
	}
}

func TestBroadcastReachesEveryPlayer(t *testing.T) {
	r := NewRegistry()
	players := []*Player{NewPlayer("p1"), NewPlayer("p2"), NewPlayer("p3")}
	for _, p := range players {
		if err := r.Add(p); err != nil {
			t.Fatalf("add %s: %v", p.ID(), err)
		}
	}

	r.Broadcast(domain.InfoMessage("hello"))
	for _, p := range players {
		msg := <-p.Outbound()
		if msg.Text != "hello" {
			t.Fatalf("player %s got %q", p.ID(), msg.Text)
		}
	}
}

func TestBroadcastDropsOnlyTheFailingPlayer(t *testing.T) {
	r := NewRegistry()
	healthy := NewPlayer("healthy")
	broken := NewPlayer("broken")
	if err := r.Add(healthy); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Add(broken); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Saturate the broken player's buffer so the next delivery fails.
	for broken.enqueue(domain.InfoMessage("fill")) {
	}

	r.Broadcast(domain.InfoMessage("question"))

	if r.Len() != 1 {
		t.Fatalf("expected broken player dropped, size %d", r.Len())
	}
	found := false
	for msg := range healthy.Outbound() {
		if msg.Text == "question" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("healthy player missed the broadcast")
	}
}

func TestCloseAllEmptiesRegistryAndClosesChannels(t *testing.T) {
	r := NewRegistry()
	p := NewPlayer("p1")
	if err := r.Add(p); err != nil {
		t.Fatalf("add: %v", err)
	}

	r.CloseAll("quiz ended")
	if r.Len() != 0 {
		t.Fatalf("registry size %d after CloseAll", r.Len())
	}

	var last domain.Message
	for msg := range p.Outbound() {
		last = msg
	}
	if last.Text != "quiz ended" {
		t.Fatalf("expected farewell reason, got %q", last.Text)
	}

	// Idempotent: a second close must not panic on the closed channel.
	r.CloseAll("again")

	if err := r.Add(NewPlayer("late")); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected closed registry to reject joins, got %v", err)
	}
}

func TestScoresSortedByPointsThenID(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zoe", "amy", "bob"} {
		if err := r.Add(NewPlayer(id)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	q := gateQuestion()
	r.OpenWindows(q)
	r.snapshot()[0].Submit("4") // someone scores; order among zeros is by id

	scores := r.Scores()
	if len(scores) != 3 {
		t.Fatalf("got %d scores", len(scores))
	}
	if scores[0].Points != 1 {
		t.Fatalf("leader has %d points", scores[0].Points)
	}
	if scores[1].PlayerID > scores[2].PlayerID {
		t.Fatalf("tie not sorted by id: %v", scores)
	}
}

func TestConcurrentJoinLeaveDuringBroadcasts(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := NewPlayer(id)
			if err := r.Add(p); err != nil {
				return
			}
			go func() {
				for range p.Outbound() {
				}
			}()
			r.Remove(id)
		}()
	}
	for i := 0; i < 20; i++ {
		r.Broadcast(domain.InfoMessage("tick"))
	}
	wg.Wait()
}
