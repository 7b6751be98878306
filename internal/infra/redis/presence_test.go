package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestPresenceMarksAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	presence := NewPresence(newClient(mr), time.Minute)

	presence.Mark(context.Background(), "T")
	if !mr.Exists("quiz:session:T") {
		t.Fatalf("expected liveness key to be set")
	}

	presence.Clear(context.Background(), "T")
	if mr.Exists("quiz:session:T") {
		t.Fatalf("expected liveness key to be removed")
	}
}
