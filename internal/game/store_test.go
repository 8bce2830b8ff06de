package game

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"hangman/internal/hangman"
)

func newTestStore() *Store {
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStore_CreateGame_GetGame(t *testing.T) {
	s := newTestStore()
	g, err := s.CreateGame(hangman.Config{Word: "HANGMAN", Duration: time.Minute})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	defer s.RemoveGame(g.ID)

	got, ok := s.GetGame(g.ID)
	if !ok {
		t.Fatal("GetGame returned false for existing game")
	}
	if got != g {
		t.Error("GetGame returned different pointer")
	}
	if !s.DeadlineLoopRunning(g.ID) {
		t.Error("deadline loop should be armed for timed game")
	}

	if _, ok := s.GetGame("nonexistent"); ok {
		t.Error("GetGame should return false for missing ID")
	}
}

func TestStore_CreateGame_Invalid(t *testing.T) {
	s := newTestStore()
	if _, err := s.CreateGame(hangman.Config{Word: "123"}); err == nil {
		t.Error("CreateGame should reject a word outside the alphabet")
	}
}

func TestStore_Publish(t *testing.T) {
	s := newTestStore()
	g, _ := s.CreateGame(hangman.Config{Word: "CAT"})
	hub, ok := s.Broadcaster(g.ID)
	if !ok {
		t.Fatal("Broadcaster returned false for existing game")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish(g.ID, EventBoard)
	if got := <-ch; got != EventBoard {
		t.Errorf("got event %q, want %q", got, EventBoard)
	}
}

func TestStore_DeadlineLoopTimesOut(t *testing.T) {
	s := newTestStore()
	g, _ := s.CreateGame(hangman.Config{Word: "CAT", Duration: 30 * time.Millisecond})
	hub, _ := s.Broadcaster(g.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	select {
	case got := <-ch:
		if got != EventBoard {
			t.Errorf("got event %q, want %q", got, EventBoard)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("deadline loop never published")
	}
	if snap := g.Snapshot(g.CreatedAt); snap.Status != hangman.StatusLost {
		t.Errorf("Status %q, want lost", snap.Status)
	}
	waitFor(t, func() bool { return !s.DeadlineLoopRunning(g.ID) })
}

func TestStore_WakeAfterWinDisarms(t *testing.T) {
	s := newTestStore()
	g, _ := s.CreateGame(hangman.Config{Word: "CAT", Duration: time.Hour})
	now := time.Now().UTC()
	g.Guess("C", now)
	g.Guess("A", now)
	g.Guess("T", now)
	s.WakeDeadlineLoop(g.ID)
	waitFor(t, func() bool { return !s.DeadlineLoopRunning(g.ID) })
	if snap := g.Snapshot(now); snap.Status != hangman.StatusWon {
		t.Errorf("Status %q, want won", snap.Status)
	}
}

func TestStore_NoLoopWithoutDeadline(t *testing.T) {
	s := newTestStore()
	g, _ := s.CreateGame(hangman.Config{Word: "CAT"})
	waitFor(t, func() bool { return !s.DeadlineLoopRunning(g.ID) })
}

func TestStore_RemoveGameCancelsTimer(t *testing.T) {
	s := newTestStore()
	g, _ := s.CreateGame(hangman.Config{Word: "CAT", Duration: 20 * time.Millisecond})
	if !s.RemoveGame(g.ID) {
		t.Fatal("RemoveGame should report existing game")
	}
	if s.DeadlineLoopRunning(g.ID) {
		t.Error("deadline loop should be cancelled")
	}
	time.Sleep(50 * time.Millisecond)
	if !g.Tick(time.Now().UTC()) {
		t.Error("cancelled timer must not have ticked the discarded game")
	}
	if s.RemoveGame(g.ID) {
		t.Error("second RemoveGame should report false")
	}
}

func TestStore_Sweep(t *testing.T) {
	s := newTestStore()
	stale, _ := s.CreateGame(hangman.Config{Word: "CAT"})
	fresh, _ := s.CreateGame(hangman.Config{Word: "DOG"})
	now := time.Now().UTC()
	stale.Touch(now.Add(-3 * time.Hour))
	fresh.Touch(now)

	if n := s.Sweep(now, 2*time.Hour); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, ok := s.GetGame(stale.ID); ok {
		t.Error("stale game should be swept")
	}
	if _, ok := s.GetGame(fresh.ID); !ok {
		t.Error("fresh game should survive")
	}
}

func TestStore_WakeDeadlineLoop_NoPanicWhenNoLoop(t *testing.T) {
	s := newTestStore()
	s.WakeDeadlineLoop("nonexistent")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}
