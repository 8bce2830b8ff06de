package realtime

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	if _, ok := s.Get("nonexistent"); ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_IDs(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("b", 2)
	s.Create("a", 1)
	ids := s.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs %v, want [a b]", ids)
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	if got := <-ch; got != "event1" {
		t.Errorf("got %q, want event1", got)
	}

	if _, ok := s.Broadcaster("unknown"); ok {
		t.Error("Broadcaster should return false for unknown room")
	}
	s.Publish("unknown", "event1")
}

func TestRoomStore_Remove_ClosesSubscribers(t *testing.T) {
	s := NewRoomStore[string]()
	room := s.Create("r1", "x")
	ch := room.Broadcaster().Subscribe()

	if !s.Remove("r1") {
		t.Fatal("Remove should report existing room")
	}
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed after Remove")
	}
	if _, ok := s.Get("r1"); ok {
		t.Error("room should be gone after Remove")
	}
	if s.Remove("r1") {
		t.Error("second Remove should report false")
	}
}

func TestRoomStore_RunLoop_TicksUntilStop(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	deadline := time.Now().UTC().Add(30 * time.Millisecond)
	var fired atomic.Int32
	getState := func() (string, bool) {
		room, ok := s.Get("r1")
		if !ok {
			return "", false
		}
		return room.State, true
	}
	s.RunLoop("r1", getState, func(_ string, now time.Time) (time.Time, []string, bool) {
		if now.Before(deadline) {
			return deadline, nil, false
		}
		fired.Add(1)
		return time.Time{}, []string{"expired"}, true
	})

	select {
	case got := <-ch:
		if got != "expired" {
			t.Errorf("got %q, want expired", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop never published")
	}

	waitUntil(t, func() bool { return !s.Running("r1") })
	if n := fired.Load(); n != 1 {
		t.Errorf("deadline fired %d times, want 1", n)
	}
}

func TestRoomStore_RunLoop_RemoveCancels(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	var fired atomic.Int32
	far := time.Now().Add(time.Hour)
	s.RunLoop("r1", func() (string, bool) { return "x", true }, func(_ string, now time.Time) (time.Time, []string, bool) {
		if now.Before(far) {
			return far, nil, false
		}
		fired.Add(1)
		return time.Time{}, nil, true
	})
	if !s.Running("r1") {
		t.Fatal("loop should be running")
	}

	s.Remove("r1")
	if s.Running("r1") {
		t.Error("loop should be stopped after Remove")
	}
	if n := fired.Load(); n != 0 {
		t.Errorf("deadline fired %d times after cancel, want 0", n)
	}
}

func TestRoomStore_RunLoop_OnlyOnce(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	var calls atomic.Int32
	far := time.Now().Add(time.Hour)
	tick := func(_ string, _ time.Time) (time.Time, []string, bool) {
		calls.Add(1)
		return far, nil, false
	}
	get := func() (string, bool) { return "x", true }
	s.RunLoop("r1", get, tick)
	s.RunLoop("r1", get, tick)
	waitUntil(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("tick called %d times, want 1 (second RunLoop ignored)", n)
	}
	s.Remove("r1")
}

func TestRoomStore_RunLoop_UnknownRoom(t *testing.T) {
	s := NewRoomStore[string]()
	s.RunLoop("nope", func() (string, bool) { return "", false }, func(string, time.Time) (time.Time, []string, bool) {
		return time.Time{}, nil, true
	})
	if s.Running("nope") {
		t.Error("loop should not start for unknown room")
	}
}

func TestRoomStore_Wake(t *testing.T) {
	s := NewRoomStore[string]()
	s.Wake("nonexistent")

	s.Create("r1", "x")
	var calls atomic.Int32
	far := time.Now().Add(time.Hour)
	s.RunLoop("r1", func() (string, bool) { return "x", true }, func(string, time.Time) (time.Time, []string, bool) {
		calls.Add(1)
		return far, nil, false
	})
	waitUntil(t, func() bool { return calls.Load() == 1 })
	s.Wake("r1")
	waitUntil(t, func() bool { return calls.Load() == 2 })
	s.Remove("r1")
}

func waitUntil(t *testing.T, cond func() bool) {
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
