package game

import (
	"log/slog"
	"time"

	"hangman/internal/hangman"
	"hangman/pkg/realtime"
)

// EventBoard is published whenever a game's board changes.
const EventBoard = "board"

// Store holds games and delegates to realtime.RoomStore for broadcast and the
// per-game deadline timer.
type Store struct {
	r      *realtime.RoomStore[*Game]
	logger *slog.Logger
}

// NewStore creates an in-memory game store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{r: realtime.NewRoomStore[*Game](), logger: logger}
}

// CreateGame starts a new game, registers it and arms its deadline timer.
func (s *Store) CreateGame(cfg hangman.Config) (*Game, error) {
	g, err := NewGame(cfg, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.r.Create(g.ID, g)
	s.EnsureDeadlineLoop(g.ID)
	s.logger.Info("game created", "game", g.ID, "duration", cfg.Duration)
	return g, nil
}

// GetGame returns a game by ID if it exists.
func (s *Store) GetGame(id string) (*Game, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// RemoveGame discards a game. Its deadline timer is cancelled before RemoveGame
// returns, and open streams are closed.
func (s *Store) RemoveGame(id string) bool {
	removed := s.r.Remove(id)
	if removed {
		s.logger.Info("game removed", "game", id)
	}
	return removed
}

// Broadcaster returns the broadcaster for a game.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a game update.
func (s *Store) Publish(id string, event string) {
	s.r.Publish(id, event)
}

// EnsureDeadlineLoop starts the deadline timer for a game if one is needed and
// not already running. The loop ticks the game once when the deadline passes,
// publishes the board and exits.
func (s *Store) EnsureDeadlineLoop(id string) {
	getState := func() (*Game, bool) {
		return s.GetGame(id)
	}
	tick := func(g *Game, now time.Time) (time.Time, []string, bool) {
		next, ok := g.NextTimer()
		if !ok {
			return time.Time{}, nil, true
		}
		if now.Before(next) {
			return next, nil, false
		}
		if g.Tick(now) {
			s.logger.Info("game timed out", "game", id)
		}
		return time.Time{}, []string{EventBoard}, true
	}
	s.r.RunLoop(id, getState, tick)
}

// WakeDeadlineLoop makes the deadline loop re-check immediately, e.g. after a
// winning guess leaves nothing to wait for.
func (s *Store) WakeDeadlineLoop(id string) {
	s.r.Wake(id)
}

// DeadlineLoopRunning reports whether the game still has an armed timer.
func (s *Store) DeadlineLoopRunning(id string) bool {
	return s.r.Running(id)
}

// Sweep removes games idle since before now-ttl and returns how many it removed.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	removed := 0
	for _, id := range s.r.IDs() {
		g, ok := s.GetGame(id)
		if !ok || !g.LastSeen().Before(cutoff) {
			continue
		}
		if s.r.Remove(id) {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("swept idle games", "removed", removed, "ttl", ttl)
	}
	return removed
}
