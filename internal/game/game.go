package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"hangman/internal/hangman"
)

// Game wraps a hangman session so concurrent requests for the same player are
// applied one at a time.
type Game struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	lastSeen  time.Time
	session   *hangman.Session
}

// NewGame starts a session for cfg at now.
func NewGame(cfg hangman.Config, now time.Time) (*Game, error) {
	session, err := hangman.New(cfg, now)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
		session:   session,
	}, nil
}

// Guess applies a letter guess and reports whether it revealed anything new.
func (g *Game) Guess(letter string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastSeen = now
	g.session.Tick(now)
	before := g.session.MaskedWord()
	g.session.Guess(letter)
	return g.session.MaskedWord() != before
}

// Tick forwards the current time to the session and reports whether this call
// is the one that observed the deadline.
func (g *Game) Tick(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	was := g.session.TimedOut()
	g.session.Tick(now)
	return !was && g.session.TimedOut()
}

// Touch records activity so the sweeper keeps the game alive.
func (g *Game) Touch(now time.Time) {
	g.mu.Lock()
	g.lastSeen = now
	g.mu.Unlock()
}

// LastSeen returns the time of the latest guess, render or touch.
func (g *Game) LastSeen() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSeen
}

// NextTimer returns when the deadline loop should next wake. It reports false
// once nothing is left to wait for: no deadline, already timed out, or won.
func (g *Game) NextTimer() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session.TimedOut() || g.session.Status() == hangman.StatusWon {
		return time.Time{}, false
	}
	return g.session.Deadline()
}

// Snapshot captures the state needed for rendering.
type Snapshot struct {
	ID         string
	Status     hangman.Status
	MaskedWord string
	Word       string
	Alphabet   []string
	Guessed    map[string]bool
	HasTimer   bool
	Deadline   time.Time
	Remaining  time.Duration
}

// Snapshot returns a consistent view of the game. It applies the deadline first,
// so a render past the deadline never shows a stale in-progress board.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.Tick(now)
	g.lastSeen = now

	guessed := make(map[string]bool)
	for _, letter := range g.session.GuessedLetters() {
		guessed[letter] = true
	}
	deadline, hasTimer := g.session.Deadline()
	snap := Snapshot{
		ID:         g.ID,
		Status:     g.session.Status(),
		MaskedWord: g.session.MaskedWord(),
		Alphabet:   g.session.Alphabet(),
		Guessed:    guessed,
		HasTimer:   hasTimer,
		Deadline:   deadline,
		Remaining:  g.session.Remaining(now),
	}
	// The word is revealed only once the game is over.
	if snap.Status != hangman.StatusInProgress {
		snap.Word = g.session.Word()
	}
	return snap
}
