// Package hangman implements the guess and deadline state of a single hangman
// game, independent of how it is rendered.
package hangman

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"hangman/pkg/realtime"
)

// Alphabet is the default ordered set of letters a player can pick from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Placeholder stands in for a letter that has not been guessed yet.
const Placeholder = "_"

// ErrInvalidConfiguration is returned by New when a session cannot be built
// from the given configuration.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Status is the derived outcome of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Config is the immutable input of a session. Word and Alphabet are
// case-insensitive; both are uppercased by New. A zero Duration means the
// session has no deadline.
type Config struct {
	Word     string
	Duration time.Duration
	Alphabet string
}

// Session tracks the letters guessed against one target word and whether its
// deadline has passed. It is not safe for concurrent use.
type Session struct {
	word      []string
	alphabet  []string
	guessed   map[string]struct{}
	countdown realtime.Countdown
	timedOut  bool
}

// New creates a session started at now.
func New(cfg Config, now time.Time) (*Session, error) {
	alphabet := strings.ToUpper(cfg.Alphabet)
	if alphabet == "" {
		alphabet = Alphabet
	}
	word := strings.ToUpper(strings.TrimSpace(cfg.Word))
	if word == "" {
		return nil, fmt.Errorf("%w: empty target word", ErrInvalidConfiguration)
	}
	if cfg.Duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %v", ErrInvalidConfiguration, cfg.Duration)
	}
	letters := lo.Uniq(strings.Split(alphabet, ""))
	letters = lo.Filter(letters, func(l string, _ int) bool { return l != Placeholder })
	wordLetters := strings.Split(word, "")
	if bad, found := lo.Find(wordLetters, func(l string) bool { return !lo.Contains(letters, l) }); found {
		return nil, fmt.Errorf("%w: %q is not in the alphabet", ErrInvalidConfiguration, bad)
	}
	return &Session{
		word:      wordLetters,
		alphabet:  letters,
		guessed:   make(map[string]struct{}),
		countdown: realtime.NewCountdown(cfg.Duration, now),
	}, nil
}

// Guess records letter if it occurs in the target word. Misses, repeats and
// anything that is not a single alphabet letter are ignored.
func (s *Session) Guess(letter string) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if !lo.Contains(s.word, letter) {
		return
	}
	s.guessed[letter] = struct{}{}
}

// Tick marks the session timed out once now reaches the deadline.
func (s *Session) Tick(now time.Time) {
	if s.countdown.Expired(now) {
		s.timedOut = true
	}
}

// MaskedWord renders the target word with unguessed letters replaced by
// Placeholder, one space between positions.
func (s *Session) MaskedWord() string {
	masked := lo.Map(s.word, func(l string, _ int) string {
		if s.Guessed(l) {
			return l
		}
		return Placeholder
	})
	return strings.Join(masked, " ")
}

// Status is evaluated fresh on every call. A fully revealed word wins even if
// the deadline has passed.
func (s *Session) Status() Status {
	if s.revealed() {
		return StatusWon
	}
	if s.timedOut {
		return StatusLost
	}
	return StatusInProgress
}

func (s *Session) revealed() bool {
	return lo.EveryBy(s.word, s.Guessed)
}

// Guessed reports whether letter has been correctly guessed.
func (s *Session) Guessed(letter string) bool {
	_, ok := s.guessed[strings.ToUpper(letter)]
	return ok
}

// GuessedLetters returns the correctly guessed letters in alphabetical order.
func (s *Session) GuessedLetters() []string {
	out := lo.Keys(s.guessed)
	sort.Strings(out)
	return out
}

// Word returns the target word.
func (s *Session) Word() string {
	return strings.Join(s.word, "")
}

// Alphabet returns the letters a player can pick from, in order.
func (s *Session) Alphabet() []string {
	return append([]string(nil), s.alphabet...)
}

// Deadline returns when the session expires, if it has a deadline.
func (s *Session) Deadline() (time.Time, bool) {
	return s.countdown.Deadline()
}

// Remaining returns the time left before the deadline, zero once past or when
// there is no deadline.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.countdown.Remaining(now)
}

// TimedOut reports whether Tick has observed the deadline.
func (s *Session) TimedOut() bool {
	return s.timedOut
}
