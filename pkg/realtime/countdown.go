package realtime

import "time"

// Countdown holds the timing state for a single deadline: how long the window is
// and when it opened. It does not hold game-specific state; a game composes it
// and asks Expired(now) when it needs to know whether time ran out.
// A zero Duration means there is no deadline at all.
type Countdown struct {
	Duration time.Duration
	Started  time.Time
}

// NewCountdown opens a countdown of d starting at now.
func NewCountdown(d time.Duration, now time.Time) Countdown {
	return Countdown{Duration: d, Started: now}
}

// Deadline returns the instant the countdown elapses, and whether one is set.
func (c Countdown) Deadline() (time.Time, bool) {
	if c.Duration <= 0 || c.Started.IsZero() {
		return time.Time{}, false
	}
	return c.Started.Add(c.Duration), true
}

// Expired reports whether now is at or past the deadline. A countdown without a
// deadline never expires.
func (c Countdown) Expired(now time.Time) bool {
	deadline, ok := c.Deadline()
	if !ok {
		return false
	}
	return !now.Before(deadline)
}

// Remaining returns the time left until the deadline, clamped at zero.
// Without a deadline it returns zero.
func (c Countdown) Remaining(now time.Time) time.Duration {
	deadline, ok := c.Deadline()
	if !ok {
		return 0
	}
	left := deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
