// Package timer is the examination countdown.
package timer

import (
	"fmt"
	"time"
)

// Countdown tracks the time left in an examination. A zero duration means
// the examination is untimed.
type Countdown struct {
	deadline time.Time
	duration time.Duration
	now      func() time.Time
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) { c.now = now }
}

// Start begins counting down d from now.
func Start(d time.Duration, opts ...Option) *Countdown {
	c := &Countdown{duration: d, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.deadline = c.now().Add(d)
	return c
}

// Untimed reports whether the countdown never expires.
func (c *Countdown) Untimed() bool { return c.duration <= 0 }

// Remaining is the time left, never negative.
func (c *Countdown) Remaining() time.Duration {
	if c.Untimed() {
		return 0
	}
	left := c.deadline.Sub(c.now())
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the deadline has passed.
func (c *Countdown) Expired() bool {
	return !c.Untimed() && c.Remaining() == 0
}

// String renders the remaining time as HH:MM:SS.
func (c *Countdown) String() string {
	return Format(c.Remaining())
}

// Format renders d as HH:MM:SS, rounding partial seconds up so that the
// display reaches 00:00:00 only on expiry.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
