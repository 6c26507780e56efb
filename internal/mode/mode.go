// Package mode arbitrates the single active interaction mode shared by the
// examination view, the input surface and the alert box.
package mode

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Mode gates key routing and drawing across components.
type Mode int

const (
	// Examination is browsing and navigating questions.
	Examination Mode = iota
	// Input means a question is out for answering.
	Input
	// Alert means a blocking message is shown.
	Alert
)

func (m Mode) String() string {
	switch m {
	case Examination:
		return "examination"
	case Input:
		return "input"
	case Alert:
		return "alert"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrIllegalTransition is returned by Transition for a pair outside the
// transition table or when the current mode is not the expected one.
var ErrIllegalTransition = errors.New("illegal mode transition")

var legal = map[Mode][]Mode{
	Examination: {Input, Alert},
	Input:       {Examination},
	Alert:       {Examination},
}

// Allowed reports whether from -> to is in the transition table.
func Allowed(from, to Mode) bool {
	for _, m := range legal[from] {
		if m == to {
			return true
		}
	}
	return false
}

// Coordinator serializes every read and write of the current mode.
type Coordinator struct {
	mu   sync.Mutex
	mode Mode
}

// NewCoordinator starts in Examination.
func NewCoordinator() *Coordinator {
	return &Coordinator{mode: Examination}
}

// Get returns the current mode.
func (c *Coordinator) Get() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Is reports whether the current mode is m.
func (c *Coordinator) Is(m Mode) bool {
	return c.Get() == m
}

// TrySet moves from -> to if the current mode is from and the pair is legal.
// It reports whether the transition happened.
func (c *Coordinator) TrySet(from, to Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != from || !Allowed(from, to) {
		return false
	}
	c.mode = to
	slog.Debug("mode transition", "from", from, "to", to)
	return true
}

// Transition is TrySet returning an error that names the rejected pair.
func (c *Coordinator) Transition(from, to Mode) error {
	if c.TrySet(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s (current %s)", ErrIllegalTransition, from, to, c.Get())
}
