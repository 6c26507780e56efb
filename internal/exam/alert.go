package exam

import (
	"sync"

	"github.com/pavelanni/examterm/internal/mode"
)

// ConfirmEvent tells the session what confirming an alert means.
type ConfirmEvent int

const (
	ConfirmNothing ConfirmEvent = iota
	ConfirmSubmit
	ConfirmScore
)

func (e ConfirmEvent) String() string {
	switch e {
	case ConfirmSubmit:
		return "submit"
	case ConfirmScore:
		return "score"
	default:
		return "nothing"
	}
}

// AlertRequest is a blocking message for the view layer.
type AlertRequest struct {
	Message string
	Confirm ConfirmEvent
}

// AlertBox holds at most one alert. It owns the Examination <-> Alert
// transitions.
type AlertBox struct {
	modes *mode.Coordinator

	mu      sync.Mutex
	current *AlertRequest
}

// NewAlertBox returns an empty box bound to modes.
func NewAlertBox(modes *mode.Coordinator) *AlertBox {
	return &AlertBox{modes: modes}
}

// Show raises r. The current mode must be Examination.
func (b *AlertBox) Show(r AlertRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.modes.Transition(mode.Examination, mode.Alert); err != nil {
		return err
	}
	b.current = &r
	return nil
}

// Current returns the shown alert.
func (b *AlertBox) Current() (AlertRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return AlertRequest{}, false
	}
	return *b.current, true
}

// Confirm closes the alert and returns its tag.
func (b *AlertBox) Confirm() (ConfirmEvent, bool) {
	return b.close()
}

// Dismiss closes the alert. The tag is returned so the caller can tell which
// alert went away.
func (b *AlertBox) Dismiss() (ConfirmEvent, bool) {
	return b.close()
}

func (b *AlertBox) close() (ConfirmEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return ConfirmNothing, false
	}
	ev := b.current.Confirm
	b.current = nil
	b.modes.TrySet(mode.Alert, mode.Examination)
	return ev, true
}
