package exam

import "github.com/pavelanni/examterm/internal/mode"

// Intent is a discrete user action produced by the key-mapping layer.
type Intent int

const (
	IntentNone Intent = iota
	IntentMoveUp
	IntentMoveDown
	IntentNextCategory
	IntentPrevCategory
	IntentRequestAnswer
	IntentSubmit
	IntentConfirmAlert
	IntentDismissAlert
)

func (i Intent) String() string {
	switch i {
	case IntentMoveUp:
		return "move_up"
	case IntentMoveDown:
		return "move_down"
	case IntentNextCategory:
		return "next_category"
	case IntentPrevCategory:
		return "prev_category"
	case IntentRequestAnswer:
		return "request_answer"
	case IntentSubmit:
		return "submit"
	case IntentConfirmAlert:
		return "confirm_alert"
	case IntentDismissAlert:
		return "dismiss_alert"
	default:
		return "none"
	}
}

// Apply routes an intent according to the current mode. Intents that do not
// belong to the mode are ignored. Submit is honored in every mode except
// Alert so an expiring timer can always reach it.
func (s *Session) Apply(in Intent) error {
	switch s.modes.Get() {
	case mode.Alert:
		switch in {
		case IntentConfirmAlert:
			return s.ConfirmAlert()
		case IntentDismissAlert:
			s.DismissAlert()
		}
		return nil
	case mode.Input:
		if in == IntentSubmit {
			return s.Submit()
		}
		return nil
	}

	switch in {
	case IntentMoveUp:
		s.MoveUp()
	case IntentMoveDown:
		s.MoveDown()
	case IntentNextCategory:
		s.NextCategory()
	case IntentPrevCategory:
		s.PrevCategory()
	case IntentRequestAnswer:
		return s.RequestAnswer()
	case IntentSubmit:
		return s.Submit()
	}
	return nil
}
