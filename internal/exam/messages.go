package exam

import "fmt"

// Messages renders the text of the alerts the session raises.
type Messages interface {
	ConfirmIncomplete(unanswered int) string
	FinalScore(score, total int) string
}

type plainMessages struct{}

func (plainMessages) ConfirmIncomplete(unanswered int) string {
	return fmt.Sprintf("%d question(s) are still unanswered. Submit anyway?", unanswered)
}

func (plainMessages) FinalScore(score, total int) string {
	return fmt.Sprintf("Your final score is %d of %d.", score, total)
}
