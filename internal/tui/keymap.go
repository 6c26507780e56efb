package tui

import (
	"github.com/pavelanni/examterm/internal/exam"
	"github.com/pavelanni/examterm/internal/mode"
)

// intentFor maps a key to a session intent for the given mode. Input mode
// keys belong to the editor, except submit.
func intentFor(m mode.Mode, key string) exam.Intent {
	if key == "ctrl+s" {
		return exam.IntentSubmit
	}
	switch m {
	case mode.Alert:
		switch key {
		case "enter", "y":
			return exam.IntentConfirmAlert
		case "esc", "n":
			return exam.IntentDismissAlert
		}
	case mode.Examination:
		switch key {
		case "up", "k":
			return exam.IntentMoveUp
		case "down", "j":
			return exam.IntentMoveDown
		case "right", "l":
			return exam.IntentNextCategory
		case "left", "h":
			return exam.IntentPrevCategory
		case "enter":
			return exam.IntentRequestAnswer
		}
	}
	return exam.IntentNone
}

// editorAction is what a key does inside the answer popup.
type editorAction int

const (
	editNone editorAction = iota
	editInsert
	editBackspace
	editLeft
	editRight
	editNextField
	editSubmit
	editCancel
	editYes
	editNo
)

func editorActionFor(judge bool, key, text string) editorAction {
	switch key {
	case "esc":
		return editCancel
	case "enter":
		if judge {
			return editNone
		}
		return editSubmit
	case "tab":
		return editNextField
	case "left":
		return editLeft
	case "right":
		return editRight
	case "backspace":
		return editBackspace
	}
	if judge {
		switch key {
		case "y", "Y", "shift+y":
			return editYes
		case "n", "N", "shift+n":
			return editNo
		}
		return editNone
	}
	if text != "" {
		return editInsert
	}
	return editNone
}
