// Package input is the answer editor. It takes a question from the handshake,
// edits one text field per response slot and hands the question back.
package input

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pavelanni/examterm/internal/handshake"
	"github.com/pavelanni/examterm/internal/mode"
	"github.com/pavelanni/examterm/internal/model"
)

// Kind selects how the editor is drawn and which keys it accepts.
type Kind int

const (
	// KindFill is free text, one field per slot.
	KindFill Kind = iota
	// KindJudge accepts only Yes or No.
	KindJudge
)

// Editor is the input surface.
type Editor struct {
	answers *handshake.Responder
	modes   *mode.Coordinator

	question *model.Question
	kind     Kind
	fields   []string
	field    int
	cursor   int // rune position within the current field
}

// NewEditor returns an idle editor.
func NewEditor(answers *handshake.Responder, modes *mode.Coordinator) *Editor {
	return &Editor{answers: answers, modes: modes}
}

// Poll picks up a pending request. It returns true when a new question was
// taken.
func (e *Editor) Poll() bool {
	if e.question != nil {
		return false
	}
	q, ok := e.answers.Poll()
	if !ok {
		return false
	}
	e.question = &q
	e.kind = KindFill
	if q.Category == model.Judge {
		e.kind = KindJudge
	}
	e.fields = q.Responses()
	if len(e.fields) == 0 {
		e.fields = []string{""}
	}
	e.field = 0
	e.cursor = utf8.RuneCountInString(e.fields[0])
	slog.Debug("editor opened", "question", q.ID, "slots", len(e.fields))
	return true
}

// Active reports whether a question is being edited and the mode allows it.
func (e *Editor) Active() bool {
	return e.question != nil && e.modes.Is(mode.Input)
}

// Question returns the question being edited, as received.
func (e *Editor) Question() (model.Question, bool) {
	if e.question == nil {
		return model.Question{}, false
	}
	return *e.question, true
}

// Kind returns the editor kind for the held question.
func (e *Editor) Kind() Kind { return e.kind }

// Fields returns the working values of every slot.
func (e *Editor) Fields() []string { return append([]string(nil), e.fields...) }

// Field returns the index of the focused slot.
func (e *Editor) Field() int { return e.field }

// Cursor returns the rune position in the focused slot.
func (e *Editor) Cursor() int { return e.cursor }

// Insert types text at the cursor.
func (e *Editor) Insert(text string) {
	if !e.Active() || e.kind != KindFill || text == "" {
		return
	}
	cur := e.fields[e.field]
	at := byteIndex(cur, e.cursor)
	e.fields[e.field] = cur[:at] + text + cur[at:]
	e.cursor += utf8.RuneCountInString(text)
}

// Backspace deletes the rune before the cursor.
func (e *Editor) Backspace() {
	if !e.Active() || e.kind != KindFill || e.cursor == 0 {
		return
	}
	cur := e.fields[e.field]
	from, to := byteIndex(cur, e.cursor-1), byteIndex(cur, e.cursor)
	e.fields[e.field] = cur[:from] + cur[to:]
	e.cursor--
}

// Left moves the cursor one rune left.
func (e *Editor) Left() {
	if !e.Active() {
		return
	}
	e.cursor = e.clamp(e.cursor - 1)
}

// Right moves the cursor one rune right.
func (e *Editor) Right() {
	if !e.Active() {
		return
	}
	e.cursor = e.clamp(e.cursor + 1)
}

// NextField focuses the following slot, wrapping to the first.
func (e *Editor) NextField() {
	if !e.Active() || len(e.fields) < 2 {
		return
	}
	e.field = (e.field + 1) % len(e.fields)
	e.cursor = utf8.RuneCountInString(e.fields[e.field])
}

// Judge answers a judge question and submits it.
func (e *Editor) Judge(yes bool) error {
	if !e.Active() || e.kind != KindJudge {
		return nil
	}
	e.fields = []string{model.JudgeNo}
	if yes {
		e.fields[0] = model.JudgeYes
	}
	return e.Submit()
}

// Submit returns the question with the edited fields as its responses.
// Surrounding whitespace is trimmed from every field.
func (e *Editor) Submit() error {
	if e.question == nil {
		return nil
	}
	q := e.question.Clone()
	values := make([]string, len(e.fields))
	for i, f := range e.fields {
		values[i] = strings.TrimSpace(f)
	}
	q.SetResponse(values...)
	if err := e.answers.Submit(q); err != nil {
		return err
	}
	slog.Debug("editor submitted", "question", q.ID, "answered", q.Answered())
	e.reset()
	return nil
}

// Cancel returns the question exactly as it was received.
func (e *Editor) Cancel() error {
	if e.question == nil {
		return nil
	}
	if err := e.answers.Cancel(); err != nil {
		return err
	}
	slog.Debug("editor cancelled", "question", e.question.ID)
	e.reset()
	return nil
}

func (e *Editor) reset() {
	e.question = nil
	e.fields = nil
	e.field = 0
	e.cursor = 0
}

func (e *Editor) clamp(pos int) int {
	n := utf8.RuneCountInString(e.fields[e.field])
	return max(0, min(pos, n))
}

// byteIndex converts a rune position into a byte offset of s.
func byteIndex(s string, runes int) int {
	i := 0
	for at := range s {
		if i == runes {
			return at
		}
		i++
	}
	return len(s)
}
