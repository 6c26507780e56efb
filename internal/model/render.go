package model

import (
	"fmt"
	"strings"
)

// Style tags a rendered line for the view layer.
type Style int

const (
	StyleDefault Style = iota
	StyleSelected
	StyleCorrect
	StyleWrong
)

// Line is one line of a question's rendered projection.
type Line struct {
	Text  string
	Style Style
}

// placeholders are the answer markers a prompt may contain.
var placeholders = []string{"（ ）", "( )"}

var judgeOptions = []string{JudgeYes, JudgeNo}

// RenderView projects the question into display lines. index is the
// zero-based position used for numbering. The question is not modified.
func (q Question) RenderView(phase Phase, index int) []Line {
	lines := []Line{{Text: fmt.Sprintf("%d: %s", index+1, fillPlaceholders(q.Text, q.Responses()))}}

	switch q.Category {
	case SingleSelect, MultiSelect:
		user, answered := letterSet(q.Response), q.Response != ""
		key := letterSet(q.Answer)
		for i, opt := range q.Options {
			lines = append(lines, Line{
				Text:  "  " + OptionLetter(i) + ". " + opt,
				Style: optionStyle(phase, i, answered, user, key),
			})
		}
	case Judge:
		user, key := judgeSet(q.Response), judgeSet(q.Answer)
		for i, opt := range judgeOptions {
			lines = append(lines, Line{
				Text:  "  " + opt,
				Style: optionStyle(phase, i, q.Response != "", user, key),
			})
		}
	case FillIn:
		for i, b := range q.Blanks {
			text := fmt.Sprintf("  [%d] %s", i+1, b.Response)
			style := StyleDefault
			switch {
			case phase == Ended && b.Correct():
				style = StyleCorrect
			case phase == Ended:
				style = StyleWrong
				text += "  -> " + b.Answer
			case b.Response != "":
				style = StyleSelected
			}
			lines = append(lines, Line{Text: text, Style: style})
		}
	}
	return lines
}

func optionStyle(phase Phase, i int, answered bool, user, key uint8) Style {
	if !answered {
		return StyleDefault
	}
	bit := uint8(1) << i
	picked, correct := user&bit != 0, key&bit != 0
	if phase == InProgress {
		if picked {
			return StyleSelected
		}
		return StyleDefault
	}
	switch {
	case correct:
		return StyleCorrect
	case picked:
		return StyleWrong
	default:
		return StyleDefault
	}
}

func judgeSet(s string) uint8 {
	switch {
	case strings.EqualFold(s, JudgeYes):
		return 1
	case strings.EqualFold(s, JudgeNo):
		return 2
	default:
		return 0
	}
}

// fillPlaceholders substitutes responses into answer markers, in order.
// A marker whose response is empty stays as it is.
func fillPlaceholders(text string, values []string) string {
	var b strings.Builder
	rest := text
	for _, v := range values {
		at, marker := nextPlaceholder(rest)
		if at < 0 {
			break
		}
		b.WriteString(rest[:at])
		switch {
		case v == "":
			b.WriteString(marker)
		case strings.HasPrefix(marker, "（"):
			b.WriteString("（" + v + "）")
		default:
			b.WriteString("(" + v + ")")
		}
		rest = rest[at+len(marker):]
	}
	b.WriteString(rest)
	return b.String()
}

func nextPlaceholder(s string) (int, string) {
	at, marker := -1, ""
	for _, p := range placeholders {
		if i := strings.Index(s, p); i >= 0 && (at < 0 || i < at) {
			at, marker = i, p
		}
	}
	return at, marker
}
