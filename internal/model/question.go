package model

import (
	"strings"
	"unicode/utf8"
)

// MaxOptions is the number of option letters, A through H.
const MaxOptions = 8

// Blank is one independently graded slot of a fill-in question. The JSON
// form is the pool database's blanks column; responses are never stored.
type Blank struct {
	Answer   string `json:"answer"`
	Response string `json:"-"`
	Points   int    `json:"score"`
}

// Correct reports whether the blank's response matches its key. Single-letter
// keys compare case-insensitively, everything else must match exactly.
func (b Blank) Correct() bool {
	if b.Response == "" {
		return false
	}
	if utf8.RuneCountInString(b.Answer) == 1 {
		return strings.EqualFold(b.Response, b.Answer)
	}
	return b.Response == b.Answer
}

// Question is a tagged union over the four categories. Options and Answer are
// used by the select and judge kinds, Blanks only by FillIn.
type Question struct {
	ID       string
	Category Category
	Text     string
	Options  []string
	Answer   string
	Response string
	Points   int
	Blanks   []Blank
}

// Answered reports whether every response slot holds a value.
func (q Question) Answered() bool {
	switch q.Category {
	case FillIn:
		if len(q.Blanks) == 0 {
			return false
		}
		for _, b := range q.Blanks {
			if b.Response == "" {
				return false
			}
		}
		return true
	default:
		return q.Response != ""
	}
}

// Score grades the question. It reads only the responses and keys.
func (q Question) Score() int {
	switch q.Category {
	case SingleSelect, Judge:
		if q.Response != "" && strings.EqualFold(q.Response, q.Answer) {
			return q.Points
		}
		return 0
	case MultiSelect:
		if q.Response == "" {
			return 0
		}
		if letterSet(q.Response) == letterSet(q.Answer) {
			return q.Points
		}
		return 0
	case FillIn:
		total := 0
		for _, b := range q.Blanks {
			if b.Correct() {
				total += b.Points
			}
		}
		return total
	default:
		return 0
	}
}

// MaxScore is the score a fully correct answer earns.
func (q Question) MaxScore() int {
	if q.Category == FillIn {
		total := 0
		for _, b := range q.Blanks {
			total += b.Points
		}
		return total
	}
	return q.Points
}

// Responses returns the current value of every slot, in order.
func (q Question) Responses() []string {
	if q.Category == FillIn {
		out := make([]string, len(q.Blanks))
		for i, b := range q.Blanks {
			out[i] = b.Response
		}
		return out
	}
	return []string{q.Response}
}

// SetResponse replaces every response slot. Fill-in blanks are zipped with
// values by position; blanks without a value are cleared and extra values are
// ignored.
func (q *Question) SetResponse(values ...string) {
	if q.Category == FillIn {
		for i := range q.Blanks {
			if i < len(values) {
				q.Blanks[i].Response = values[i]
			} else {
				q.Blanks[i].Response = ""
			}
		}
		return
	}
	if len(values) == 0 {
		q.Response = ""
		return
	}
	q.Response = values[0]
}

// Clone returns a deep copy that shares no slices with q.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	if q.Blanks != nil {
		c.Blanks = append([]Blank(nil), q.Blanks...)
	}
	return c
}

// OptionIndex maps an option letter to its zero-based index. Letters outside
// A-H, in either case, have no index.
func OptionIndex(r rune) (int, bool) {
	switch {
	case r >= 'A' && r <= 'H':
		return int(r - 'A'), true
	case r >= 'a' && r <= 'h':
		return int(r - 'a'), true
	default:
		return 0, false
	}
}

// OptionLetter is the inverse of OptionIndex.
func OptionLetter(i int) string {
	if i < 0 || i >= MaxOptions {
		return ""
	}
	return string(rune('A' + i))
}

// letterSet collapses a string of option letters into a bitmask. Order,
// case and duplicates do not matter; characters without an index are dropped.
func letterSet(s string) uint8 {
	var set uint8
	for _, r := range s {
		if i, ok := OptionIndex(r); ok {
			set |= 1 << i
		}
	}
	return set
}
