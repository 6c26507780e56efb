package model

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of question kinds. It doubles as the grouping
// key of the question bank and the tab order of the examination view.
type Category int

const (
	SingleSelect Category = iota
	MultiSelect
	Judge
	FillIn
)

var categoryNames = [...]string{
	SingleSelect: "single_select",
	MultiSelect:  "multi_select",
	Judge:        "judge",
	FillIn:       "fill_in",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{SingleSelect, MultiSelect, Judge, FillIn}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	return c >= SingleSelect && c <= FillIn
}

// Next returns the following category, or c itself when c is the last one.
func (c Category) Next() Category {
	if c >= FillIn {
		return FillIn
	}
	return c + 1
}

// Previous returns the preceding category, or c itself when c is the first one.
func (c Category) Previous() Category {
	if c <= SingleSelect {
		return SingleSelect
	}
	return c - 1
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a pool-file kind name to a Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == key {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown question kind %q", s)
}

// Phase is the coarse lifecycle of an examination session.
type Phase int

const (
	// InProgress accepts answers.
	InProgress Phase = iota
	// Ended is read-only review with correctness highlighting.
	Ended
)

func (p Phase) String() string {
	if p == Ended {
		return "ended"
	}
	return "in_progress"
}

// Judge answers. Pool files may use either case; the loader normalizes them.
const (
	JudgeYes = "Yes"
	JudgeNo  = "No"
)

// ExamConfig holds the session parameters read from flags, env and config file.
type ExamConfig struct {
	Title    string
	Duration time.Duration // 0 means untimed
	Quotas   map[Category]int
	Seed     uint64 // 0 means a random seed
}

// Validate checks the configuration before a session is built.
func (c ExamConfig) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("exam title is required")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	for cat, n := range c.Quotas {
		if !cat.Valid() {
			return fmt.Errorf("quota for unknown category %d", int(cat))
		}
		if n < 0 {
			return fmt.Errorf("quota for %s must not be negative, got %d", cat, n)
		}
	}
	return nil
}
