package model

import (
	"strings"
	"testing"
)

func singleSelect(answer, response string, points int) Question {
	return Question{
		ID:       "q-single",
		Category: SingleSelect,
		Text:     "Pick one （ ）",
		Options:  []string{"one", "two", "three", "four"},
		Answer:   answer,
		Response: response,
		Points:   points,
	}
}

func multiSelect(answer, response string, points int) Question {
	return Question{
		ID:       "q-multi",
		Category: MultiSelect,
		Text:     "Pick many ( )",
		Options:  []string{"one", "two", "three", "four"},
		Answer:   answer,
		Response: response,
		Points:   points,
	}
}

func fillIn(blanks ...Blank) Question {
	return Question{
		ID:       "q-fill",
		Category: FillIn,
		Text:     "Go was announced in （ ） by （ ）.",
		Blanks:   blanks,
	}
}

func TestSingleSelectAndJudgeScore(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want int
	}{
		{"exact", singleSelect("B", "B", 2), 2},
		{"lower case", singleSelect("B", "b", 2), 2},
		{"wrong", singleSelect("B", "C", 2), 0},
		{"unanswered", singleSelect("B", "", 2), 0},
		{"longer response", singleSelect("B", "BB", 2), 0},
		{"judge yes", Question{Category: Judge, Answer: JudgeYes, Response: "yes", Points: 1}, 1},
		{"judge wrong", Question{Category: Judge, Answer: JudgeYes, Response: JudgeNo, Points: 1}, 0},
		{"judge unanswered", Question{Category: Judge, Answer: JudgeNo, Points: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Score(); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMultiSelectScoreUsesSetEquality(t *testing.T) {
	tests := []struct {
		response string
		want     int
	}{
		{"AB", 4},
		{"ba", 4},
		{"ABBA", 4},
		{"A", 0},
		{"ABC", 0},
		{"", 0},
		{"AXB", 4},
		{"xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			q := multiSelect("AB", tt.response, 4)
			if got := q.Score(); got != tt.want {
				t.Errorf("Score() with response %q = %d, want %d", tt.response, got, tt.want)
			}
		})
	}
}

func TestFillInScoreSumsBlanks(t *testing.T) {
	q := fillIn(
		Blank{Answer: "2009", Response: "2009", Points: 3},
		Blank{Answer: "Google", Response: "Microsoft", Points: 5},
	)
	if got := q.Score(); got != 3 {
		t.Errorf("Score() = %d, want 3", got)
	}
	if got := q.MaxScore(); got != 8 {
		t.Errorf("MaxScore() = %d, want 8", got)
	}

	single := fillIn(Blank{Answer: "x", Response: "X", Points: 1})
	if got := single.Score(); got != 1 {
		t.Errorf("single-letter key should match case-insensitively, got %d", got)
	}

	word := fillIn(Blank{Answer: "Google", Response: "google", Points: 1})
	if got := word.Score(); got != 0 {
		t.Errorf("multi-letter key should match exactly, got %d", got)
	}
}

func TestAnswered(t *testing.T) {
	if singleSelect("A", "", 1).Answered() {
		t.Error("empty response should be unanswered")
	}
	if !singleSelect("A", "C", 1).Answered() {
		t.Error("wrong response should still count as answered")
	}

	q := fillIn(Blank{Answer: "a"}, Blank{Answer: "b"})
	q.SetResponse("a")
	if q.Answered() {
		t.Error("fill-in with an empty blank should be unanswered")
	}
	q.SetResponse("a", "b")
	if !q.Answered() {
		t.Error("fill-in with all blanks filled should be answered")
	}
	// Stays answered until a slot is explicitly cleared.
	_ = q.Score()
	_ = q.RenderView(Ended, 0)
	if !q.Answered() {
		t.Error("grading and rendering must not clear responses")
	}
	q.SetResponse()
	if q.Answered() {
		t.Error("clearing responses should make the question unanswered")
	}

	if fillIn().Answered() {
		t.Error("fill-in without blanks has nothing to answer")
	}
}

func TestSetResponseZipsBlanks(t *testing.T) {
	q := fillIn(Blank{Answer: "a"}, Blank{Answer: "b"})
	q.SetResponse("x", "y", "z")
	got := q.Responses()
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Responses() = %v, want [x y]", got)
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	q := multiSelect("AC", "ca", 5)
	before := q.Clone()
	first, second := q.Score(), q.Score()
	if first != second {
		t.Errorf("Score() not stable: %d then %d", first, second)
	}
	if q.Response != before.Response || q.Answer != before.Answer {
		t.Error("Score() mutated the question")
	}
}

func TestCloneDoesNotShareBlanks(t *testing.T) {
	q := fillIn(Blank{Answer: "a"})
	c := q.Clone()
	c.SetResponse("a")
	if q.Blanks[0].Response != "" {
		t.Error("mutating the clone changed the original")
	}
}

func TestOptionIndex(t *testing.T) {
	for i, r := range "ABCDEFGH" {
		got, ok := OptionIndex(r)
		if !ok || got != i {
			t.Errorf("OptionIndex(%q) = %d, %v; want %d, true", r, got, ok, i)
		}
		lower, _ := OptionIndex(r + ('a' - 'A'))
		if lower != i {
			t.Errorf("lower-case %q mapped to %d", r, lower)
		}
	}
	for _, r := range "IZ1 中" {
		if _, ok := OptionIndex(r); ok {
			t.Errorf("OptionIndex(%q) should have no index", r)
		}
	}
}

func TestCategoryNavigationClamps(t *testing.T) {
	if got := SingleSelect.Previous(); got != SingleSelect {
		t.Errorf("Previous() at first = %v", got)
	}
	if got := FillIn.Next(); got != FillIn {
		t.Errorf("Next() at last = %v", got)
	}
	if got := MultiSelect.Next(); got != Judge {
		t.Errorf("MultiSelect.Next() = %v, want judge", got)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(strings.ToUpper(c.String()))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("essay"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRenderView(t *testing.T) {
	q := singleSelect("B", "C", 2)

	ing := q.RenderView(InProgress, 0)
	if ing[0].Text != "1: Pick one （C）" {
		t.Errorf("header = %q", ing[0].Text)
	}
	if ing[3].Style != StyleSelected || ing[2].Style != StyleDefault {
		t.Errorf("in progress should only highlight the picked option, got %+v", ing)
	}

	end := q.RenderView(Ended, 4)
	if !strings.HasPrefix(end[0].Text, "5: ") {
		t.Errorf("header numbering = %q", end[0].Text)
	}
	if end[2].Style != StyleCorrect {
		t.Errorf("key option style = %v, want correct", end[2].Style)
	}
	if end[3].Style != StyleWrong {
		t.Errorf("picked wrong option style = %v, want wrong", end[3].Style)
	}

	unanswered := singleSelect("B", "", 2).RenderView(Ended, 0)
	for _, l := range unanswered[1:] {
		if l.Style != StyleDefault {
			t.Errorf("unanswered option styled %v", l.Style)
		}
	}
}

func TestRenderViewFillIn(t *testing.T) {
	q := fillIn(
		Blank{Answer: "2009", Response: "", Points: 1},
		Blank{Answer: "Google", Response: "Google", Points: 1},
	)
	lines := q.RenderView(Ended, 0)
	if lines[0].Text != "1: Go was announced in （ ） by （Google）." {
		t.Errorf("header = %q", lines[0].Text)
	}
	if lines[1].Style != StyleWrong || !strings.Contains(lines[1].Text, "2009") {
		t.Errorf("missing blank line = %+v", lines[1])
	}
	if lines[2].Style != StyleCorrect {
		t.Errorf("correct blank style = %v", lines[2].Style)
	}
}

func TestExamConfigValidate(t *testing.T) {
	ok := ExamConfig{Title: "Go basics", Quotas: map[Category]int{SingleSelect: 2}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	bad := []ExamConfig{
		{Title: " "},
		{Title: "x", Duration: -1},
		{Title: "x", Quotas: map[Category]int{Judge: -1}},
		{Title: "x", Quotas: map[Category]int{Category(9): 1}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
