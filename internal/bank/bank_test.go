package bank

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pavelanni/examterm/internal/model"
)

type staticSource struct {
	pool Pool
	err  error
}

func (s staticSource) Pool(context.Context) (Pool, error) { return s.pool, s.err }

func makeQuestions(c model.Category, n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:       fmt.Sprintf("%s-%d", c, i),
			Category: c,
			Text:     fmt.Sprintf("question %d", i),
			Options:  []string{"A", "B"},
			Answer:   "A",
			Points:   1,
		}
	}
	return qs
}

func TestSampleRespectsQuota(t *testing.T) {
	pool := Pool{model.SingleSelect: makeQuestions(model.SingleSelect, 5)}
	b := Sample(pool, map[model.Category]int{model.SingleSelect: 2}, NewRand(7))

	got := b.Questions(model.SingleSelect)
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.ID] {
			t.Errorf("duplicate question %s", q.ID)
		}
		seen[q.ID] = true
		found := false
		for _, p := range pool[model.SingleSelect] {
			if p.ID == q.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("question %s not drawn from pool", q.ID)
		}
	}
}

func TestSampleClampsToAvailable(t *testing.T) {
	pool := Pool{
		model.Judge:  makeQuestions(model.Judge, 3),
		model.FillIn: makeQuestions(model.FillIn, 4),
	}
	quotas := map[model.Category]int{
		model.Judge:       10,
		model.MultiSelect: 3,
	}
	b := Sample(pool, quotas, NewRand(1))

	tests := []struct {
		cat  model.Category
		want int
	}{
		{model.SingleSelect, 0},
		{model.MultiSelect, 0},
		{model.Judge, 3},
		{model.FillIn, 0},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			qs := b.Questions(tt.cat)
			if qs == nil {
				t.Fatal("every category should have a (possibly empty) bucket")
			}
			if len(qs) != tt.want {
				t.Errorf("len = %d, want %d", len(qs), tt.want)
			}
		})
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
}

func TestSampleIsDeterministicForSeed(t *testing.T) {
	pool := Pool{model.MultiSelect: makeQuestions(model.MultiSelect, 20)}
	quotas := map[model.Category]int{model.MultiSelect: 5}

	a := Sample(pool, quotas, NewRand(42)).Questions(model.MultiSelect)
	b := Sample(pool, quotas, NewRand(42)).Questions(model.MultiSelect)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different samples at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestSampleDoesNotAliasPool(t *testing.T) {
	pool := Pool{model.SingleSelect: makeQuestions(model.SingleSelect, 1)}
	b := Sample(pool, map[model.Category]int{model.SingleSelect: 1}, NewRand(3))

	q, _ := b.Question(model.SingleSelect, 0)
	q.SetResponse("A")
	if err := b.Replace(model.SingleSelect, 0, q); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if pool[model.SingleSelect][0].Response != "" {
		t.Error("answering a banked question changed the pool")
	}
}

func TestReplace(t *testing.T) {
	pool := Pool{model.SingleSelect: makeQuestions(model.SingleSelect, 2)}
	b := Sample(pool, map[model.Category]int{model.SingleSelect: 2}, NewRand(5))

	q, ok := b.Question(model.SingleSelect, 1)
	if !ok {
		t.Fatal("Question(1) not found")
	}
	q.SetResponse("A")
	if err := b.Replace(model.SingleSelect, 1, q); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if b.Answered() != 1 {
		t.Errorf("Answered() = %d, want 1", b.Answered())
	}
	if b.Complete() {
		t.Error("Complete() with one unanswered question")
	}
	if b.Score() != 1 || b.MaxScore() != 2 {
		t.Errorf("Score/MaxScore = %d/%d, want 1/2", b.Score(), b.MaxScore())
	}

	if err := b.Replace(model.SingleSelect, 5, q); err == nil {
		t.Error("expected out of range error")
	}
	q.Category = model.Judge
	if err := b.Replace(model.SingleSelect, 0, q); err == nil {
		t.Error("expected category mismatch error")
	}
	if _, ok := b.Question(model.Judge, 0); ok {
		t.Error("Question on empty category should report false")
	}
}

func TestQuestionsPanicsOnUnknownCategory(t *testing.T) {
	b := Sample(Pool{}, nil, NewRand(1))
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown category")
		}
	}()
	b.Questions(model.Category(99))
}

func TestLoadWrapsSourceErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	_, err := Load(context.Background(), staticSource{err: cause}, nil, NewRand(1))

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("LoadError should unwrap to the cause")
	}

	typed := &LoadError{Source: "pool.json", Err: cause}
	_, err = Load(context.Background(), staticSource{err: fmt.Errorf("read: %w", typed)}, nil, NewRand(1))
	if !errors.As(err, &le) || le.Source != "pool.json" {
		t.Errorf("expected LoadError for pool.json, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	src := staticSource{pool: Pool{model.Judge: makeQuestions(model.Judge, 4)}}
	b, err := Load(context.Background(), src, map[model.Category]int{model.Judge: 4}, NewRand(9))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Questions(model.Judge)) != 4 {
		t.Errorf("expected all 4 judge questions")
	}
}
