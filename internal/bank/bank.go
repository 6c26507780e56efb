// Package bank holds the sampled questions of one examination, grouped by
// category in the fixed category order.
package bank

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pavelanni/examterm/internal/model"
)

// Pool is the full question supply a bank samples from.
type Pool map[model.Category][]model.Question

// Source produces a question pool. Implementations read files or a database.
type Source interface {
	Pool(ctx context.Context) (Pool, error)
}

// LoadError reports a pool that could not be read or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load question pool: %v", e.Err)
	}
	return fmt.Sprintf("load question pool %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Bank maps every category to its ordered question list.
type Bank struct {
	buckets map[model.Category][]model.Question
}

// NewRand returns a PCG generator. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Load reads the pool from src and samples it. Any source failure is
// returned as a *LoadError.
func Load(ctx context.Context, src Source, quotas map[model.Category]int, rng *rand.Rand) (*Bank, error) {
	pool, err := src.Pool(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, &LoadError{Err: err}
	}
	return Sample(pool, quotas, rng), nil
}

// Sample draws min(len(pool[c]), quotas[c]) questions per category, uniformly
// and without replacement. The pool is not modified.
func Sample(pool Pool, quotas map[model.Category]int, rng *rand.Rand) *Bank {
	b := &Bank{buckets: make(map[model.Category][]model.Question, len(model.Categories()))}
	for _, c := range model.Categories() {
		src := pool[c]
		n := min(len(src), quotas[c])
		if n <= 0 {
			b.buckets[c] = []model.Question{}
			continue
		}
		picked := make([]model.Question, len(src))
		for i, q := range src {
			picked[i] = q.Clone()
		}
		rng.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		b.buckets[c] = picked[:n:n]
	}
	return b
}

// Questions returns the list for one category. Asking for a category outside
// the closed set is a programming error.
func (b *Bank) Questions(c model.Category) []model.Question {
	qs, ok := b.buckets[c]
	if !ok {
		panic(fmt.Sprintf("bank: no bucket for %v", c))
	}
	return qs
}

// Question returns the question at position i of category c.
func (b *Bank) Question(c model.Category, i int) (model.Question, bool) {
	qs := b.Questions(c)
	if i < 0 || i >= len(qs) {
		return model.Question{}, false
	}
	return qs[i], true
}

// Replace stores q at position i of category c.
func (b *Bank) Replace(c model.Category, i int, q model.Question) error {
	qs := b.Questions(c)
	if i < 0 || i >= len(qs) {
		return fmt.Errorf("replace %v[%d]: index out of range (len %d)", c, i, len(qs))
	}
	if q.Category != c {
		return fmt.Errorf("replace %v[%d]: question is %v", c, i, q.Category)
	}
	qs[i] = q
	return nil
}

// Len returns the number of questions across all categories.
func (b *Bank) Len() int {
	n := 0
	for _, qs := range b.buckets {
		n += len(qs)
	}
	return n
}

// Answered returns how many questions have every slot filled.
func (b *Bank) Answered() int {
	n := 0
	for _, c := range model.Categories() {
		for _, q := range b.buckets[c] {
			if q.Answered() {
				n++
			}
		}
	}
	return n
}

// Complete reports whether every question is answered.
func (b *Bank) Complete() bool {
	return b.Answered() == b.Len()
}

// Score sums the scores of every question.
func (b *Bank) Score() int {
	total := 0
	for _, c := range model.Categories() {
		for _, q := range b.buckets[c] {
			total += q.Score()
		}
	}
	return total
}

// MaxScore sums the attainable points of every question.
func (b *Bank) MaxScore() int {
	total := 0
	for _, c := range model.Categories() {
		for _, q := range b.buckets[c] {
			total += q.MaxScore()
		}
	}
	return total
}
