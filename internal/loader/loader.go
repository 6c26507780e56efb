// Package loader reads question pool files.
//
// A pool file is a JSON array of entries:
//
//	[
//	  {"kind": "single_select", "question": "...", "options": ["...", "..."], "answer": "B", "score": 2},
//	  {"kind": "judge", "question": "...", "answer": "yes", "score": 1},
//	  {"kind": "fill_in", "question": "Go was released in （ ）.", "blanks": [{"answer": "2009", "score": 2}]}
//	]
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"

	"github.com/pavelanni/examterm/internal/bank"
	"github.com/pavelanni/examterm/internal/model"
)

// Entry is one question as written in a pool file.
type Entry struct {
	Kind     string       `json:"kind" validate:"required"`
	Question string       `json:"question" validate:"required"`
	Options  []string     `json:"options,omitempty" validate:"max=8,dive,required"`
	Answer   string       `json:"answer,omitempty"`
	Score    int          `json:"score" validate:"gte=0"`
	Blanks   []EntryBlank `json:"blanks,omitempty" validate:"dive"`
}

// EntryBlank is one blank of a fill_in entry.
type EntryBlank struct {
	Answer string `json:"answer" validate:"required"`
	Score  int    `json:"score" validate:"gte=0"`
}

var validate, trans = newValidator()

// newValidator reports field errors by their JSON names, in English.
func newValidator() (*govalidator.Validate, ut.Translator) {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	t, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, t)
	return v, t
}

func translate(err error) error {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// EntryError points at the invalid entry of a pool file.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Parse decodes and validates pool file contents. Every question gets a fresh
// ID.
func Parse(data []byte) ([]model.Question, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	out := make([]model.Question, 0, len(entries))
	for i, e := range entries {
		q, err := e.toQuestion()
		if err != nil {
			return nil, &EntryError{Index: i, Err: err}
		}
		out = append(out, q)
	}
	return out, nil
}

// toQuestion validates the entry and converts it.
func (e Entry) toQuestion() (model.Question, error) {
	if err := validate.Struct(e); err != nil {
		return model.Question{}, translate(err)
	}
	cat, err := model.ParseCategory(e.Kind)
	if err != nil {
		return model.Question{}, err
	}
	q := model.Question{
		ID:       uuid.NewString(),
		Category: cat,
		Text:     strings.TrimSpace(e.Question),
		Points:   e.Score,
	}
	if q.Text == "" {
		return model.Question{}, errors.New("question text is empty")
	}

	switch cat {
	case model.SingleSelect, model.MultiSelect:
		if len(e.Options) == 0 || len(e.Options) > model.MaxOptions {
			return model.Question{}, fmt.Errorf("%s needs 1 to %d options, got %d", cat, model.MaxOptions, len(e.Options))
		}
		key, err := selectKey(e.Answer, len(e.Options), cat == model.SingleSelect)
		if err != nil {
			return model.Question{}, err
		}
		q.Options = append([]string(nil), e.Options...)
		q.Answer = key
	case model.Judge:
		switch strings.ToLower(strings.TrimSpace(e.Answer)) {
		case "yes", "y", "true":
			q.Answer = model.JudgeYes
		case "no", "n", "false":
			q.Answer = model.JudgeNo
		default:
			return model.Question{}, fmt.Errorf("judge answer must be yes or no, got %q", e.Answer)
		}
	case model.FillIn:
		if len(e.Blanks) == 0 {
			return model.Question{}, errors.New("fill_in needs at least one blank")
		}
		q.Points = 0
		for i, b := range e.Blanks {
			ans := strings.TrimSpace(b.Answer)
			if ans == "" {
				return model.Question{}, fmt.Errorf("blank %d: empty answer", i)
			}
			q.Blanks = append(q.Blanks, model.Blank{Answer: ans, Points: b.Score})
		}
	}
	return q, nil
}

// selectKey upper-cases an option-letter key and checks every letter names
// an existing option.
func selectKey(answer string, options int, single bool) (string, error) {
	var b strings.Builder
	for _, r := range answer {
		if r == ' ' || r == ',' {
			continue
		}
		i, ok := model.OptionIndex(r)
		if !ok || i >= options {
			return "", fmt.Errorf("answer %q names option %q outside A-%s", answer, r, model.OptionLetter(options-1))
		}
		b.WriteString(model.OptionLetter(i))
	}
	key := b.String()
	switch {
	case key == "":
		return "", errors.New("answer is empty")
	case single && len(key) != 1:
		return "", fmt.Errorf("single_select answer must be one letter, got %q", answer)
	}
	return key, nil
}

// ReadFile reads and parses one pool file. Failures are *bank.LoadError.
func ReadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &bank.LoadError{Source: path, Err: err}
	}
	qs, err := Parse(data)
	if err != nil {
		return nil, &bank.LoadError{Source: path, Err: err}
	}
	return qs, nil
}

// Group buckets questions by category.
func Group(qs []model.Question) bank.Pool {
	pool := make(bank.Pool, len(model.Categories()))
	for _, q := range qs {
		pool[q.Category] = append(pool[q.Category], q)
	}
	return pool
}

// FilePool is a bank.Source reading pool files directly.
type FilePool struct {
	Paths []string
}

// Pool reads every file in order and merges them.
func (f FilePool) Pool(ctx context.Context) (bank.Pool, error) {
	var all []model.Question
	for _, path := range f.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		qs, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		slog.Debug("read question pool", "path", path, "count", len(qs))
		all = append(all, qs...)
	}
	return Group(all), nil
}
