// Package i18n translates user-visible text: tab titles, key hints, the
// countdown label and the session's alert messages.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/pavelanni/examterm/internal/model"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle      *i18n.Bundle
	defaultLang string
)

// Init loads the translation bundle with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	bundle, defaultLang = b, tag.String()
	return nil
}

// NewLocalizer creates a localizer for lang, falling back to the default
// language for missing messages.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang, defaultLang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

// localizerFromCtx returns the context's localizer, or one for the default
// language.
func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, defaultLang)
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := localizerFromCtx(ctx).Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

var tabIDs = map[model.Category]string{
	model.SingleSelect: "TabSingleSelect",
	model.MultiSelect:  "TabMultiSelect",
	model.Judge:        "TabJudge",
	model.FillIn:       "TabFillIn",
}

// CategoryTitle is the tab label of c.
func CategoryTitle(ctx context.Context, c model.Category) string {
	id, ok := tabIDs[c]
	if !ok {
		return c.String()
	}
	return T(ctx, id)
}

// Messages renders the session's alerts in the language of the context it
// was built from.
type Messages struct {
	ctx context.Context
}

// NewMessages binds the localizer carried by ctx.
func NewMessages(ctx context.Context) Messages {
	return Messages{ctx: ctx}
}

func (m Messages) ConfirmIncomplete(unanswered int) string {
	return Tp(m.ctx, "ConfirmIncomplete", unanswered)
}

func (m Messages) FinalScore(score, total int) string {
	return Td(m.ctx, "FinalScore", map[string]any{"Score": score, "Total": total})
}
