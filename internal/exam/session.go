// Package exam is the examination session engine: cursor and category
// navigation, the answer round trip and submission with final scoring.
package exam

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pavelanni/examterm/internal/bank"
	"github.com/pavelanni/examterm/internal/handshake"
	"github.com/pavelanni/examterm/internal/mode"
	"github.com/pavelanni/examterm/internal/model"
)

// pendingAnswer is the position captured when a question was sent out.
type pendingAnswer struct {
	category model.Category
	index    int
	id       string
}

// Session is one attempt at an examination.
type Session struct {
	id     string
	title  string
	bank   *bank.Bank
	modes  *mode.Coordinator
	answer *handshake.Requester
	alerts *AlertBox
	msgs   Messages
	log    *slog.Logger

	tab           model.Category
	cursor        int // -1 when the active category is empty
	score         *int
	phase         model.Phase
	pending       *pendingAnswer
	pendingSubmit bool
}

// Config carries the collaborators of a session.
type Config struct {
	Title    string
	Bank     *bank.Bank
	Modes    *mode.Coordinator
	Answer   *handshake.Requester
	Alerts   *AlertBox
	Messages Messages // nil uses plain English
}

// New starts a session on the first category.
func New(cfg Config) *Session {
	msgs := cfg.Messages
	if msgs == nil {
		msgs = plainMessages{}
	}
	id := uuid.NewString()
	s := &Session{
		id:     id,
		title:  cfg.Title,
		bank:   cfg.Bank,
		modes:  cfg.Modes,
		answer: cfg.Answer,
		alerts: cfg.Alerts,
		msgs:   msgs,
		log:    slog.With("attempt", id),
		tab:    model.SingleSelect,
		phase:  model.InProgress,
	}
	s.selectFirst()
	s.log.Info("session started", "title", cfg.Title, "questions", cfg.Bank.Len())
	return s
}

// ID identifies the attempt in logs.
func (s *Session) ID() string { return s.id }

// Title is the examination name.
func (s *Session) Title() string { return s.title }

// Phase is the coarse lifecycle.
func (s *Session) Phase() model.Phase { return s.phase }

// Category is the selected tab.
func (s *Session) Category() model.Category { return s.tab }

// Cursor returns the selected index in the active category.
func (s *Session) Cursor() (int, bool) { return s.cursor, s.cursor >= 0 }

// Questions returns the active category's list.
func (s *Session) Questions() []model.Question { return s.bank.Questions(s.tab) }

// Score returns the final score once it has been computed.
func (s *Session) Score() (int, bool) {
	if s.score == nil {
		return 0, false
	}
	return *s.score, true
}

// MaxScore is the best attainable total.
func (s *Session) MaxScore() int { return s.bank.MaxScore() }

// Progress returns the answered and total question counts.
func (s *Session) Progress() (answered, total int) {
	return s.bank.Answered(), s.bank.Len()
}

// Alert returns the alert currently shown, if any.
func (s *Session) Alert() (AlertRequest, bool) { return s.alerts.Current() }

// Mode returns the shared interaction mode.
func (s *Session) Mode() mode.Mode { return s.modes.Get() }

func (s *Session) selectFirst() {
	if len(s.bank.Questions(s.tab)) == 0 {
		s.cursor = -1
		return
	}
	s.cursor = 0
}

func (s *Session) navigable() bool {
	return s.modes.Is(mode.Examination)
}

// MoveUp selects the previous question, stopping at the first.
func (s *Session) MoveUp() {
	if !s.navigable() || s.cursor <= 0 {
		return
	}
	s.cursor--
}

// MoveDown selects the next question, stopping at the last.
func (s *Session) MoveDown() {
	if !s.navigable() || s.cursor < 0 {
		return
	}
	if s.cursor < len(s.bank.Questions(s.tab))-1 {
		s.cursor++
	}
}

// NextCategory switches to the following tab; at the last tab it stays.
func (s *Session) NextCategory() {
	if !s.navigable() {
		return
	}
	s.tab = s.tab.Next()
	s.selectFirst()
}

// PrevCategory switches to the preceding tab; at the first tab it stays.
func (s *Session) PrevCategory() {
	if !s.navigable() {
		return
	}
	s.tab = s.tab.Previous()
	s.selectFirst()
}

// RequestAnswer sends the selected question to the input surface. With no
// selection, after the exam ended or outside Examination mode it does nothing.
func (s *Session) RequestAnswer() error {
	if s.phase != model.InProgress || !s.navigable() || s.cursor < 0 {
		return nil
	}
	q, ok := s.bank.Question(s.tab, s.cursor)
	if !ok {
		return nil
	}
	if s.answer.Awaiting() {
		return handshake.ErrProtocolViolation
	}
	if err := s.modes.Transition(mode.Examination, mode.Input); err != nil {
		return err
	}
	if err := s.answer.Send(q); err != nil {
		s.modes.TrySet(mode.Input, mode.Examination)
		return err
	}
	s.pending = &pendingAnswer{category: s.tab, index: s.cursor, id: q.ID}
	s.log.Debug("question sent for answering", "category", s.tab, "index", s.cursor, "question", q.ID)
	return nil
}

// Poll merges an arrived answer back into the bank. It is called once per
// refresh and returns immediately when nothing has arrived.
func (s *Session) Poll() error {
	resp, ok, err := s.answer.Poll()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	p := s.pending
	s.pending = nil
	if p == nil || p.id != resp.Question.ID {
		return handshake.ErrProtocolViolation
	}
	if err := s.bank.Replace(p.category, p.index, resp.Question); err != nil {
		return err
	}
	if err := s.modes.Transition(mode.Input, mode.Examination); err != nil {
		return err
	}
	s.log.Debug("answer merged",
		"category", p.category,
		"index", p.index,
		"cancelled", resp.Cancelled,
		"answered", resp.Question.Answered(),
	)

	if s.pendingSubmit {
		s.pendingSubmit = false
		return s.Submit()
	}
	return nil
}

// Submit finalizes at once when every question is answered. Otherwise it
// raises a confirmation alert tagged ConfirmSubmit. A submit arriving while a
// question is out for answering is applied after the answer is merged.
func (s *Session) Submit() error {
	if s.phase != model.InProgress || s.score != nil {
		return nil
	}
	if s.answer.Awaiting() {
		s.pendingSubmit = true
		return nil
	}
	if !s.modes.Is(mode.Examination) {
		return nil
	}
	if s.bank.Complete() {
		return s.finalize()
	}
	answered, total := s.Progress()
	s.log.Info("submit with unanswered questions", "answered", answered, "total", total)
	return s.alerts.Show(AlertRequest{
		Message: s.msgs.ConfirmIncomplete(total - answered),
		Confirm: ConfirmSubmit,
	})
}

// finalize scores whatever responses exist and announces the result.
func (s *Session) finalize() error {
	if s.modes.Is(mode.Alert) {
		if err := s.modes.Transition(mode.Alert, mode.Examination); err != nil {
			return err
		}
	}
	score := s.bank.Score()
	s.score = &score
	best := s.bank.MaxScore()
	s.log.Info("session finalized", "score", score, "max", best)
	return s.alerts.Show(AlertRequest{
		Message: s.msgs.FinalScore(score, best),
		Confirm: ConfirmScore,
	})
}

// Confirm performs the follow-up of a confirmed alert.
func (s *Session) Confirm(ev ConfirmEvent) error {
	switch ev {
	case ConfirmSubmit:
		if s.phase != model.InProgress || s.score != nil {
			return nil
		}
		return s.finalize()
	case ConfirmScore:
		s.end()
	}
	return nil
}

// ConfirmAlert confirms the shown alert and runs its follow-up.
func (s *Session) ConfirmAlert() error {
	ev, ok := s.alerts.Confirm()
	if !ok {
		return nil
	}
	return s.Confirm(ev)
}

// DismissAlert closes the shown alert without its follow-up. The score alert
// has nothing to cancel, so dismissing it still ends the session.
func (s *Session) DismissAlert() {
	ev, ok := s.alerts.Dismiss()
	if ok && ev == ConfirmScore {
		s.end()
	}
}

func (s *Session) end() {
	if s.phase == model.Ended {
		return
	}
	s.phase = model.Ended
	s.log.Info("session ended")
}
