// Package tui is the terminal front end of an examination.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pavelanni/examterm/internal/exam"
	"github.com/pavelanni/examterm/internal/handshake"
	"github.com/pavelanni/examterm/internal/input"
	"github.com/pavelanni/examterm/internal/model"
	"github.com/pavelanni/examterm/internal/timer"
)

const tickInterval = 200 * time.Millisecond

type tickMsg time.Time

// Config wires the front end to a running session.
type Config struct {
	Ctx     context.Context // carries the localizer
	Session *exam.Session
	Editor  *input.Editor
	Clock   *timer.Countdown
}

// Model is the bubbletea model of one examination.
type Model struct {
	ctx     context.Context
	session *exam.Session
	editor  *input.Editor
	clock   *timer.Countdown

	width, height int
	timedOut      bool
	err           error
}

// New returns a model ready for tea.NewProgram.
func New(cfg Config) *Model {
	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timer.Start(0)
	}
	return &Model{ctx: ctx, session: cfg.Session, editor: cfg.Editor, clock: clock}
}

// Err is the error that stopped the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var err error

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		cmd = tick()
		err = m.checkDeadline()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			slog.Info("quit requested", "attempt", m.session.ID(), "phase", m.session.Phase())
			return m, tea.Quit
		}
		err = m.handleKey(msg.String(), msg.Text)
	}

	if err == nil {
		err = m.pump()
	}
	if err != nil {
		return m, m.fail(err)
	}
	return m, cmd
}

// handleKey routes a key to the editor while it is open, otherwise to the
// session.
func (m *Model) handleKey(key, text string) error {
	if m.editor.Active() && key != "ctrl+s" {
		return m.handleEditorKey(key, text)
	}
	in := intentFor(m.session.Mode(), key)
	if in == exam.IntentNone {
		return nil
	}
	return m.session.Apply(in)
}

func (m *Model) handleEditorKey(key, text string) error {
	switch editorActionFor(m.editor.Kind() == input.KindJudge, key, text) {
	case editInsert:
		m.editor.Insert(text)
	case editBackspace:
		m.editor.Backspace()
	case editLeft:
		m.editor.Left()
	case editRight:
		m.editor.Right()
	case editNextField:
		m.editor.NextField()
	case editSubmit:
		return m.editor.Submit()
	case editCancel:
		return m.editor.Cancel()
	case editYes:
		return m.editor.Judge(true)
	case editNo:
		return m.editor.Judge(false)
	}
	return nil
}

// pump moves answers across the handshake in both directions.
func (m *Model) pump() error {
	m.editor.Poll()
	return m.session.Poll()
}

// checkDeadline forces submission once the countdown runs out. Whatever is
// typed in the editor is kept, and an open submit confirmation is accepted.
func (m *Model) checkDeadline() error {
	if m.timedOut || !m.clock.Expired() || m.session.Phase() != model.InProgress {
		return nil
	}
	m.timedOut = true
	slog.Info("time is up", "attempt", m.session.ID())

	if _, ok := m.editor.Question(); ok {
		if err := m.editor.Submit(); err != nil {
			return err
		}
	}
	if err := m.pump(); err != nil {
		return err
	}
	if _, scored := m.session.Score(); scored {
		return nil
	}
	if err := m.session.Submit(); err != nil {
		return err
	}
	if a, ok := m.session.Alert(); ok && a.Confirm == exam.ConfirmSubmit {
		return m.session.ConfirmAlert()
	}
	return nil
}

func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	if errors.Is(err, handshake.ErrProtocolViolation) {
		slog.Error("answer handshake broken", "attempt", m.session.ID(), "error", err)
	} else {
		slog.Error("examination stopped", "attempt", m.session.ID(), "error", err)
	}
	return tea.Quit
}
