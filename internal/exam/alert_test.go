package exam

import (
	"errors"
	"testing"

	"github.com/pavelanni/examterm/internal/mode"
)

func TestAlertBoxLifecycle(t *testing.T) {
	modes := mode.NewCoordinator()
	box := NewAlertBox(modes)

	if _, ok := box.Confirm(); ok {
		t.Error("Confirm on an empty box should report false")
	}
	if err := box.Show(AlertRequest{Message: "sure?", Confirm: ConfirmSubmit}); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !modes.Is(mode.Alert) {
		t.Errorf("mode = %s, want alert", modes.Get())
	}
	got, ok := box.Current()
	if !ok || got.Message != "sure?" {
		t.Errorf("Current() = %+v, %v", got, ok)
	}

	ev, ok := box.Confirm()
	if !ok || ev != ConfirmSubmit {
		t.Errorf("Confirm() = %s, %v; want submit, true", ev, ok)
	}
	if !modes.Is(mode.Examination) {
		t.Errorf("mode = %s, want examination", modes.Get())
	}
	if _, ok := box.Current(); ok {
		t.Error("box should be empty after Confirm")
	}
}

func TestAlertBoxRefusesDuringInput(t *testing.T) {
	modes := mode.NewCoordinator()
	modes.TrySet(mode.Examination, mode.Input)
	box := NewAlertBox(modes)

	err := box.Show(AlertRequest{Message: "x"})
	if !errors.Is(err, mode.ErrIllegalTransition) {
		t.Errorf("Show during input = %v, want ErrIllegalTransition", err)
	}
	if _, ok := box.Current(); ok {
		t.Error("rejected alert should not be stored")
	}
}
