package views

import "errors"

// ErrGateOpen is returned when a second confirmation is requested while one is showing.
var ErrGateOpen = errors.New("a confirmation is already pending")

// ConfirmGate is the modal yes/no prompt in front of destructive actions.
// It holds at most one intent. Each intent is answered exactly once:
// Confirm hands it back to the caller, Cancel and Dismiss drop it.
type ConfirmGate struct {
	pending *Intent
}

func (g *ConfirmGate) Open(intent Intent) error {
	if g.pending != nil {
		return ErrGateOpen
	}
	g.pending = &intent
	return nil
}

// Blocking reports whether the prompt is showing. While it is, the rest of
// the screen ignores input.
func (g *ConfirmGate) Blocking() bool {
	return g.pending != nil
}

func (g *ConfirmGate) Pending() (Intent, bool) {
	if g.pending == nil {
		return Intent{}, false
	}
	return *g.pending, true
}

// Message is the prompt text, empty when nothing is pending.
func (g *ConfirmGate) Message() string {
	if g.pending == nil {
		return ""
	}
	return g.pending.Prompt()
}

// Confirm closes the prompt and releases the intent. The second call for the
// same prompt gets nothing.
func (g *ConfirmGate) Confirm() (Intent, bool) {
	if g.pending == nil {
		return Intent{}, false
	}
	intent := *g.pending
	g.pending = nil
	return intent, true
}

func (g *ConfirmGate) Cancel() {
	g.pending = nil
}

// Dismiss is closing the prompt without answering. It counts as Cancel.
func (g *ConfirmGate) Dismiss() {
	g.Cancel()
}

// Resolve answers the prompt and runs exactly one of the two continuations.
// It does nothing when no prompt is open.
func (g *ConfirmGate) Resolve(confirmed bool, onConfirm func(Intent), onCancel func(Intent)) {
	intent, ok := g.Confirm()
	if !ok {
		return
	}
	if confirmed {
		if onConfirm != nil {
			onConfirm(intent)
		}
		return
	}
	if onCancel != nil {
		onCancel(intent)
	}
}
