package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/library/internal/views"
)

type confirmKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Yes     key.Binding
	No      key.Binding
	Submit  key.Binding
	Dismiss key.Binding
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Submit, k.Yes, k.No, k.Dismiss}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var confirmKeys = confirmKeyMap{
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choisir")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Toggle:  key.NewBinding(key.WithKeys("tab")),
	Yes:     key.NewBinding(key.WithKeys("y", "o"), key.WithHelp("o", "oui")),
	No:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "non")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "valider")),
	Dismiss: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "annuler")),
}

// ConfirmModel is the confirmation gate as a bubbletea program. It quits after
// the first answer; closing it without answering cancels.
type ConfirmModel struct {
	gate        *views.ConfirmGate
	intent      views.Intent
	yesSelected bool
	confirmed   bool
	answered    bool
	help        help.Model
}

func NewConfirmModel(intent views.Intent) ConfirmModel {
	gate := &views.ConfirmGate{}
	_ = gate.Open(intent)
	return ConfirmModel{gate: gate, intent: intent, help: help.New()}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.answered {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Yes):
		return m.answer(true)
	case key.Matches(keyMsg, confirmKeys.No), key.Matches(keyMsg, confirmKeys.Dismiss):
		return m.answer(false)
	case key.Matches(keyMsg, confirmKeys.Submit):
		return m.answer(m.yesSelected)
	case key.Matches(keyMsg, confirmKeys.Left):
		m.yesSelected = true
	case key.Matches(keyMsg, confirmKeys.Right):
		m.yesSelected = false
	case key.Matches(keyMsg, confirmKeys.Toggle):
		m.yesSelected = !m.yesSelected
	}
	return m, nil
}

func (m ConfirmModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.gate.Resolve(yes,
		func(views.Intent) { m.confirmed = true },
		func(views.Intent) { m.confirmed = false },
	)
	m.answered = true
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Confirmation"))
	b.WriteString("\n\n")
	b.WriteString(m.gate.Message())
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Oui")
	noButton := inactiveButtonStyle.Render("Non")
	if m.yesSelected {
		yesButton = activeButtonStyle.Render("Oui")
	} else {
		noButton = activeButtonStyle.Render("Non")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(confirmKeys))

	return modalStyle.Render(b.String())
}

// Confirmed reports the answer. False until the user chose yes.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

func (m ConfirmModel) Intent() views.Intent {
	return m.intent
}

// Confirm runs the dialog for intent and returns the user's answer.
func Confirm(intent views.Intent, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(intent), opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Confirmed(), nil
}
