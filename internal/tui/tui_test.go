package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/stats"
	"github.com/mrlokans/library/internal/views"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ConfirmModel, msgs ...tea.Msg) (ConfirmModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(ConfirmModel)
		require.True(t, ok)
	}
	return m, cmd
}

func TestConfirmModel_Answers(t *testing.T) {
	intent := views.ReturnLoan(3, "Nana")

	tests := []struct {
		name string
		keys []tea.Msg
		want bool
	}{
		{"y confirms", []tea.Msg{runes("y")}, true},
		{"o confirms", []tea.Msg{runes("o")}, true},
		{"n cancels", []tea.Msg{runes("n")}, false},
		{"esc cancels", []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}, false},
		{"ctrl+c cancels", []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}}, false},
		{"enter defaults to no", []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, false},
		{"left then enter confirms", []tea.Msg{tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyEnter}}, true},
		{"tab twice then enter cancels", []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(t, NewConfirmModel(intent), tt.keys...)
			require.NotNil(t, cmd, "an answer quits the program")
			assert.Equal(t, tt.want, m.Confirmed())
			assert.Equal(t, intent, m.Intent())
		})
	}
}

func TestConfirmModel_IgnoresInputAfterAnswer(t *testing.T) {
	m, _ := press(t, NewConfirmModel(views.DeleteLoan(1, "Nana")), runes("n"))
	m, cmd := press(t, m, runes("y"))

	assert.Nil(t, cmd)
	assert.False(t, m.Confirmed())
	assert.Empty(t, m.View())
}

func TestConfirmModel_View(t *testing.T) {
	m := NewConfirmModel(views.DeleteBook("978-1", "Germinal"))
	view := m.View()

	assert.Contains(t, view, `Voulez-vous vraiment supprimer le livre "Germinal" ?`)
	assert.Contains(t, view, "Oui")
	assert.Contains(t, view, "Non")
}

func TestRenderLoans(t *testing.T) {
	returned := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	out := RenderLoans([]entities.LoanView{
		{ID: 1, Nom: "Dupont", Prenom: "Marie", Titre: "Germinal", DateEmprunt: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Nom: "Martin", Prenom: "Paul", Titre: "Nana", JoursRetard: 4, Amende: 2},
		{ID: 3, Nom: "Durand", Prenom: "Léa", Titre: "Candide", DateRetour: &returned},
	})

	assert.Contains(t, out, "Marie Dupont")
	assert.Contains(t, out, "01/05/2024")
	assert.Contains(t, out, "Outstanding")
	assert.Contains(t, out, "Overdue (4d)")
	assert.Contains(t, out, "Returned")
	assert.Contains(t, out, "2.00 €")

	assert.Contains(t, RenderLoans(nil), "Aucun emprunt")
}

func TestRenderCatalog(t *testing.T) {
	year := 1885
	books := RenderBooks([]entities.Book{{ISBN: "978-1", Titre: "Germinal", Editeur: "Zola", AnneePublication: &year, ExemplairesDispo: 2}})
	assert.Contains(t, books, "Germinal")
	assert.Contains(t, books, "1885")

	students := RenderStudents([]entities.Student{{ID: 1, Nom: "Dupont", Prenom: "Marie", Email: "m.dupont@test.fr", SoldeAmende: 1.5}})
	assert.Contains(t, students, "m.dupont@test.fr")
	assert.Contains(t, students, "1.50 €")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(&stats.Summary{
		TotalEtudiants:   3,
		EmpruntsEnRetard: 2,
		TauxEmprunt:      33.3,
		TopEtudiants:     []entities.TopStudent{{Nom: "Dupont", Prenom: "Marie", NombreEmprunts: 4}},
		TopLivres:        []entities.TopBook{{Titre: "Germinal", NombreEmprunts: 5}},
	})

	assert.Contains(t, out, "Statistiques")
	assert.Contains(t, out, "33.3 %")
	assert.Contains(t, out, "Marie Dupont")
	assert.Contains(t, out, "Germinal")
	assert.Empty(t, RenderSummary(nil))
}

func TestRenderAlerts(t *testing.T) {
	out := RenderAlerts([]views.Alert{
		{Kind: views.AlertError, Message: "ko"},
		{Kind: views.AlertSuccess, Message: "ok"},
	})
	assert.Contains(t, out, "✗ ko")
	assert.Contains(t, out, "✓ ok")
}
