package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/stats"
	"github.com/mrlokans/library/internal/views"
)

const dateLayout = "02/01/2006"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

func RenderLoans(loans []entities.LoanView) string {
	if len(loans) == 0 {
		return mutedStyle.Render("Aucun emprunt")
	}
	t := newTable("ID", "Étudiant", "Livre", "Emprunté le", "Retourné le", "Statut", "Amende")
	for _, l := range loans {
		borrowed := l.DateEmprunt
		t.Row(
			strconv.FormatUint(uint64(l.ID), 10),
			l.Prenom+" "+l.Nom,
			l.Titre,
			formatDate(&borrowed),
			formatDate(l.DateRetour),
			FormatStatus(library.LoanStatusOf(l)),
			formatAmount(l.Amende),
		)
	}
	return t.String()
}

func RenderStudents(students []entities.Student) string {
	if len(students) == 0 {
		return mutedStyle.Render("Aucun étudiant")
	}
	t := newTable("ID", "Nom", "Prénom", "Email", "Amendes")
	for _, s := range students {
		t.Row(strconv.FormatUint(uint64(s.ID), 10), s.Nom, s.Prenom, s.Email, formatAmount(s.SoldeAmende))
	}
	return t.String()
}

func RenderBooks(books []entities.Book) string {
	if len(books) == 0 {
		return mutedStyle.Render("Aucun livre")
	}
	t := newTable("ISBN", "Titre", "Éditeur", "Année", "Disponibles")
	for _, b := range books {
		year := "-"
		if b.AnneePublication != nil {
			year = strconv.Itoa(*b.AnneePublication)
		}
		copies := strconv.Itoa(b.ExemplairesDispo)
		if b.ExemplairesDispo == 0 {
			copies = dangerStyle.Render(copies)
		}
		t.Row(b.ISBN, b.Titre, b.Editeur, year, copies)
	}
	return t.String()
}

// RenderSummary draws the statistics cards followed by both top lists.
func RenderSummary(s *stats.Summary) string {
	if s == nil {
		return ""
	}

	card := func(label, value string) string {
		return boxStyle.Render(mutedStyle.Render(label) + "\n" + titleStyle.UnsetMarginBottom().Render(value))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Étudiants", strconv.FormatInt(s.TotalEtudiants, 10)),
		card("Livres", strconv.FormatInt(s.TotalLivres, 10)),
		card("Emprunts en cours", strconv.FormatInt(s.EmpruntsEnCours, 10)),
		card("En retard", strconv.Itoa(s.EmpruntsEnRetard)),
		card("Disponibles", strconv.FormatInt(s.LivresDisponibles, 10)),
		card("Taux d'emprunt", fmt.Sprintf("%.1f %%", s.TauxEmprunt)),
	)

	students := newTable("Étudiant", "Emprunts")
	for _, ts := range s.TopEtudiants {
		students.Row(ts.Prenom+" "+ts.Nom, strconv.FormatInt(ts.NombreEmprunts, 10))
	}
	books := newTable("Livre", "Emprunts")
	for _, tb := range s.TopLivres {
		books.Row(tb.Titre, strconv.FormatInt(tb.NombreEmprunts, 10))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Statistiques"))
	b.WriteString("\n")
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, students.String(), "  ", books.String()))
	return b.String()
}

func RenderAlerts(alerts []views.Alert) string {
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if a.Kind == views.AlertError {
			lines = append(lines, dangerStyle.Render("✗ "+a.Message))
		} else {
			lines = append(lines, successStyle.Render("✓ "+a.Message))
		}
	}
	return strings.Join(lines, "\n")
}
