package library

import (
	"fmt"
	"strings"

	"github.com/mrlokans/library/internal/entities"
)

// LoanFilter selects which backend query a loan list is loaded from.
type LoanFilter string

const (
	FilterAll         LoanFilter = "tous"
	FilterOutstanding LoanFilter = "en_cours"
	FilterOverdue     LoanFilter = "en_retard"
)

// ParseLoanFilter accepts the French keys and their English aliases.
func ParseLoanFilter(s string) (LoanFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tous", "all":
		return FilterAll, nil
	case "en_cours", "en-cours", "outstanding":
		return FilterOutstanding, nil
	case "en_retard", "en-retard", "overdue":
		return FilterOverdue, nil
	}
	return "", fmt.Errorf("unknown loan filter %q", s)
}

// SearchLoans keeps loans whose student surname, first name or book title
// contains term, ignoring case. A blank term returns loans unchanged.
func SearchLoans(loans []entities.LoanView, term string) []entities.LoanView {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return loans
	}

	matched := make([]entities.LoanView, 0, len(loans))
	for _, l := range loans {
		if strings.Contains(strings.ToLower(l.Nom), term) ||
			strings.Contains(strings.ToLower(l.Prenom), term) ||
			strings.Contains(strings.ToLower(l.Titre), term) {
			matched = append(matched, l)
		}
	}
	return matched
}
