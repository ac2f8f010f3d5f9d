package library

import (
	"fmt"

	"github.com/mrlokans/library/internal/entities"
)

type StatusKind int

const (
	StatusOutstanding StatusKind = iota
	StatusOverdue
	StatusReturned
)

// Style tells a renderer how to present a status.
type Style string

const (
	StyleNeutral  Style = "neutral"
	StyleAlert    Style = "alert"
	StylePositive Style = "positive"
)

type LoanStatus struct {
	Kind  StatusKind
	Label string
	Style Style
}

// StatusOf derives the display status. A present return date always wins.
func StatusOf(returned bool, daysLate int) LoanStatus {
	switch {
	case returned:
		return LoanStatus{Kind: StatusReturned, Label: "Returned", Style: StyleNeutral}
	case daysLate > 0:
		return LoanStatus{Kind: StatusOverdue, Label: fmt.Sprintf("Overdue (%dd)", daysLate), Style: StyleAlert}
	default:
		return LoanStatus{Kind: StatusOutstanding, Label: "Outstanding", Style: StylePositive}
	}
}

// LoanStatusOf is StatusOf applied to a list row.
func LoanStatusOf(loan entities.LoanView) LoanStatus {
	return StatusOf(loan.DateRetour != nil, loan.JoursRetard)
}
