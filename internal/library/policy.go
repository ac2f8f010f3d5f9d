package library

import (
	"math"
	"time"
)

const (
	DefaultLoanDays       = 14
	DefaultFinePerDay     = 0.50
	DefaultMaxActiveLoans = 5
)

// Policy describes how long a book may be kept and what lateness costs.
type Policy struct {
	LoanDays       int
	FinePerDay     float64
	MaxActiveLoans int

	// Now defaults to time.Now when nil.
	Now func() time.Time
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		LoanDays:       DefaultLoanDays,
		FinePerDay:     DefaultFinePerDay,
		MaxActiveLoans: DefaultMaxActiveLoans,
	}
}

// Today returns the current date at midnight UTC.
func (p Policy) Today() time.Time {
	if p.Now == nil {
		return Day(time.Now())
	}
	return Day(p.Now())
}

// DueDate is the last day a loan taken on loanDate can be returned without a fine.
func (p Policy) DueDate(loanDate time.Time) time.Time {
	return Day(loanDate).AddDate(0, 0, p.LoanDays)
}

// DaysLate returns max(0, at - due date) in whole days.
func (p Policy) DaysLate(loanDate, at time.Time) int {
	elapsed := daysBetween(Day(loanDate), Day(at))
	late := elapsed - p.LoanDays
	if late < 0 {
		return 0
	}
	return late
}

// Fine returns daysLate × FinePerDay rounded to cents.
func (p Policy) Fine(daysLate int) float64 {
	if daysLate <= 0 {
		return 0
	}
	return math.Round(float64(daysLate)*p.FinePerDay*100) / 100
}

// OverdueCutoff returns the date before which an outstanding loan is overdue.
// A loan is overdue iff its loan date is strictly before the cutoff.
func (p Policy) OverdueCutoff() time.Time {
	return p.Today().AddDate(0, 0, -p.LoanDays)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
