package views

import (
	"context"
	"errors"
	"time"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// StudentsAPI is what the students screen needs from the API client.
type StudentsAPI interface {
	ListStudents(ctx context.Context) ([]entities.Student, error)
	SearchStudents(ctx context.Context, q string) ([]entities.Student, error)
	CreateStudent(ctx context.Context, in library.StudentInput) (*entities.Student, error)
	UpdateStudent(ctx context.Context, id uint, in library.StudentInput) (*entities.Student, error)
	DeleteStudent(ctx context.Context, id uint) error
}

type BooksAPI interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	SearchBooks(ctx context.Context, q string) ([]entities.Book, error)
	CreateBook(ctx context.Context, in library.BookInput) (*entities.Book, error)
	UpdateBook(ctx context.Context, isbn string, in library.BookInput) (*entities.Book, error)
	DeleteBook(ctx context.Context, isbn string) error
}

type LoansAPI interface {
	ListLoans(ctx context.Context, filter library.LoanFilter) ([]entities.LoanView, error)
	ListStudents(ctx context.Context) ([]entities.Student, error)
	ListAvailableBooks(ctx context.Context) ([]entities.Book, error)
	CreateLoan(ctx context.Context, studentID uint, isbn string) (*entities.LoanView, error)
	ReturnLoan(ctx context.Context, id uint) (*entities.ReturnReceipt, error)
	DeleteLoan(ctx context.Context, id uint) error
}

// ErrBusy is returned when an action is submitted while another is running.
var ErrBusy = errors.New("an operation is already in progress")

// page is the state every screen shares.
type page struct {
	Gate   ConfirmGate
	Alerts Alerts

	busy bool
	now  func() time.Time
}

func newPage() page {
	return page{now: time.Now}
}

// SetClock replaces the clock used to time alerts.
func (p *page) SetClock(now func() time.Time) {
	p.now = now
}

// Busy reports whether a submission is in flight. Submit buttons are disabled while it is.
func (p *page) Busy() bool {
	return p.busy
}

func (p *page) ActiveAlerts() []Alert {
	return p.Alerts.Active(p.now())
}

func (p *page) succeed(message string) {
	p.Alerts.ShowSuccess(message, p.now())
}

func (p *page) fail(err error) {
	p.Alerts.ShowError(err.Error(), p.now())
}

// interactive fails while the confirmation prompt is showing. Every action
// outside the prompt goes through it.
func (p *page) interactive() error {
	if p.Gate.Blocking() {
		return ErrGateOpen
	}
	return nil
}

// begin marks a submission as started. The caller must call end.
func (p *page) begin() error {
	if p.busy {
		return ErrBusy
	}
	p.busy = true
	return nil
}

func (p *page) end() {
	p.busy = false
}

// ask opens the confirmation prompt unless a submission is running.
func (p *page) ask(intent Intent) error {
	if p.busy {
		return ErrBusy
	}
	return p.Gate.Open(intent)
}

// Form is an open create/edit modal around input of type T.
type Form[T any] struct {
	Open  bool
	Input T
	Error Alert
}

func (f *Form[T]) show(input T) {
	*f = Form[T]{Open: true, Input: input}
}

func (f *Form[T]) close() {
	*f = Form[T]{}
}
