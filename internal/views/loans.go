package views

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// MsgSelectStudentAndBook is shown when the loan form is submitted incomplete.
const MsgSelectStudentAndBook = "Veuillez sélectionner un étudiant et un livre disponible"

type LoanForm struct {
	EtudiantID uint
	ISBN       string
}

type LoansScreen struct {
	page

	api    LoansAPI
	Loans  State[[]entities.LoanView]
	Filter library.LoanFilter
	Search string
	Form   Form[LoanForm]

	// Choices offered by the loan form. Books only list titles with a copy left.
	Students []entities.Student
	Books    []entities.Book

	// LastReceipt is the outcome of the latest return, shown with its fine.
	LastReceipt *entities.ReturnReceipt
}

func NewLoansScreen(api LoansAPI) *LoansScreen {
	return &LoansScreen{page: newPage(), api: api, Filter: library.FilterAll}
}

// Load fetches the list behind the current filter and the form choices.
// Choice lists failing to load leave the previous choices in place.
func (s *LoansScreen) Load(ctx context.Context) {
	s.LoadLoans(ctx)
	s.loadChoices(ctx)
}

func (s *LoansScreen) LoadLoans(ctx context.Context) {
	s.Loans = s.Loans.Loading()
	loans, err := s.api.ListLoans(ctx, s.Filter)
	if err != nil {
		s.Loans = s.Loans.Failed(err.Error())
		return
	}
	s.Loans = s.Loans.Loaded(loans)
}

func (s *LoansScreen) loadChoices(ctx context.Context) {
	if students, err := s.api.ListStudents(ctx); err == nil {
		s.Students = students
	}
	s.loadBooks(ctx)
}

func (s *LoansScreen) loadBooks(ctx context.Context) {
	if books, err := s.api.ListAvailableBooks(ctx); err == nil {
		s.Books = books
	}
}

// SetFilter switches the status filter and queries the backend again.
func (s *LoansScreen) SetFilter(ctx context.Context, filter library.LoanFilter) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.Filter = filter
	s.LoadLoans(ctx)
	return nil
}

// SetSearch narrows the already loaded rows. It makes no request.
func (s *LoansScreen) SetSearch(term string) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.Search = term
	return nil
}

// Visible is the loaded list after the search term is applied.
func (s *LoansScreen) Visible() []entities.LoanView {
	return library.SearchLoans(s.Loans.Data, s.Search)
}

// OpenForm shows an empty loan form and refreshes the available books.
func (s *LoansScreen) OpenForm(ctx context.Context) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.Form.show(LoanForm{})
	s.loadBooks(ctx)
	return nil
}

func (s *LoansScreen) CloseForm() {
	s.Form.close()
}

// Submit creates the loan. On success both the loans and the books are
// fetched again, since the book now has one copy less.
func (s *LoansScreen) Submit(ctx context.Context) error {
	if err := s.interactive(); err != nil {
		return err
	}
	if !s.Form.Open {
		return nil
	}
	in := library.LoanInput{EtudiantID: s.Form.Input.EtudiantID, ISBN: s.Form.Input.ISBN}
	if err := library.ValidateLoan(&in); err != nil {
		s.Form.Error = ModalError(MsgSelectStudentAndBook, s.now())
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	s.Form.Error = Alert{}

	if _, err := s.api.CreateLoan(ctx, in.EtudiantID, in.ISBN); err != nil {
		s.Form.Error = ModalError(err.Error(), s.now())
		return err
	}

	s.CloseForm()
	s.succeed("Emprunt enregistré avec succès")
	s.LoadLoans(ctx)
	s.loadBooks(ctx)
	return nil
}

// RequestReturn asks to confirm returning an outstanding loan.
func (s *LoansScreen) RequestReturn(loan entities.LoanView) error {
	if err := s.interactive(); err != nil {
		return err
	}
	if loan.DateRetour != nil {
		return fmt.Errorf("loan %d is already returned", loan.ID)
	}
	return s.ask(ReturnLoan(loan.ID, loan.Titre))
}

func (s *LoansScreen) RequestDelete(loan entities.LoanView) error {
	return s.ask(DeleteLoan(loan.ID, loan.Titre))
}

// Confirm runs the pending return or delete. Errors go to the page banner.
func (s *LoansScreen) Confirm(ctx context.Context) error {
	intent, ok := s.Gate.Confirm()
	if !ok {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	message, err := s.apply(ctx, intent)
	if err != nil {
		s.fail(err)
		return err
	}
	s.succeed(message)
	s.LoadLoans(ctx)
	s.loadBooks(ctx)
	return nil
}

func (s *LoansScreen) apply(ctx context.Context, intent Intent) (string, error) {
	if intent.Entity != EntityLoan {
		return "", fmt.Errorf("unsupported action %s on %s", intent.Kind, intent.Entity)
	}
	id, err := intent.ID()
	if err != nil {
		return "", err
	}

	switch intent.Kind {
	case IntentReturn:
		receipt, err := s.api.ReturnLoan(ctx, id)
		if err != nil {
			return "", err
		}
		s.LastReceipt = receipt
		return ReturnMessage(receipt), nil
	case IntentDelete:
		if err := s.api.DeleteLoan(ctx, id); err != nil {
			return "", err
		}
		return "Emprunt supprimé avec succès", nil
	}
	return "", fmt.Errorf("unsupported action %s on %s", intent.Kind, intent.Entity)
}

func (s *LoansScreen) Cancel() {
	s.Gate.Cancel()
}

// ReturnMessage reports a return, with lateness and fine when there are any.
func ReturnMessage(r *entities.ReturnReceipt) string {
	if r == nil || r.JoursRetard <= 0 {
		return "Retour enregistré avec succès"
	}
	return fmt.Sprintf("Retour enregistré avec succès : %d jour(s) de retard, amende de %.2f €", r.JoursRetard, r.Amende)
}
