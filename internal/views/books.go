package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

type BooksScreen struct {
	page

	api         BooksAPI
	List        State[[]entities.Book]
	Query       string
	Form        Form[library.BookInput]
	editingISBN string
}

func NewBooksScreen(api BooksAPI) *BooksScreen {
	return &BooksScreen{page: newPage(), api: api}
}

func (s *BooksScreen) Load(ctx context.Context) {
	s.List = s.List.Loading()

	var (
		books []entities.Book
		err   error
	)
	if q := strings.TrimSpace(s.Query); q != "" {
		books, err = s.api.SearchBooks(ctx, q)
	} else {
		books, err = s.api.ListBooks(ctx)
	}
	if err != nil {
		s.List = s.List.Failed(err.Error())
		return
	}
	s.List = s.List.Loaded(books)
}

func (s *BooksScreen) Search(ctx context.Context, q string) error {
	if err := s.interactive(); err != nil {
		return err
	}
	s.Query = q
	s.Load(ctx)
	return nil
}

// OpenCreate starts a new book with one available copy.
func (s *BooksScreen) OpenCreate() error {
	if err := s.interactive(); err != nil {
		return err
	}
	copies := 1
	s.editingISBN = ""
	s.Form.show(library.BookInput{ExemplairesDispo: &copies})
	return nil
}

func (s *BooksScreen) OpenEdit(book entities.Book) error {
	if err := s.interactive(); err != nil {
		return err
	}
	copies := book.ExemplairesDispo
	s.editingISBN = book.ISBN
	s.Form.show(library.BookInput{
		ISBN:             book.ISBN,
		Titre:            book.Titre,
		Editeur:          book.Editeur,
		AnneePublication: book.AnneePublication,
		ExemplairesDispo: &copies,
	})
	return nil
}

// ISBNLocked reports whether the ISBN field is read-only. It is when editing.
func (s *BooksScreen) ISBNLocked() bool {
	return s.editingISBN != ""
}

func (s *BooksScreen) CloseForm() {
	s.editingISBN = ""
	s.Form.close()
}

func (s *BooksScreen) Submit(ctx context.Context) error {
	if err := s.interactive(); err != nil {
		return err
	}
	if !s.Form.Open {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	s.Form.Error = Alert{}

	var (
		err     error
		message string
	)
	if s.ISBNLocked() {
		_, err = s.api.UpdateBook(ctx, s.editingISBN, s.Form.Input)
		message = "Livre modifié avec succès"
	} else {
		_, err = s.api.CreateBook(ctx, s.Form.Input)
		message = "Livre ajouté avec succès"
	}
	if err != nil {
		s.Form.Error = ModalError(err.Error(), s.now())
		return err
	}

	s.CloseForm()
	s.succeed(message)
	s.Load(ctx)
	return nil
}

func (s *BooksScreen) RequestDelete(book entities.Book) error {
	return s.ask(DeleteBook(book.ISBN, book.Titre))
}

func (s *BooksScreen) Confirm(ctx context.Context) error {
	intent, ok := s.Gate.Confirm()
	if !ok {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if intent.Kind != IntentDelete || intent.Entity != EntityBook {
		err := fmt.Errorf("unsupported action %s on %s", intent.Kind, intent.Entity)
		s.fail(err)
		return err
	}
	if err := s.api.DeleteBook(ctx, intent.TargetID); err != nil {
		s.fail(err)
		return err
	}
	s.succeed("Livre supprimé avec succès")
	s.Load(ctx)
	return nil
}

func (s *BooksScreen) Cancel() {
	s.Gate.Cancel()
}
