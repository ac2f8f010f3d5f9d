package views

import (
	"context"
	"time"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// fakeAPI records calls and serves canned data for every screen.
type fakeAPI struct {
	calls []string

	students []entities.Student
	books    []entities.Book
	loans    map[library.LoanFilter][]entities.LoanView
	receipt  entities.ReturnReceipt

	err error // returned by every mutating call when set
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		students: []entities.Student{{ID: 1, Nom: "Dupont", Prenom: "Marie", Email: "m.dupont@test.fr"}},
		books:    []entities.Book{{ISBN: "978-1", Titre: "Germinal", Editeur: "Zola", ExemplairesDispo: 2}},
		loans: map[library.LoanFilter][]entities.LoanView{
			library.FilterAll: {
				{ID: 1, Nom: "Dupont", Prenom: "Marie", Titre: "Germinal"},
				{ID: 2, Nom: "Martin", Prenom: "Paul", Titre: "Nana"},
			},
			library.FilterOverdue: {{ID: 2, Nom: "Martin", Prenom: "Paul", Titre: "Nana", JoursRetard: 3}},
		},
	}
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListStudents(ctx context.Context) ([]entities.Student, error) {
	f.record("ListStudents")
	return f.students, nil
}

func (f *fakeAPI) SearchStudents(ctx context.Context, q string) ([]entities.Student, error) {
	f.record("SearchStudents")
	return f.students[:0], nil
}

func (f *fakeAPI) CreateStudent(ctx context.Context, in library.StudentInput) (*entities.Student, error) {
	f.record("CreateStudent")
	if err := library.ValidateStudent(&in); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Student{ID: 2, Nom: in.Nom, Prenom: in.Prenom, Email: in.Email}, nil
}

func (f *fakeAPI) UpdateStudent(ctx context.Context, id uint, in library.StudentInput) (*entities.Student, error) {
	f.record("UpdateStudent")
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Student{ID: id, Nom: in.Nom, Prenom: in.Prenom, Email: in.Email}, nil
}

func (f *fakeAPI) DeleteStudent(ctx context.Context, id uint) error {
	f.record("DeleteStudent")
	return f.err
}

func (f *fakeAPI) ListBooks(ctx context.Context) ([]entities.Book, error) {
	f.record("ListBooks")
	return f.books, nil
}

func (f *fakeAPI) ListAvailableBooks(ctx context.Context) ([]entities.Book, error) {
	f.record("ListAvailableBooks")
	return f.books, nil
}

func (f *fakeAPI) SearchBooks(ctx context.Context, q string) ([]entities.Book, error) {
	f.record("SearchBooks")
	return f.books, nil
}

func (f *fakeAPI) CreateBook(ctx context.Context, in library.BookInput) (*entities.Book, error) {
	f.record("CreateBook")
	if err := library.ValidateBook(&in); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Book{ISBN: in.ISBN, Titre: in.Titre, Editeur: in.Editeur}, nil
}

func (f *fakeAPI) UpdateBook(ctx context.Context, isbn string, in library.BookInput) (*entities.Book, error) {
	f.record("UpdateBook:" + isbn)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Book{ISBN: isbn, Titre: in.Titre, Editeur: in.Editeur}, nil
}

func (f *fakeAPI) DeleteBook(ctx context.Context, isbn string) error {
	f.record("DeleteBook:" + isbn)
	return f.err
}

func (f *fakeAPI) ListLoans(ctx context.Context, filter library.LoanFilter) ([]entities.LoanView, error) {
	f.record("ListLoans:" + string(filter))
	return f.loans[filter], nil
}

func (f *fakeAPI) CreateLoan(ctx context.Context, studentID uint, isbn string) (*entities.LoanView, error) {
	f.record("CreateLoan")
	if f.err != nil {
		return nil, f.err
	}
	return &entities.LoanView{ID: 3, EtudiantID: studentID, LivreID: isbn}, nil
}

func (f *fakeAPI) ReturnLoan(ctx context.Context, id uint) (*entities.ReturnReceipt, error) {
	f.record("ReturnLoan")
	if f.err != nil {
		return nil, f.err
	}
	r := f.receipt
	return &r, nil
}

func (f *fakeAPI) DeleteLoan(ctx context.Context, id uint) error {
	f.record("DeleteLoan")
	return f.err
}

// testClock is a settable clock for alert expiry.
type testClock struct{ t time.Time }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
