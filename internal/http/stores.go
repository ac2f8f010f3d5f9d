package http

import (
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// Each controller depends on the narrow store it needs; the repositories in
// internal/database satisfy them.

type StudentStore interface {
	List() ([]entities.Student, error)
	Search(term string) ([]entities.Student, error)
	GetByID(id uint) (*entities.Student, error)
	Create(student *entities.Student) error
	Update(id uint, nom, prenom, email string) (*entities.Student, error)
	Delete(id uint) error
}

type BookStore interface {
	List() ([]entities.Book, error)
	ListAvailable() ([]entities.Book, error)
	Search(term string) ([]entities.Book, error)
	GetByISBN(isbn string) (*entities.Book, error)
	Create(book *entities.Book) error
	Update(isbn string, upd books.BookUpdate) (*entities.Book, error)
	Delete(isbn string) error
}

type LoanStore interface {
	List(filter library.LoanFilter) ([]entities.LoanView, error)
	ListByStudent(studentID uint) ([]entities.LoanView, error)
	Get(id uint) (*entities.LoanView, error)
	Create(studentID uint, isbn string) (*entities.Loan, error)
	Return(id uint) (*entities.ReturnReceipt, error)
	Delete(id uint) error
}

type StatsStore interface {
	Overview() (*entities.StatsOverview, error)
	TopStudents() ([]entities.TopStudent, error)
	TopBooks() ([]entities.TopBook, error)
}

// AuditRecorder receives a trace of every successful write.
// A nil recorder disables auditing.
type AuditRecorder interface {
	LogChange(eventType entities.AuditEventType, entityType, key, description string, err error)
	LogLoan(loanKey string, studentID uint, isbn string)
	LogReturn(loanKey string, receipt *entities.ReturnReceipt)
}

type noopRecorder struct{}

func (noopRecorder) LogChange(entities.AuditEventType, string, string, string, error) {}
func (noopRecorder) LogLoan(string, uint, string)                                     {}
func (noopRecorder) LogReturn(string, *entities.ReturnReceipt)                        {}

func recorderOrNoop(r AuditRecorder) AuditRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
