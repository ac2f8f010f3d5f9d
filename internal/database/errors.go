package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Messages are surfaced to API clients as-is, so they keep the wording the
// clients match on (constraint names, "violates foreign key constraint").
var (
	ErrStudentNotFound   = errors.New("Étudiant non trouvé")
	ErrBookNotFound      = errors.New("Livre non trouvé")
	ErrLoanNotFound      = errors.New("Emprunt non trouvé")
	ErrNoCopiesAvailable = errors.New("Livre non disponible")
	ErrAlreadyReturned   = errors.New("Livre déjà retourné")
	ErrDuplicateEmail    = errors.New(`duplicate key value violates unique constraint "etudiant_email_key"`)
	ErrDuplicateISBN     = errors.New(`duplicate key value violates unique constraint "livre_pkey"`)
)

// ReferencedError is returned when deleting a row that loans still point to.
type ReferencedError struct {
	Table string
	Loans int64
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf(`update or delete on table "%s" violates foreign key constraint on table "emprunt": %d emprunt(s) lié(s)`, e.Table, e.Loans)
}

// LoanLimitError is returned when a student already holds the maximum number of loans.
type LoanLimitError struct {
	Limit int
}

func (e *LoanLimitError) Error() string {
	return fmt.Sprintf("Limite de %d emprunts atteinte", e.Limit)
}

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrLoanNotFound)
}

// IsConflict reports whether err is a uniqueness or referential violation.
func IsConflict(err error) bool {
	var ref *ReferencedError
	return errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateISBN) ||
		errors.As(err, &ref)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation detects unique/primary key violations from SQLite or PostgreSQL.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsForeignKeyViolation detects foreign key violations from SQLite or PostgreSQL.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}
