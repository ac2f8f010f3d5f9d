package loans

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

const viewColumns = `e.id_emprunt AS id, e.id_etud AS etudiant_id, e.isbn AS livre_id,
	et.nom AS nom, et.prenom AS prenom, l.titre AS titre, l.editeur AS auteur,
	e.date_emprunt AS date_emprunt, e.date_retour AS date_retour,
	e.jours_retard AS jours_retard, e.amende AS amende`

type Repository struct {
	db     *gorm.DB
	policy library.Policy
}

func NewRepository(db *gorm.DB, policy library.Policy) *Repository {
	return &Repository{db: db, policy: policy}
}

// Policy exposes the loan rules the repository applies.
func (r *Repository) Policy() library.Policy {
	return r.policy
}

func (r *Repository) views() *gorm.DB {
	return r.db.Table("emprunt AS e").
		Select(viewColumns).
		Joins("JOIN etudiant et ON e.id_etud = et.id_etud").
		Joins("JOIN livre l ON e.isbn = l.isbn")
}

// List returns the loans selected by filter. Outstanding rows carry the
// lateness and fine they would have if returned today.
func (r *Repository) List(filter library.LoanFilter) ([]entities.LoanView, error) {
	rows := []entities.LoanView{}
	query := r.views()

	switch filter {
	case library.FilterOutstanding, library.FilterOverdue:
		query = query.Where("e.date_retour IS NULL").Order("e.date_emprunt ASC").Order("e.id_emprunt ASC")
	case library.FilterAll, "":
		query = query.Order("e.date_emprunt DESC").Order("e.id_emprunt DESC")
	default:
		return nil, fmt.Errorf("unknown loan filter %q", filter)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	r.enrich(rows)
	if filter != library.FilterOverdue {
		return rows, nil
	}

	result := rows[:0]
	for _, row := range rows {
		if row.JoursRetard > 0 {
			result = append(result, row)
		}
	}
	return result, nil
}

// ListByStudent returns a student's loan history, newest first.
func (r *Repository) ListByStudent(studentID uint) ([]entities.LoanView, error) {
	rows := []entities.LoanView{}
	err := r.views().Where("e.id_etud = ?", studentID).
		Order("e.date_emprunt DESC").Order("e.id_emprunt DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	r.enrich(rows)
	return rows, nil
}

// Get returns one loan with its student and book columns.
func (r *Repository) Get(id uint) (*entities.LoanView, error) {
	rows := []entities.LoanView{}
	if err := r.views().Where("e.id_emprunt = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.ErrLoanNotFound
	}
	r.enrich(rows)
	return &rows[0], nil
}

// CountOverdue returns how many outstanding loans are past their due date.
func (r *Repository) CountOverdue() (int, error) {
	overdue, err := r.List(library.FilterOverdue)
	if err != nil {
		return 0, err
	}
	return len(overdue), nil
}

// Create lends a copy of the book to the student.
// The insert and the copy decrement commit together or not at all.
func (r *Repository) Create(studentID uint, isbn string) (*entities.Loan, error) {
	var loan entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var student entities.Student
		if err := tx.First(&student, "id_etud = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.ErrStudentNotFound
			}
			return err
		}

		var book entities.Book
		if err := tx.First(&book, "isbn = ?", isbn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.ErrBookNotFound
			}
			return err
		}
		if book.ExemplairesDispo <= 0 {
			return database.ErrNoCopiesAvailable
		}

		if r.policy.MaxActiveLoans > 0 {
			var active int64
			err := tx.Model(&entities.Loan{}).
				Where("id_etud = ? AND date_retour IS NULL", studentID).
				Count(&active).Error
			if err != nil {
				return err
			}
			if active >= int64(r.policy.MaxActiveLoans) {
				return &database.LoanLimitError{Limit: r.policy.MaxActiveLoans}
			}
		}

		res := tx.Model(&entities.Book{}).
			Where("isbn = ? AND exemplaires_dispo > 0", isbn).
			UpdateColumn("exemplaires_dispo", gorm.Expr("exemplaires_dispo - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.ErrNoCopiesAvailable
		}

		loan = entities.Loan{
			EtudiantID:  studentID,
			ISBN:        isbn,
			DateEmprunt: r.policy.Today(),
		}
		return tx.Omit(clause.Associations).Create(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Return closes an outstanding loan, restores the copy and charges the fine
// to the student's balance.
func (r *Repository) Return(id uint) (*entities.ReturnReceipt, error) {
	var receipt entities.ReturnReceipt

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		if err := tx.First(&loan, "id_emprunt = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.ErrLoanNotFound
			}
			return err
		}
		if loan.IsReturned() {
			return database.ErrAlreadyReturned
		}

		today := r.policy.Today()
		daysLate := r.policy.DaysLate(loan.DateEmprunt, today)
		fine := r.policy.Fine(daysLate)

		res := tx.Model(&entities.Loan{}).
			Where("id_emprunt = ? AND date_retour IS NULL", id).
			Updates(map[string]any{
				"date_retour":  today,
				"jours_retard": daysLate,
				"amende":       fine,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.ErrAlreadyReturned
		}

		err := tx.Model(&entities.Book{}).
			Where("isbn = ?", loan.ISBN).
			UpdateColumn("exemplaires_dispo", gorm.Expr("exemplaires_dispo + 1")).Error
		if err != nil {
			return err
		}

		if fine > 0 {
			err := tx.Model(&entities.Student{}).
				Where("id_etud = ?", loan.EtudiantID).
				UpdateColumn("solde_amende", gorm.Expr("solde_amende + ?", fine)).Error
			if err != nil {
				return err
			}
		}

		receipt = entities.ReturnReceipt{
			Message:     "Livre retourné avec succès",
			JoursRetard: daysLate,
			Amende:      fine,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Delete removes the loan record. Available copies are not adjusted.
func (r *Repository) Delete(id uint) error {
	res := r.db.Delete(&entities.Loan{}, "id_emprunt = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.ErrLoanNotFound
	}
	return nil
}

func (r *Repository) enrich(rows []entities.LoanView) {
	today := r.policy.Today()
	for i := range rows {
		if rows[i].DateRetour == nil {
			rows[i].JoursRetard = r.policy.DaysLate(rows[i].DateEmprunt, today)
			rows[i].Amende = r.policy.Fine(rows[i].JoursRetard)
		}
	}
}
