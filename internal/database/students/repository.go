package students

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all students ordered by surname, then first name.
func (r *Repository) List() ([]entities.Student, error) {
	var students []entities.Student
	err := r.db.Order("nom ASC, prenom ASC").Find(&students).Error
	return students, err
}

// Search returns students whose surname, first name or email contains term.
func (r *Repository) Search(term string) ([]entities.Student, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var students []entities.Student
	err := r.db.
		Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern).
		Order("nom ASC, prenom ASC").
		Find(&students).Error
	return students, err
}

func (r *Repository) GetByID(id uint) (*entities.Student, error) {
	var student entities.Student
	err := r.db.First(&student, "id_etud = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Exists reports whether a student with the given ID is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Student{}).Where("id_etud = ?", id).Count(&count).Error
	return count > 0, err
}

// Create stores a new student. The registration date is set here.
func (r *Repository) Create(student *entities.Student) error {
	if student.DateInscription.IsZero() {
		student.DateInscription = time.Now().UTC()
	}
	student.ID = 0
	student.SoldeAmende = 0

	taken, err := r.emailTaken(student.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return database.ErrDuplicateEmail
	}

	if err := r.db.Create(student).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return database.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// Update replaces the identity fields of an existing student.
// Registration date and fine balance are left untouched.
func (r *Repository) Update(id uint, nom, prenom, email string) (*entities.Student, error) {
	student, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	taken, err := r.emailTaken(email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, database.ErrDuplicateEmail
	}

	err = r.db.Model(student).Updates(map[string]any{
		"nom":    nom,
		"prenom": prenom,
		"email":  email,
	}).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

// Delete removes a student that no loan references.
func (r *Repository) Delete(id uint) error {
	if _, err := r.GetByID(id); err != nil {
		return err
	}

	var loans int64
	if err := r.db.Model(&entities.Loan{}).Where("id_etud = ?", id).Count(&loans).Error; err != nil {
		return err
	}
	if loans > 0 {
		return &database.ReferencedError{Table: "etudiant", Loans: loans}
	}

	err := r.db.Delete(&entities.Student{}, "id_etud = ?", id).Error
	if database.IsForeignKeyViolation(err) {
		return &database.ReferencedError{Table: "etudiant"}
	}
	return err
}

// CountActiveLoans returns how many loans the student has not returned yet.
func (r *Repository) CountActiveLoans(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("id_etud = ? AND date_retour IS NULL", id).
		Count(&count).Error
	return count, err
}

func (r *Repository) emailTaken(email string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.Student{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID > 0 {
		query = query.Where("id_etud <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
