package books

import (
	"errors"
	"fmt"
	"strings"

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

// List returns the catalog ordered by title.
func (r *Repository) List() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("titre ASC").Find(&books).Error
	return books, err
}

// ListAvailable returns the books that still have at least one copy on the shelf.
func (r *Repository) ListAvailable() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("exemplaires_dispo > 0").Order("titre ASC").Find(&books).Error
	return books, err
}

// Search matches title or publisher, ignoring case.
func (r *Repository) Search(term string) ([]entities.Book, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var books []entities.Book
	err := r.db.
		Where("LOWER(titre) LIKE ? OR LOWER(editeur) LIKE ?", pattern, pattern).
		Order("titre ASC").
		Find(&books).Error
	return books, err
}

func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, "isbn = ?", isbn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *Repository) Create(book *entities.Book) error {
	if book.ExemplairesDispo < 0 {
		book.ExemplairesDispo = 0
	}

	var count int64
	if err := r.db.Model(&entities.Book{}).Where("isbn = ?", book.ISBN).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return database.ErrDuplicateISBN
	}

	// Select all columns so that an explicit 0 copies is not replaced by the column default.
	if err := r.db.Select("*").Create(book).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return database.ErrDuplicateISBN
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// BookUpdate carries the mutable columns. Title, publisher and year are always
// replaced, so a nil year clears it. A nil ExemplairesDispo keeps the stored count.
type BookUpdate struct {
	Titre            string
	Editeur          string
	AnneePublication *int
	ExemplairesDispo *int
}

// Update changes everything but the ISBN, which identifies the book for good.
func (r *Repository) Update(isbn string, upd BookUpdate) (*entities.Book, error) {
	book, err := r.GetByISBN(isbn)
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"titre":   upd.Titre,
		"editeur": upd.Editeur,
		"annee":   upd.AnneePublication,
	}
	if upd.ExemplairesDispo != nil {
		if *upd.ExemplairesDispo < 0 {
			return nil, fmt.Errorf("exemplaires_dispo must be >= 0")
		}
		values["exemplaires_dispo"] = *upd.ExemplairesDispo
	}

	if err := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn).Updates(values).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	book, err = r.GetByISBN(isbn)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book that no loan references.
func (r *Repository) Delete(isbn string) error {
	if _, err := r.GetByISBN(isbn); err != nil {
		return err
	}

	var loans int64
	if err := r.db.Model(&entities.Loan{}).Where("isbn = ?", isbn).Count(&loans).Error; err != nil {
		return err
	}
	if loans > 0 {
		return &database.ReferencedError{Table: "livre", Loans: loans}
	}

	err := r.db.Delete(&entities.Book{}, "isbn = ?", isbn).Error
	if database.IsForeignKeyViolation(err) {
		return &database.ReferencedError{Table: "livre"}
	}
	return err
}

// TotalAvailable sums available copies across the catalog.
func (r *Repository) TotalAvailable() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Select("COALESCE(SUM(exemplaires_dispo), 0)").Scan(&total).Error
	return total, err
}
