package stats

import (
	"math"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// TopLimit is how many rows the leaderboards return.
const TopLimit = 5

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Overview computes catalog totals, loan counts and the borrowing rate.
func (r *Repository) Overview() (*entities.StatsOverview, error) {
	var o entities.StatsOverview

	if err := r.db.Model(&entities.Student{}).Count(&o.Totaux.Etudiants).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Book{}).Count(&o.Totaux.Livres).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).Count(&o.Totaux.Emprunts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).Where("date_retour IS NULL").Count(&o.Emprunts.EnCours).Error; err != nil {
		return nil, err
	}
	o.Emprunts.Termines = o.Totaux.Emprunts - o.Emprunts.EnCours

	err := r.db.Model(&entities.Book{}).
		Select("COALESCE(SUM(exemplaires_dispo), 0)").
		Scan(&o.LivresDisponibles).Error
	if err != nil {
		return nil, err
	}

	o.TauxEmprunt = BorrowRate(o.Emprunts.EnCours, o.LivresDisponibles)
	return &o, nil
}

// BorrowRate is active/available as a percentage with one decimal, 0 when nothing is available.
func BorrowRate(active, available int64) float64 {
	if available <= 0 {
		return 0
	}
	return math.Round(float64(active)/float64(available)*1000) / 10
}

// TopStudents returns the students with the most loans, ties broken by name.
func (r *Repository) TopStudents() ([]entities.TopStudent, error) {
	rows := []entities.TopStudent{}
	err := r.db.Table("etudiant AS et").
		Select("et.id_etud AS id, et.nom AS nom, et.prenom AS prenom, COUNT(e.id_emprunt) AS nombre_emprunts").
		Joins("JOIN emprunt e ON e.id_etud = et.id_etud").
		Group("et.id_etud, et.nom, et.prenom").
		Order("nombre_emprunts DESC").Order("et.nom ASC").Order("et.prenom ASC").
		Limit(TopLimit).
		Scan(&rows).Error
	return rows, err
}

// TopBooks returns the most borrowed books, ties broken by title.
func (r *Repository) TopBooks() ([]entities.TopBook, error) {
	rows := []entities.TopBook{}
	err := r.db.Table("livre AS l").
		Select("l.isbn AS isbn, l.titre AS titre, l.editeur AS auteur, COUNT(e.id_emprunt) AS nombre_emprunts").
		Joins("JOIN emprunt e ON e.isbn = l.isbn").
		Group("l.isbn, l.titre, l.editeur").
		Order("nombre_emprunts DESC").Order("l.titre ASC").
		Limit(TopLimit).
		Scan(&rows).Error
	return rows, err
}
