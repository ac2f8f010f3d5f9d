package entities

import "time"

// Loan is the stored borrow record. A loan with a non-nil DateRetour is terminal.
type Loan struct {
	ID          uint       `gorm:"primaryKey;column:id_emprunt" json:"id"`
	EtudiantID  uint       `gorm:"column:id_etud;index;not null" json:"etudiant_id"`
	ISBN        string     `gorm:"column:isbn;index;size:20;not null" json:"livre_id"`
	DateEmprunt time.Time  `gorm:"index;not null" json:"date_emprunt"`
	DateRetour  *time.Time `gorm:"index" json:"date_retour"`
	JoursRetard int        `gorm:"not null;default:0" json:"jours_retard"`
	Amende      float64    `gorm:"not null;default:0" json:"amende"`

	Student Student `gorm:"foreignKey:EtudiantID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	Book    Book    `gorm:"foreignKey:ISBN;references:ISBN;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Loan) TableName() string {
	return "emprunt"
}

// IsReturned reports whether the loan reached its terminal state.
func (l Loan) IsReturned() bool {
	return l.DateRetour != nil
}

// LoanView is a loan joined with the student and book columns shown in lists.
// JoursRetard and Amende are computed against the current date for outstanding loans.
type LoanView struct {
	ID          uint       `json:"id"`
	EtudiantID  uint       `json:"etudiant_id"`
	LivreID     string     `json:"livre_id"`
	Nom         string     `json:"nom"`
	Prenom      string     `json:"prenom"`
	Titre       string     `json:"titre"`
	Auteur      string     `json:"auteur"`
	DateEmprunt time.Time  `json:"date_emprunt"`
	DateRetour  *time.Time `json:"date_retour"`
	JoursRetard int        `json:"jours_retard"`
	Amende      float64    `json:"amende"`
}

// ReturnReceipt is what a return operation reports back.
type ReturnReceipt struct {
	Message     string  `json:"message"`
	JoursRetard int     `json:"jours_retard"`
	Amende      float64 `json:"amende"`
}
