package entities

import "time"

type Student struct {
	ID              uint      `gorm:"primaryKey;column:id_etud" json:"id"`
	Nom             string    `gorm:"size:100;not null" json:"nom"`
	Prenom          string    `gorm:"size:100;not null" json:"prenom"`
	Email           string    `gorm:"size:255;not null;uniqueIndex:etudiant_email_key" json:"email"`
	DateInscription time.Time `json:"date_inscription"`
	SoldeAmende     float64   `gorm:"not null;default:0" json:"solde_amende"`
}

func (Student) TableName() string {
	return "etudiant"
}

// FullName is used in confirmation prompts and audit descriptions.
func (s Student) FullName() string {
	return s.Prenom + " " + s.Nom
}
