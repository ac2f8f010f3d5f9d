package entities

type Book struct {
	ISBN             string `gorm:"primaryKey;size:20" json:"isbn"`
	Titre            string `gorm:"index;size:512;not null" json:"titre"`
	Editeur          string `gorm:"size:256;not null" json:"editeur"`
	AnneePublication *int   `gorm:"column:annee" json:"annee_publication"`
	ExemplairesDispo int    `gorm:"not null;default:1;check:chk_livre_exemplaires,exemplaires_dispo >= 0" json:"exemplaires_dispo"`
}

func (Book) TableName() string {
	return "livre"
}
