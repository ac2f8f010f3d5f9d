package stats

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func addLoan(t *testing.T, db *gorm.DB, studentID uint, isbn string, returned bool) {
	loan := &entities.Loan{EtudiantID: studentID, ISBN: isbn, DateEmprunt: time.Now().UTC()}
	if returned {
		now := time.Now().UTC()
		loan.DateRetour = &now
	}
	require.NoError(t, db.Create(loan).Error)
}

func TestBorrowRate(t *testing.T) {
	tests := []struct {
		active, available int64
		want              float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 10, 50},
		{12, 10, 120},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.active, tt.available), func(t *testing.T) {
			assert.Equal(t, tt.want, BorrowRate(tt.active, tt.available))
		})
	}
}

func TestRepository_OverviewEmpty(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	o, err := repo.Overview()
	require.NoError(t, err)
	assert.Zero(t, o.Totaux.Etudiants)
	assert.Zero(t, o.LivresDisponibles)
	assert.Zero(t, o.TauxEmprunt)

	students, err := repo.TopStudents()
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NotNil(t, students)
}

func TestRepository_Overview(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	s1 := &entities.Student{Nom: "Dupont", Prenom: "Marie", Email: "m@u.fr"}
	s2 := &entities.Student{Nom: "Martin", Prenom: "Paul", Email: "p@u.fr"}
	s3 := &entities.Student{Nom: "Bernard", Prenom: "Luc", Email: "l@u.fr"}
	for _, s := range []*entities.Student{s1, s2, s3} {
		require.NoError(t, db.Create(s).Error)
	}
	require.NoError(t, db.Create(&entities.Book{ISBN: "1", Titre: "Candide", Editeur: "Folio", ExemplairesDispo: 2}).Error)
	require.NoError(t, db.Create(&entities.Book{ISBN: "2", Titre: "Germinal", Editeur: "Poche", ExemplairesDispo: 1}).Error)
	require.NoError(t, db.Create(&entities.Book{ISBN: "3", Titre: "Jamais lu", Editeur: "Poche", ExemplairesDispo: 4}).Error)

	addLoan(t, db, s1.ID, "1", false)
	addLoan(t, db, s1.ID, "2", true)
	addLoan(t, db, s1.ID, "1", true)
	addLoan(t, db, s2.ID, "2", false)

	o, err := repo.Overview()
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.Totaux.Etudiants)
	assert.Equal(t, int64(3), o.Totaux.Livres)
	assert.Equal(t, int64(4), o.Totaux.Emprunts)
	assert.Equal(t, int64(2), o.Emprunts.EnCours)
	assert.Equal(t, int64(2), o.Emprunts.Termines)
	assert.Equal(t, int64(7), o.LivresDisponibles)
	assert.Equal(t, 28.6, o.TauxEmprunt)

	students, err := repo.TopStudents()
	require.NoError(t, err)
	require.Len(t, students, 2, "students without loans are excluded")
	assert.Equal(t, s1.ID, students[0].ID)
	assert.Equal(t, int64(3), students[0].NombreEmprunts)
	assert.Equal(t, "Martin", students[1].Nom)

	books, err := repo.TopBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Candide", books[0].Titre)
	assert.Equal(t, "Folio", books[0].Auteur)
	assert.Equal(t, int64(2), books[1].NombreEmprunts)
}

func TestRepository_TopIsCappedAtFive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, db.Create(&entities.Book{ISBN: "1", Titre: "Candide", Editeur: "Folio", ExemplairesDispo: 1}).Error)

	for i := 0; i < 7; i++ {
		s := &entities.Student{Nom: fmt.Sprintf("Nom%d", i), Prenom: "X", Email: fmt.Sprintf("s%d@u.fr", i)}
		require.NoError(t, db.Create(s).Error)
		for j := 0; j <= i; j++ {
			addLoan(t, db, s.ID, "1", true)
		}
	}

	students, err := repo.TopStudents()
	require.NoError(t, err)
	require.Len(t, students, TopLimit)
	assert.Equal(t, int64(7), students[0].NombreEmprunts)
	assert.Equal(t, int64(3), students[4].NombreEmprunts)
}
