package books

import (
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

func intPtr(v int) *int { return &v }

func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	book := &entities.Book{ISBN: "978-2070360024", Titre: "L'Étranger", Editeur: "Gallimard", AnneePublication: intPtr(1942), ExemplairesDispo: 3}
	require.NoError(t, repo.Create(book))

	got, err := repo.GetByISBN("978-2070360024")
	require.NoError(t, err)
	assert.Equal(t, "L'Étranger", got.Titre)
	require.NotNil(t, got.AnneePublication)
	assert.Equal(t, 1942, *got.AnneePublication)
	assert.Equal(t, 3, got.ExemplairesDispo)

	t.Run("duplicate isbn", func(t *testing.T) {
		err := repo.Create(&entities.Book{ISBN: "978-2070360024", Titre: "Autre", Editeur: "X"})
		assert.ErrorIs(t, err, database.ErrDuplicateISBN)
		assert.Contains(t, err.Error(), "livre_pkey")
	})

	t.Run("zero copies are stored as zero", func(t *testing.T) {
		require.NoError(t, repo.Create(&entities.Book{ISBN: "000", Titre: "Vide", Editeur: "X", ExemplairesDispo: 0}))
		got, err := repo.GetByISBN("000")
		require.NoError(t, err)
		assert.Equal(t, 0, got.ExemplairesDispo)
		assert.Nil(t, got.AnneePublication)
	})
}

func TestRepository_ListAndSearch(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	require.NoError(t, repo.Create(&entities.Book{ISBN: "1", Titre: "Germinal", Editeur: "Folio", ExemplairesDispo: 1}))
	require.NoError(t, repo.Create(&entities.Book{ISBN: "2", Titre: "Candide", Editeur: "Gallimard", ExemplairesDispo: 0}))
	require.NoError(t, repo.Create(&entities.Book{ISBN: "3", Titre: "La Peste", Editeur: "Gallimard", ExemplairesDispo: 2}))

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Candide", all[0].Titre)

	available, err := repo.ListAvailable()
	require.NoError(t, err)
	assert.Len(t, available, 2)

	found, err := repo.Search("GALLI")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search("peste")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ISBN)

	total, err := repo.TotalAvailable()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	require.NoError(t, repo.Create(&entities.Book{ISBN: "1", Titre: "Germinal", Editeur: "Folio", ExemplairesDispo: 1}))

	updated, err := repo.Update("1", BookUpdate{Titre: "Germinal (poche)", Editeur: "Livre de Poche", AnneePublication: intPtr(1885), ExemplairesDispo: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ISBN)
	assert.Equal(t, "Germinal (poche)", updated.Titre)
	assert.Equal(t, 0, updated.ExemplairesDispo)
	require.NotNil(t, updated.AnneePublication)
	assert.Equal(t, 1885, *updated.AnneePublication)

	t.Run("copies untouched when omitted", func(t *testing.T) {
		_, err := repo.Update("1", BookUpdate{Titre: "Germinal", Editeur: "Folio", ExemplairesDispo: intPtr(4)})
		require.NoError(t, err)
		got, err := repo.Update("1", BookUpdate{Titre: "Germinal", Editeur: "Folio"})
		require.NoError(t, err)
		assert.Equal(t, 4, got.ExemplairesDispo)
	})

	t.Run("year replaced even when omitted", func(t *testing.T) {
		got, err := repo.Update("1", BookUpdate{Titre: "Germinal", Editeur: "Folio", AnneePublication: intPtr(1885)})
		require.NoError(t, err)
		require.NotNil(t, got.AnneePublication)

		got, err = repo.Update("1", BookUpdate{Titre: "Germinal", Editeur: "Folio"})
		require.NoError(t, err)
		assert.Nil(t, got.AnneePublication)
	})

	t.Run("negative copies rejected", func(t *testing.T) {
		_, err := repo.Update("1", BookUpdate{Titre: "Germinal", Editeur: "Folio", ExemplairesDispo: intPtr(-1)})
		assert.Error(t, err)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		_, err := repo.Update("nope", BookUpdate{Titre: "A", Editeur: "B"})
		assert.ErrorIs(t, err, database.ErrBookNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, repo.Create(&entities.Book{ISBN: "free", Titre: "A", Editeur: "X", ExemplairesDispo: 1}))
	require.NoError(t, repo.Create(&entities.Book{ISBN: "lent", Titre: "B", Editeur: "X", ExemplairesDispo: 1}))

	student := &entities.Student{Nom: "Dupont", Prenom: "Marie", Email: "m@u.fr", DateInscription: time.Now()}
	require.NoError(t, db.Create(student).Error)
	require.NoError(t, db.Create(&entities.Loan{EtudiantID: student.ID, ISBN: "lent", DateEmprunt: time.Now()}).Error)

	require.NoError(t, repo.Delete("free"))
	_, err := repo.GetByISBN("free")
	assert.ErrorIs(t, err, database.ErrBookNotFound)

	err = repo.Delete("lent")
	var ref *database.ReferencedError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "livre", ref.Table)
	assert.Contains(t, err.Error(), "violates foreign key constraint")

	_, err = repo.GetByISBN("lent")
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Delete("ghost"), database.ErrBookNotFound)
}
