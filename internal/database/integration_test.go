//go:build integration
// +build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/loans"
	"github.com/mrlokans/library/internal/database/stats"
	"github.com/mrlokans/library/internal/database/students"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

func setupPostgres(t *testing.T) *database.Database {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("bibliotheque"),
		postgres.WithUsername("library"),
		postgres.WithPassword("library"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(database.DriverPostgres, "", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgres_LoanLifecycle(t *testing.T) {
	db := setupPostgres(t)

	policy := library.DefaultPolicy()
	studentsRepo := students.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB, policy)

	student := &entities.Student{Nom: "Dupont", Prenom: "Marie", Email: "marie@univ.fr"}
	require.NoError(t, studentsRepo.Create(student))
	require.NoError(t, booksRepo.Create(&entities.Book{ISBN: "111", Titre: "Candide", Editeur: "Folio", ExemplairesDispo: 1}))

	loan, err := loansRepo.Create(student.ID, "111")
	require.NoError(t, err)

	_, err = loansRepo.Create(student.ID, "111")
	assert.ErrorIs(t, err, database.ErrNoCopiesAvailable)

	err = booksRepo.Delete("111")
	var ref *database.ReferencedError
	assert.ErrorAs(t, err, &ref)

	receipt, err := loansRepo.Return(loan.ID)
	require.NoError(t, err)
	assert.Zero(t, receipt.Amende)

	overview, err := stats.NewRepository(db.DB).Overview()
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.Emprunts.Termines)
	assert.Equal(t, int64(1), overview.LivresDisponibles)
}

func TestPostgres_ConstraintClassification(t *testing.T) {
	db := setupPostgres(t)

	require.NoError(t, db.DB.Create(&entities.Student{Nom: "A", Prenom: "B", Email: "dup@univ.fr"}).Error)
	err := db.DB.Create(&entities.Student{Nom: "C", Prenom: "D", Email: "dup@univ.fr"}).Error
	assert.True(t, database.IsUniqueViolation(err))

	err = db.DB.Session(&gorm.Session{}).Omit("Student", "Book").
		Create(&entities.Loan{EtudiantID: 999, ISBN: "missing", DateEmprunt: time.Now()}).Error
	assert.True(t, database.IsForeignKeyViolation(err))
}
