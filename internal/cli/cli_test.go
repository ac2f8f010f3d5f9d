package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/client"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/loans"
	"github.com/mrlokans/library/internal/database/stats"
	"github.com/mrlokans/library/internal/database/students"
	libhttp "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/views"
)

type fixture struct {
	cfg      *config.Config
	api      *client.Client
	prompted []views.Intent
	answer   bool
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Loans are created 20 days before the backend's today: 6 days late.
	now := time.Date(2024, time.May, 21, 9, 0, 0, 0, time.UTC)
	backdated := library.DefaultPolicy()
	backdated.Now = func() time.Time { return now.AddDate(0, 0, -20) }
	current := library.DefaultPolicy()
	current.Now = func() time.Time { return now }

	newRouter := func(policy library.Policy) *gin.Engine {
		return libhttp.NewRouter(libhttp.RouterConfig{
			Students: students.NewRepository(db.DB),
			Books:    books.NewRepository(db.DB),
			Loans:    loans.NewRepository(db.DB, policy),
			Stats:    stats.NewRepository(db.DB),
			Database: db,
		})
	}

	seedSrv := httptest.NewServer(newRouter(backdated))
	defer seedSrv.Close()
	seed := client.New(seedSrv.URL+libhttp.APIPrefix, 5*time.Second)
	ctx := context.Background()

	marie, err := seed.CreateStudent(ctx, library.StudentInput{Nom: "Dupont", Prenom: "Marie", Email: "m.dupont@test.fr"})
	require.NoError(t, err)
	paul, err := seed.CreateStudent(ctx, library.StudentInput{Nom: "Martin", Prenom: "Paul", Email: "p.martin@test.fr"})
	require.NoError(t, err)
	two := 2
	_, err = seed.CreateBook(ctx, library.BookInput{ISBN: "978-1", Titre: "Germinal", Editeur: "Zola", ExemplairesDispo: &two})
	require.NoError(t, err)
	_, err = seed.CreateBook(ctx, library.BookInput{ISBN: "978-2", Titre: "Candide", Editeur: "Voltaire"})
	require.NoError(t, err)
	_, err = seed.CreateLoan(ctx, marie.ID, "978-1")
	require.NoError(t, err)
	_, err = seed.CreateLoan(ctx, paul.ID, "978-2")
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(current))
	t.Cleanup(srv.Close)

	return &fixture{
		cfg: &config.Config{API: config.API{URL: srv.URL + libhttp.APIPrefix, Timeout: 5 * time.Second}},
		api: client.New(srv.URL+libhttp.APIPrefix, 5*time.Second),
	}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &options{
		cfg:     f.cfg,
		version: "test",
		confirm: func(intent views.Intent) (bool, error) {
			f.prompted = append(f.prompted, intent)
			return f.answer, nil
		},
	}
	root := newRootCommand(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoansList(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "loans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Germinal")
	assert.Contains(t, out, "Candide")
	assert.Contains(t, out, "Overdue (6d)")

	out, err = f.run(t, "loans", "list", "--filter", "overdue", "--search", "MARIE")
	require.NoError(t, err)
	assert.Contains(t, out, "Germinal")
	assert.NotContains(t, out, "Candide")

	_, err = f.run(t, "loans", "list", "--filter", "bogus")
	assert.Error(t, err)
}

func TestLoansReturn_DeclinedPromptChangesNothing(t *testing.T) {
	f := setup(t)
	f.answer = false

	out, err := f.run(t, "loans", "return", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Opération annulée")
	require.Len(t, f.prompted, 1)
	assert.Equal(t, `Confirmer le retour du livre "Germinal" ?`, f.prompted[0].Prompt())

	book, err := f.api.GetBook(context.Background(), "978-1")
	require.NoError(t, err)
	assert.Equal(t, 1, book.ExemplairesDispo)
}

func TestLoansReturn_ReportsFine(t *testing.T) {
	f := setup(t)
	f.answer = true

	out, err := f.run(t, "loans", "return", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "6 jour(s) de retard")
	assert.Contains(t, out, "3.00 €")

	book, err := f.api.GetBook(context.Background(), "978-1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.ExemplairesDispo)

	_, err = f.run(t, "loans", "return", "1", "--yes")
	require.Error(t, err)
}

func TestLoansDelete_YesSkipsPrompt(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "loans", "delete", "2", "--yes")
	require.NoError(t, err)
	assert.Empty(t, f.prompted)
	assert.Contains(t, out, "Emprunt supprimé avec succès")

	book, err := f.api.GetBook(context.Background(), "978-2")
	require.NoError(t, err)
	assert.Equal(t, 0, book.ExemplairesDispo, "deleting a loan does not restore copies")
}

func TestBooksDelete_ReferencedFails(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "books", "delete", "978-1", "--yes")
	require.Error(t, err)
	assert.Equal(t, client.MsgReferencedLoans, err.Error())

	_, err = f.api.GetBook(context.Background(), "978-1")
	assert.NoError(t, err)
}

func TestStudentsAndBooksList(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "students", "list", "--search", "martin")
	require.NoError(t, err)
	assert.Contains(t, out, "p.martin@test.fr")
	assert.NotContains(t, out, "m.dupont@test.fr")

	out, err = f.run(t, "books", "list", "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "Germinal")
	assert.NotContains(t, out, "Candide")
}

func TestStats(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistiques")
	assert.Contains(t, out, "Marie Dupont")
}

func TestLoansCreate_IncompleteForm(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "loans", "create", "--student", "1")
	require.Error(t, err)
	assert.Equal(t, views.MsgSelectStudentAndBook, err.Error())
}

func TestUnreachableServer(t *testing.T) {
	f := setup(t)
	f.cfg.API.URL = "http://127.0.0.1:1/api"

	_, err := f.run(t, "loans", "list")
	require.Error(t, err)
	assert.Equal(t, client.ErrUnreachable.Error(), err.Error())
}
