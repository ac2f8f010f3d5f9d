// Command generate_demo creates a demo library database with students, books
// and a mix of returned, outstanding and overdue loans.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/loans"
	"github.com/mrlokans/library/internal/database/students"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

const defaultDemoDatabasePath = "./demo/library.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	studentIDs := createStudents(students.NewRepository(db.DB))
	createBooks(books.NewRepository(db.DB))
	createLoans(db, studentIDs)

	log.Println("Demo database generated successfully!")
}

func createStudents(repo *students.Repository) []uint {
	demo := []entities.Student{
		{Nom: "Dupont", Prenom: "Marie", Email: "marie.dupont@univ.fr"},
		{Nom: "Martin", Prenom: "Paul", Email: "paul.martin@univ.fr"},
		{Nom: "Bernard", Prenom: "Léa", Email: "lea.bernard@univ.fr"},
		{Nom: "Petit", Prenom: "Hugo", Email: "hugo.petit@univ.fr"},
		{Nom: "Moreau", Prenom: "Chloé", Email: "chloe.moreau@univ.fr"},
	}

	ids := make([]uint, 0, len(demo))
	for i := range demo {
		if err := repo.Create(&demo[i]); err != nil {
			log.Printf("Failed to save student %s: %v", demo[i].FullName(), err)
			continue
		}
		ids = append(ids, demo[i].ID)
		log.Printf("Saved student: %s", demo[i].FullName())
	}
	return ids
}

func year(y int) *int { return &y }

func createBooks(repo *books.Repository) {
	demo := []entities.Book{
		{ISBN: "978-2070360024", Titre: "L'Étranger", Editeur: "Gallimard", AnneePublication: year(1942), ExemplairesDispo: 3},
		{ISBN: "978-2253004226", Titre: "Germinal", Editeur: "Le Livre de Poche", AnneePublication: year(1885), ExemplairesDispo: 2},
		{ISBN: "978-2070413119", Titre: "Candide", Editeur: "Gallimard", AnneePublication: year(1759), ExemplairesDispo: 2},
		{ISBN: "978-2253006329", Titre: "Les Misérables", Editeur: "Le Livre de Poche", AnneePublication: year(1862), ExemplairesDispo: 1},
		{ISBN: "978-2070368228", Titre: "La Peste", Editeur: "Gallimard", AnneePublication: year(1947), ExemplairesDispo: 2},
		{ISBN: "978-2080700773", Titre: "Madame Bovary", Editeur: "Flammarion", AnneePublication: year(1857), ExemplairesDispo: 1},
	}

	for i := range demo {
		if err := repo.Create(&demo[i]); err != nil {
			log.Printf("Failed to save book %s: %v", demo[i].Titre, err)
			continue
		}
		log.Printf("Saved book: %s (%d copies)", demo[i].Titre, demo[i].ExemplairesDispo)
	}
}

// demoLoan is a loan taken daysAgo days ago, returned after returnAfter days
// when returnAfter is positive.
type demoLoan struct {
	student     int
	isbn        string
	daysAgo     int
	returnAfter int
}

func createLoans(db *database.Database, studentIDs []uint) {
	demo := []demoLoan{
		{student: 0, isbn: "978-2070360024", daysAgo: 60, returnAfter: 10},
		{student: 0, isbn: "978-2253004226", daysAgo: 40, returnAfter: 25},
		{student: 1, isbn: "978-2070413119", daysAgo: 30},
		{student: 2, isbn: "978-2253006329", daysAgo: 5},
		{student: 3, isbn: "978-2070360024", daysAgo: 20},
		{student: 4, isbn: "978-2070368228", daysAgo: 3},
		{student: 1, isbn: "978-2080700773", daysAgo: 45, returnAfter: 14},
	}

	today := library.Day(time.Now())
	for _, d := range demo {
		if d.student >= len(studentIDs) {
			continue
		}

		borrowed := today.AddDate(0, 0, -d.daysAgo)
		repo := loans.NewRepository(db.DB, clockAt(borrowed))
		loan, err := repo.Create(studentIDs[d.student], d.isbn)
		if err != nil {
			log.Printf("Failed to create loan of %s: %v", d.isbn, err)
			continue
		}

		if d.returnAfter <= 0 {
			log.Printf("Loan #%d of %s outstanding since %s", loan.ID, d.isbn, borrowed.Format("2006-01-02"))
			continue
		}

		returned := borrowed.AddDate(0, 0, d.returnAfter)
		receipt, err := loans.NewRepository(db.DB, clockAt(returned)).Return(loan.ID)
		if err != nil {
			log.Printf("Failed to return loan #%d: %v", loan.ID, err)
			continue
		}
		log.Printf("Loan #%d of %s returned, %d day(s) late, fine %.2f", loan.ID, d.isbn, receipt.JoursRetard, receipt.Amende)
	}
}

func clockAt(t time.Time) library.Policy {
	p := library.DefaultPolicy()
	p.Now = func() time.Time { return t }
	return p
}
