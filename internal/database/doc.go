// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations
//	├── errors.go        # Domain errors and driver error classification
//	├── students/        # Student CRUD and referential checks
//	├── books/           # Book CRUD, available-copy bookkeeping
//	├── loans/           # Loan lifecycle: create, return, delete, filtered lists
//	├── stats/           # Aggregate statistics
//	└── audit/           # Audit event storage
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./library.db")
//
//	studentsRepo := students.NewRepository(db.DB)
//	loansRepo := loans.NewRepository(db.DB, library.DefaultPolicy())
//
//	loan, err := loansRepo.Create(studentID, "978-2070360024")
//
// # Consistency
//
// Operations that touch more than one table (creating or returning a loan)
// run inside a single gorm transaction. The decrement of available copies is
// guarded in SQL so that a book never drops below zero copies even when two
// loans race for the last copy.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
