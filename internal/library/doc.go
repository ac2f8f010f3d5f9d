// Package library holds the business rules shared by the server and the client:
// the loan policy (due dates, days late, fines), the loan status label, catalog
// validation and the client-side loan search.
//
// Nothing in this package performs I/O. Time is read through Policy.Now so that
// fines can be computed against a fixed clock in tests.
package library
