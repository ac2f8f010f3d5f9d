// Package views holds the screen state of the library front end: what each
// page shows, which modal is open, pending confirmations and alerts.
//
// Screens call the API synchronously and move between explicit states. They
// are not safe for concurrent use; a UI drives one screen from one goroutine.
package views
