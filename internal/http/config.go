package http

import (
	"github.com/mrlokans/library/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Repositories
	Students StudentStore
	Books    BookStore
	Loans    LoanStore
	Stats    StatsStore

	// Database handle for health checks
	Database *database.Database

	// Audit trail (optional)
	Audit       AuditRecorder
	AuditReader AuditReader

	// Task queue (optional)
	TaskQueue          TaskQueue
	AuditRetentionDays int

	// Reject every write with 403, e.g. when serving the demo database
	ReadOnly bool

	// Application info
	Version string
}
