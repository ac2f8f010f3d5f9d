package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogChange records a create, update or delete of a catalog entity.
func (s *Service) LogChange(eventType entities.AuditEventType, entityType, key, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: description,
		EntityType:  entityType,
		EntityKey:   key,
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)
	s.LogAsync(event)
}

// LogLoan records a new loan.
func (s *Service) LogLoan(loanKey string, studentID uint, isbn string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventLoan,
		Action:      "loan_create",
		Description: "Book " + isbn + " lent",
		EntityType:  "loan",
		EntityKey:   loanKey,
		Status:      entities.AuditStatusSuccess,
	}
	setMetadata(event, map[string]any{
		"etudiant_id": studentID,
		"livre_id":    isbn,
	})
	s.LogAsync(event)
}

// LogReturn records a returned loan with its lateness and fine.
func (s *Service) LogReturn(loanKey string, receipt *entities.ReturnReceipt) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReturn,
		Action:      "loan_return",
		Description: receipt.Message,
		EntityType:  "loan",
		EntityKey:   loanKey,
		Status:      entities.AuditStatusSuccess,
	}
	setMetadata(event, map[string]any{
		"jours_retard": receipt.JoursRetard,
		"amende":       receipt.Amende,
	})
	s.LogAsync(event)
}

// LogOverdueScan records the outcome of a periodic overdue scan.
func (s *Service) LogOverdueScan(overdue int, totalFines float64, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventOverdueScan,
		Action:      "overdue_scan",
		Description: "Periodic overdue loan scan",
		EntityType:  "loan",
		Status:      entities.AuditStatusSuccess,
	}
	setMetadata(event, map[string]any{
		"overdue":     overdue,
		"total_fines": totalFines,
	})
	markFailed(event, err)
	s.LogAsync(event)
}

func (s *Service) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the retention period.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func setMetadata(event *entities.AuditEvent, metadata map[string]any) {
	if data, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(data)
	}
}

func markFailed(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), maxErrorLen)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
