package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

const QueueOverdueScan = "overdue_scan"

// OverdueLister lists loans for a filter with lateness computed against today.
type OverdueLister interface {
	List(filter library.LoanFilter) ([]entities.LoanView, error)
}

// ScanRecorder persists the result of a scan.
type ScanRecorder interface {
	LogOverdueScan(overdue int, totalFines float64, err error)
}

// OverdueScanTask walks outstanding loans and reports the ones past due.
// It never modifies loans: fines are only charged when a book comes back.
type OverdueScanTask struct {
	TriggeredBy string `json:"triggered_by,omitempty"`
}

func (t OverdueScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueOverdueScan,
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration: 7 * 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScanResult summarizes the overdue loans found by a scan.
type ScanResult struct {
	Overdue    int
	TotalFines float64
	Students   int
}

// ScanOverdue computes the summary without side effects.
func ScanOverdue(lister OverdueLister) (ScanResult, error) {
	loans, err := lister.List(library.FilterOverdue)
	if err != nil {
		return ScanResult{}, fmt.Errorf("list overdue loans: %w", err)
	}

	students := make(map[uint]struct{})
	var result ScanResult
	for _, loan := range loans {
		result.Overdue++
		result.TotalFines += loan.Amende
		students[loan.EtudiantID] = struct{}{}
	}
	result.Students = len(students)
	return result, nil
}

func OverdueScanProcessor(lister OverdueLister, recorder ScanRecorder) backlite.QueueProcessor[OverdueScanTask] {
	return func(ctx context.Context, task OverdueScanTask) error {
		if lister == nil {
			return fmt.Errorf("loan lister not configured")
		}

		result, err := ScanOverdue(lister)
		if recorder != nil {
			recorder.LogOverdueScan(result.Overdue, result.TotalFines, err)
		}
		if err != nil {
			return err
		}

		log.Printf("[TASK] Overdue scan: %d loans late across %d students, %.2f in pending fines",
			result.Overdue, result.Students, result.TotalFines)
		return nil
	}
}

func NewOverdueScanQueue(lister OverdueLister, recorder ScanRecorder) backlite.Queue {
	return backlite.NewQueue(OverdueScanProcessor(lister, recorder))
}
