package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/tasks"
)

// DefaultAuditCleanupSchedule runs the audit retention cleanup nightly.
const DefaultAuditCleanupSchedule = "30 3 * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer puts a task on the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

type Config struct {
	OverdueScanEnabled   bool
	OverdueScanSchedule  string
	AuditCleanupSchedule string
	AuditRetentionDays   int
}

// Scheduler enqueues the periodic library maintenance tasks.
// Work runs on the task queue; the scheduler only decides when.
type Scheduler struct {
	queue  Enqueuer
	config Config

	cron      *cron.Cron
	entries   map[string]cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func New(queue Enqueuer, cfg Config) *Scheduler {
	if cfg.AuditCleanupSchedule == "" {
		cfg.AuditCleanupSchedule = DefaultAuditCleanupSchedule
	}
	return &Scheduler{
		queue:   queue,
		config:  cfg,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start registers the jobs and starts cron. It stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.OverdueScanEnabled {
		if err := s.addJob(tasks.QueueOverdueScan, s.config.OverdueScanSchedule, func() backlite.Task {
			return tasks.OverdueScanTask{TriggeredBy: "scheduler"}
		}); err != nil {
			return err
		}
	} else {
		log.Printf("[SCHEDULER] overdue scan disabled")
	}

	if err := s.addJob(tasks.QueueCleanupAuditEvents, s.config.AuditCleanupSchedule, func() backlite.Task {
		return tasks.CleanupAuditEventsTask{RetentionDays: s.config.AuditRetentionDays}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) addJob(name, schedule string, build func() backlite.Task) error {
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, name, err)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.enqueue(name, build())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.entries[name] = id
	log.Printf("[SCHEDULER] %s scheduled with '%s'", name, schedule)
	return nil
}

func (s *Scheduler) enqueue(name string, task backlite.Task) {
	id, err := s.queue.Enqueue(task)
	if err != nil {
		log.Printf("[SCHEDULER] failed to enqueue %s: %v", name, err)
		return
	}
	log.Printf("[SCHEDULER] enqueued %s (task %s)", name, id)
}

// Stop waits for running cron callbacks and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Printf("[SCHEDULER] stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job fires next, or nil if it is not scheduled.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[name]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

// RunNow enqueues the named job immediately.
func (s *Scheduler) RunNow(name string) error {
	switch name {
	case tasks.QueueOverdueScan:
		s.enqueue(name, tasks.OverdueScanTask{TriggeredBy: "manual"})
	case tasks.QueueCleanupAuditEvents:
		s.enqueue(name, tasks.CleanupAuditEventsTask{RetentionDays: s.config.AuditRetentionDays})
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}
