package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

type fakeLister struct {
	loans  []entities.LoanView
	err    error
	filter library.LoanFilter
}

func (f *fakeLister) List(filter library.LoanFilter) ([]entities.LoanView, error) {
	f.filter = filter
	return f.loans, f.err
}

type fakeRecorder struct {
	calls   int
	overdue int
	fines   float64
	err     error
}

func (f *fakeRecorder) LogOverdueScan(overdue int, totalFines float64, err error) {
	f.calls++
	f.overdue = overdue
	f.fines = totalFines
	f.err = err
}

type fakeCleaner struct {
	retention time.Duration
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 4, f.err
}

func TestScanOverdue(t *testing.T) {
	lister := &fakeLister{loans: []entities.LoanView{
		{ID: 1, EtudiantID: 1, JoursRetard: 2, Amende: 1},
		{ID: 2, EtudiantID: 1, JoursRetard: 5, Amende: 2.5},
		{ID: 3, EtudiantID: 2, JoursRetard: 1, Amende: 0.5},
	}}

	result, err := ScanOverdue(lister)
	require.NoError(t, err)
	assert.Equal(t, library.FilterOverdue, lister.filter)
	assert.Equal(t, 3, result.Overdue)
	assert.Equal(t, 2, result.Students)
	assert.InDelta(t, 4.0, result.TotalFines, 0.001)
}

func TestOverdueScanProcessor(t *testing.T) {
	t.Run("records the result", func(t *testing.T) {
		lister := &fakeLister{loans: []entities.LoanView{{ID: 1, EtudiantID: 3, Amende: 1.5}}}
		recorder := &fakeRecorder{}

		err := OverdueScanProcessor(lister, recorder)(context.Background(), OverdueScanTask{TriggeredBy: "test"})
		require.NoError(t, err)
		assert.Equal(t, 1, recorder.calls)
		assert.Equal(t, 1, recorder.overdue)
		assert.InDelta(t, 1.5, recorder.fines, 0.001)
	})

	t.Run("records and returns failures", func(t *testing.T) {
		lister := &fakeLister{err: errors.New("db down")}
		recorder := &fakeRecorder{}

		err := OverdueScanProcessor(lister, recorder)(context.Background(), OverdueScanTask{})
		assert.ErrorContains(t, err, "db down")
		assert.Equal(t, 1, recorder.calls)
		assert.Error(t, recorder.err)
	})

	t.Run("nil lister", func(t *testing.T) {
		err := OverdueScanProcessor(nil, nil)(context.Background(), OverdueScanTask{})
		assert.Error(t, err)
	})
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}

	require.NoError(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	require.NoError(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.retention)

	cleaner.err = errors.New("locked")
	assert.Error(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{}))
	assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
}
