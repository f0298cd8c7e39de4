package views

import (
	"testing"
	"time"

	"bugtracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestFilterStatus(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Status: models.StatusOpen},
		{ID: "b", Status: models.StatusPendingApproval},
		{ID: "c", Status: models.StatusClosed},
	}

	require.Len(t, FilterStatus(tasks, ""), 3)
	require.Equal(t, "a", FilterStatus(tasks, "Open")[0].ID)

	// the synthetic "Pending" filter maps to Pending Approval
	pending := FilterStatus(tasks, StatusFilterPending)
	require.Len(t, pending, 1)
	require.Equal(t, "b", pending[0].ID)
}

func TestSortTasks_Priority(t *testing.T) {
	tasks := []models.Task{
		{ID: "low", Priority: models.PriorityLow},
		{ID: "high", Priority: models.PriorityHigh},
		{ID: "med", Priority: models.PriorityMedium},
	}

	sorted := SortTasks(tasks, SortPriority)
	require.Equal(t, []string{"high", "med", "low"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	// input untouched
	require.Equal(t, "low", tasks[0].ID)
}

func TestSortTasks_RecentFallsBackToCreatedAt(t *testing.T) {
	tasks := []models.Task{
		{ID: "old", StartDate: "2025-01-01"},
		{ID: "new", StartDate: "2025-03-01"},
		{ID: "created", CreatedAt: "2025-02-01T00:00:00Z"},
	}

	sorted := SortTasks(tasks, SortRecent)
	require.Equal(t, []string{"new", "created", "old"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "past-open", DueDate: "2025-06-01", Status: models.StatusOpen},
		{ID: "past-closed", DueDate: "2025-06-01", Status: models.StatusClosed},
		{ID: "future", DueDate: "2025-07-01", Status: models.StatusOpen},
		{ID: "no-due", Status: models.StatusOpen},
	}

	overdue := Overdue(tasks, now)
	require.Len(t, overdue, 1)
	require.Equal(t, "past-open", overdue[0].ID)
}

func TestPendingApproval(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Status: models.StatusPendingApproval},
		{ID: "b", Status: models.StatusOpen},
	}
	pending := PendingApproval(tasks)
	require.Len(t, pending, 1)
	require.Equal(t, "a", pending[0].ID)
}

func TestActivitySeries(t *testing.T) {
	tasks := []models.Task{
		{StartDate: "2025-01-10", Status: models.StatusOpen},
		{StartDate: "2025-01-10T09:00:00Z", Status: models.StatusInProgress},
		{StartDate: "2025-01-10", Status: models.StatusClosed},
		{StartDate: "2025-01-05", Status: models.StatusOpen},
		{CreatedAt: "2025-01-08T00:00:00Z", Status: models.StatusOpen},
	}

	series := ActivitySeries(tasks)
	require.Equal(t, []ActivityPoint{
		{Date: "2025-01-05", Active: 1},
		{Date: "2025-01-08", Active: 1},
		{Date: "2025-01-10", Active: 2},
	}, series)
}

func TestActivitySeries_ClosedOnlyBucketKept(t *testing.T) {
	series := ActivitySeries([]models.Task{
		{StartDate: "2025-01-10", Status: models.StatusClosed},
	})
	require.Equal(t, []ActivityPoint{{Date: "2025-01-10", Active: 0}}, series)
}
