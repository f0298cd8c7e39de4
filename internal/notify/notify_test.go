package notify

import (
	"testing"

	"bugtracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func assigned(id, created string, manual bool, createdBy string) models.Task {
	return models.Task{
		ID:               id,
		Title:            "Task " + id,
		Assignee:         "Rupali",
		CreatedBy:        createdBy,
		CreatedAt:        created,
		ManuallyAssigned: manual,
	}
}

func TestTracker_FirstSnapshotNeverNotifies(t *testing.T) {
	tr := NewTracker("Rupali")

	n := tr.Observe([]models.Task{assigned("t-1", "2025-01-01T00:00:00Z", true, "Upasana")})
	require.Nil(t, n)
}

func TestTracker_NotifiesOnceForManualAssignment(t *testing.T) {
	tr := NewTracker("Rupali")
	tr.Observe(nil) // baseline

	snapshot := []models.Task{assigned("t-1", "2025-01-02T00:00:00Z", true, "Upasana")}
	n := tr.Observe(snapshot)
	require.NotNil(t, n)
	require.Equal(t, "t-1", n.TaskID)
	require.Equal(t, "Upasana", n.CreatedBy)

	// same task never re-triggers, acknowledged or not
	tr.Acknowledge("t-1")
	require.Nil(t, tr.Observe(snapshot))
}

func TestTracker_IgnoresSelfCreatedAndAutomaticAssignments(t *testing.T) {
	tr := NewTracker("Rupali")
	tr.Observe(nil)

	// self-created
	require.Nil(t, tr.Observe([]models.Task{assigned("t-1", "2025-01-02T00:00:00Z", true, "Rupali")}))

	// not manually assigned
	tr2 := NewTracker("Rupali")
	tr2.Observe(nil)
	require.Nil(t, tr2.Observe([]models.Task{assigned("t-2", "2025-01-02T00:00:00Z", false, "Upasana")}))
}

func TestTracker_RequiresCountIncrease(t *testing.T) {
	tr := NewTracker("Rupali")
	first := []models.Task{assigned("t-1", "2025-01-01T00:00:00Z", true, "Upasana")}
	tr.Observe(first) // baseline of one

	// swap, same count: no growth, no alert
	swapped := []models.Task{assigned("t-2", "2025-01-03T00:00:00Z", true, "Upasana")}
	require.Nil(t, tr.Observe(swapped))
}

func TestTracker_QueuedAssignmentReleasedByAck(t *testing.T) {
	tr := NewTracker("Rupali")
	tr.Observe(nil)

	first := assigned("t-1", "2025-01-02T00:00:00Z", true, "Upasana")
	n := tr.Observe([]models.Task{first})
	require.NotNil(t, n)

	// a second assignment queues behind the outstanding alert instead of
	// being dropped
	second := assigned("t-2", "2025-01-03T00:00:00Z", true, "Upasana")
	require.Nil(t, tr.Observe([]models.Task{first, second}))

	// acknowledging a task that is not outstanding releases nothing
	require.Nil(t, tr.Acknowledge("bogus"))

	next := tr.Acknowledge("t-1")
	require.NotNil(t, next)
	require.Equal(t, "t-2", next.TaskID)

	// nothing left queued
	require.Nil(t, tr.Acknowledge("t-2"))

	third := assigned("t-3", "2025-01-04T00:00:00Z", true, "Upasana")
	n = tr.Observe([]models.Task{first, second, third})
	require.NotNil(t, n)
	require.Equal(t, "t-3", n.TaskID)
}
