package sqlitestore

import (
	"context"
	"testing"

	"bugtracker-api/internal/models"
	"bugtracker-api/internal/taskerr"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Task{Title: "Fix bug", Assignee: "Rupali"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.CreatedAt)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Fix bug", got.Title)
}

func TestGet_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, taskerr.ErrNotFound)
}

func TestUpdateAppliesPatchAndStampsUpdatedAt(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Task{Title: "Fix bug", Status: models.StatusOpen})
	require.NoError(t, err)

	status := models.StatusPendingApproval
	pending := true
	err = s.Update(ctx, created.ID, models.TaskPatch{Status: &status, PendingApproval: &pending})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPendingApproval, got.Status)
	require.True(t, got.PendingApproval)
	// title untouched by a partial patch
	require.Equal(t, "Fix bug", got.Title)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Task{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Get(ctx, created.ID)
	require.ErrorIs(t, err, taskerr.ErrNotFound)

	require.ErrorIs(t, s.Delete(ctx, created.ID), taskerr.ErrNotFound)
}

func TestAppendTimeLog_LedgerAndTotalMoveTogether(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Task{Title: "Fix bug", Assignee: "Rupali"})
	require.NoError(t, err)

	entries := []models.TimeLog{
		{By: "Rupali", Seconds: 5400, Note: "debugging", At: "2025-01-10T09:00:00Z"},
		{By: "Rupali", Seconds: 600, Note: "review", At: "2025-01-10T11:00:00Z"},
	}
	for _, e := range entries {
		require.NoError(t, s.AppendTimeLog(ctx, created.ID, e))
	}

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.TimeLogs, 2)

	sum := 0
	for _, e := range got.TimeLogs {
		sum += e.Seconds
	}
	require.Equal(t, sum, got.TimeSpentSeconds)
	// insertion order preserved
	require.Equal(t, "debugging", got.TimeLogs[0].Note)
}

func TestSubscribe_DeliversSnapshotsToAllClients(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	// two subscribed clients; client A mutates, client B sees it without
	// issuing any request
	var clientA, clientB [][]models.Task
	unsubA := s.Subscribe(func(snapshot []models.Task) { clientA = append(clientA, snapshot) })
	defer unsubA()
	unsubB := s.Subscribe(func(snapshot []models.Task) { clientB = append(clientB, snapshot) })

	created, err := s.Create(ctx, models.Task{Title: "Fix bug", Status: models.StatusOpen})
	require.NoError(t, err)
	require.Len(t, clientB, 1)
	require.Equal(t, created.ID, clientB[0][0].ID)

	status := models.StatusPendingApproval
	pending := true
	require.NoError(t, s.Update(ctx, created.ID, models.TaskPatch{Status: &status, PendingApproval: &pending}))

	require.Len(t, clientB, 2)
	require.Equal(t, models.StatusPendingApproval, clientB[1][0].Status)
	require.Len(t, clientA, 2)

	// unsubscribed clients stop receiving
	unsubB()
	require.NoError(t, s.Delete(ctx, created.ID))
	require.Len(t, clientB, 2)
	require.Len(t, clientA, 3)
	require.Empty(t, clientA[2])
}
