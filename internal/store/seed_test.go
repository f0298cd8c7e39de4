package store_test

import (
	"context"
	"testing"
	"time"

	"bugtracker-api/internal/models"
	"bugtracker-api/internal/store"
	"bugtracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestSeedIfEmpty(t *testing.T) {
	s, err := testutil.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	ctx := context.Background()

	require.NoError(t, store.SeedIfEmpty(ctx, s, models.SeedTasks(time.Now())))

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// seed tasks carry no creator
	for _, task := range tasks {
		require.Empty(t, task.CreatedBy)
		require.Equal(t, models.StatusOpen, task.Status)
	}

	// idempotent: a non-empty store is left alone
	require.NoError(t, store.SeedIfEmpty(ctx, s, models.SeedTasks(time.Now())))
	tasks, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}
