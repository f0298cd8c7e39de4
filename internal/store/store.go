// Package store defines the backend-agnostic persistence contract for the
// task set. All engine logic above this interface operates on in-memory
// snapshots; the backend-assigned document handle never leaks past a
// backend package, and the task's own id is the only addressing key.
package store

import (
	"context"

	"bugtracker-api/internal/models"
)

// Store is the uniform task persistence surface. Subscribers receive the
// full current snapshot after every mutation, including (where the backend
// can signal them) mutations made by other processes.
type Store interface {
	// List returns the full current task set.
	List(ctx context.Context) ([]models.Task, error)

	// Get returns one task by id, or taskerr.ErrNotFound.
	Get(ctx context.Context, id string) (models.Task, error)

	// Create persists the task, assigning its id and timestamps, and
	// returns the stored record.
	Create(ctx context.Context, task models.Task) (models.Task, error)

	// Update applies the set fields of the patch and refreshes updatedAt.
	Update(ctx context.Context, id string, patch models.TaskPatch) error

	// Delete removes the task.
	Delete(ctx context.Context, id string) error

	// AppendTimeLog appends one ledger entry and increments
	// timeSpentSeconds by the same amount in a single persisted write, so
	// a partial failure cannot desynchronize the two.
	AppendTimeLog(ctx context.Context, id string, entry models.TimeLog) error

	// Subscribe registers fn to receive the full snapshot on every change.
	// The returned function unsubscribes.
	Subscribe(fn func(snapshot []models.Task)) (unsubscribe func())

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// SeedIfEmpty loads the fixture tasks into an empty store.
func SeedIfEmpty(ctx context.Context, s Store, seed []models.Task) error {
	tasks, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		return nil
	}
	for _, t := range seed {
		if _, err := s.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
