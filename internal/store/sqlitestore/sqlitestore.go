// Package sqlitestore is the local durable backend: a single sqlite table
// managed through gorm. glebarez/sqlite is a pure Go driver, no CGO.
// Change propagation is in-process: every mutation re-reads the table and
// pushes the snapshot to subscribers.
package sqlitestore

import (
	"context"
	"errors"
	"time"

	"bugtracker-api/internal/models"
	"bugtracker-api/internal/store"
	"bugtracker-api/internal/taskerr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the sqlite-backed task store.
type Store struct {
	store.Broadcaster
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, taskerr.Persistence("open sqlite store", err)
	}
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return nil, taskerr.Persistence("migrate sqlite store", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, taskerr.Persistence("list tasks", err)
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, taskerr.ErrNotFound
		}
		return models.Task{}, taskerr.Persistence("fetch task", err)
	}
	return task, nil
}

func (s *Store) Create(ctx context.Context, task models.Task) (models.Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt == "" {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.TimeLogs == nil {
		task.TimeLogs = models.TimeLogs{}
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, taskerr.Persistence("create task", err)
	}
	s.publish(ctx)
	return task, nil
}

func (s *Store) Update(ctx context.Context, id string, patch models.TaskPatch) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return taskerr.ErrNotFound
			}
			return taskerr.Persistence("fetch task", err)
		}
		patch.Apply(&task)
		task.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		if err := tx.Save(&task).Error; err != nil {
			return taskerr.Persistence("update task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return taskerr.Persistence("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return taskerr.ErrNotFound
	}
	s.publish(ctx)
	return nil
}

func (s *Store) AppendTimeLog(ctx context.Context, id string, entry models.TimeLog) error {
	// single-row transaction: ledger append and running total move together
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return taskerr.ErrNotFound
			}
			return taskerr.Persistence("fetch task", err)
		}
		task.TimeLogs = append(task.TimeLogs, entry)
		task.TimeSpentSeconds += entry.Seconds
		task.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		if err := tx.Save(&task).Error; err != nil {
			return taskerr.Persistence("append time log", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) publish(ctx context.Context) {
	if tasks, err := s.List(ctx); err == nil {
		s.Emit(tasks)
	}
}
