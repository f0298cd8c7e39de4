// Package mongostore is the remote document backend: one mongo collection
// holding the task set. Updates address whole documents by the task id
// field, never by _id, and the ledger append is a single UpdateOne so the
// entry and the running total cannot desynchronize.
//
// Cross-client propagation uses a change stream where the deployment
// supports one (replica sets); local mutations additionally publish
// in-process so a standalone server still fans out its own writes.
package mongostore

import (
	"context"
	"log"
	"time"

	"bugtracker-api/internal/models"
	"bugtracker-api/internal/store"
	"bugtracker-api/internal/taskerr"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const collectionName = "tasks"

// Store is the mongo-backed task store.
type Store struct {
	store.Broadcaster
	cli      *mongo.Client
	database string
	logger   *log.Logger

	watchCancel context.CancelFunc
}

// Open connects to the deployment at uri and pings it.
func Open(ctx context.Context, uri, database string, logger *log.Logger) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, taskerr.Persistence("connect mongo", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, taskerr.Persistence("ping mongo", err)
	}

	s := &Store{cli: cli, database: database, logger: logger}
	s.startWatch()
	return s, nil
}

func (s *Store) collection() *mongo.Collection {
	return s.cli.Database(s.database).Collection(collectionName)
}

func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, taskerr.Persistence("list tasks", err)
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, taskerr.Persistence("decode tasks", err)
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.collection().FindOne(ctx, bson.M{"id": id}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
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
	if _, err := s.collection().InsertOne(ctx, task); err != nil {
		return models.Task{}, taskerr.Persistence("create task", err)
	}
	s.publish(ctx)
	return task, nil
}

func (s *Store) Update(ctx context.Context, id string, patch models.TaskPatch) error {
	fields := patch.Fields()
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	res, err := s.collection().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return taskerr.Persistence("update task", err)
	}
	if res.MatchedCount == 0 {
		return taskerr.ErrNotFound
	}
	s.publish(ctx)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return taskerr.Persistence("delete task", err)
	}
	if res.DeletedCount == 0 {
		return taskerr.ErrNotFound
	}
	s.publish(ctx)
	return nil
}

func (s *Store) AppendTimeLog(ctx context.Context, id string, entry models.TimeLog) error {
	update := bson.M{
		"$push": bson.M{"timeLogs": entry},
		"$inc":  bson.M{"timeSpentSeconds": entry.Seconds},
		"$set":  bson.M{"updatedAt": time.Now().UTC().Format(time.RFC3339)},
	}
	res, err := s.collection().UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return taskerr.Persistence("append time log", err)
	}
	if res.MatchedCount == 0 {
		return taskerr.ErrNotFound
	}
	s.publish(ctx)
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.watchCancel != nil {
		s.watchCancel()
	}
	return s.cli.Disconnect(ctx)
}

func (s *Store) publish(ctx context.Context) {
	if tasks, err := s.List(ctx); err == nil {
		s.Emit(tasks)
	}
}

// startWatch opens a change stream so writes from other clients reach our
// subscribers too. Standalone deployments reject Watch; those fall back to
// in-process propagation only.
func (s *Store) startWatch() {
	ctx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	stream, err := s.collection().Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if s.logger != nil {
			s.logger.Println("change stream unavailable, in-process propagation only:", err)
		}
		return
	}

	go func() {
		defer stream.Close(ctx)
		for stream.Next(ctx) {
			s.publish(ctx)
		}
	}()
}
