package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"bugtracker-api/internal/config"
	"bugtracker-api/internal/handlers"
	"bugtracker-api/internal/models"
	"bugtracker-api/internal/realtime"
	"bugtracker-api/internal/routes"
	"bugtracker-api/internal/store"
	"bugtracker-api/internal/store/mongostore"
	"bugtracker-api/internal/store/sqlitestore"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "bugtracker",
		Short:   "Bug/Task Tracker - two-role task lifecycle and sync service",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringP("config", "c", "config.yaml", "Path to the YAML config file")

	return cmd
}

// openStore mounts the configured backend behind the store interface. The
// selection happens here once; nothing downstream knows which backend runs.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		return mongostore.Open(ctx, cfg.Store.Mongo.URI, cfg.Store.Mongo.Database, log.Default())
	default:
		return sqlitestore.Open(cfg.Store.SQLite.Path)
	}
}

func serve(cfg *config.Config) error {
	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	log.Printf("Store backend %q ready", cfg.Store.Backend)

	if cfg.Seed {
		if err := store.SeedIfEmpty(ctx, st, models.SeedTasks(time.Now())); err != nil {
			return err
		}
	}

	hub := realtime.NewHub()
	taskHandler := handlers.NewTaskHandler(st)

	// Single source of truth: every mutation re-delivers the full snapshot,
	// which refreshes all clients and drops memoized views.
	unsubscribe := st.Subscribe(func(snapshot []models.Task) {
		taskHandler.InvalidateDerived()
		hub.Publish(snapshot)
	})
	defer unsubscribe()

	ginRoutes := routes.SetupRoutes(routes.Handlers{
		Auth:  handlers.NewAuthHandler(cfg.Users),
		Users: handlers.NewUserHandler(cfg.Users),
		Tasks: taskHandler,
		WS:    handlers.NewWSHandler(hub, st),
	})

	log.Printf("Server starting on %s", cfg.Listen)
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/tasks")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  POST   /api/tasks/:id/close")
	log.Println("  POST   /api/tasks/:id/approve")
	log.Println("  POST   /api/tasks/:id/reopen")
	log.Println("  POST   /api/tasks/:id/time")
	log.Println("  GET    /api/tasks/overdue")
	log.Println("  GET    /api/tasks/pending")
	log.Println("  GET    /api/tasks/activity")
	log.Println("  GET    /api/users")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	return ginRoutes.Run(cfg.Listen)
}
