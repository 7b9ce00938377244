package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/benedevries-code/lea-kalender/internal/adapters/repository"
	"github.com/benedevries-code/lea-kalender/internal/application/services"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/database"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/server"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Bruno Kalender API server",
		Long:  "Start the API server with the configured storage backend and all routes",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands. Only
// the Postgres backend needs migrations; Redis and file stores have no
// schema.
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands (postgres driver only)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	var all bool

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the calendar record",
		Long:  "Replace the stored calendar record with the empty shape; with --all also wipe the credential store",
		Run: func(cmd *cobra.Command, args []string) {
			runReset(all)
		},
	}

	resetCmd.Flags().BoolVar(&all, "all", false, "Also wipe the credential store")
	return resetCmd
}

// NewCleanupCommand creates the cleanup command
func NewCleanupCommand() *cobra.Command {
	var name string

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove one person's entries and helper claims",
		Run: func(cmd *cobra.Command, args []string) {
			runCleanup(name)
		},
	}

	cleanupCmd.Flags().StringVar(&name, "name", "", "Person to remove (defaults to the configured cleanup target)")
	return cleanupCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Bruno Kalender version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Bruno Kalender v1.0.0")
		},
	}
}

// buildStore selects the key-value backend once, per configuration.
func buildStore(cfg *config.Config, appLogger *logger.Logger) (ports.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		return repository.NewRedisStore(cfg.Redis, appLogger)
	case config.DriverPostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(db), nil
	default:
		return repository.NewFileStore(cfg.Storage.DataDir)
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store, err := buildStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", "error", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Bruno Kalender API server",
		"port", cfg.Server.Port,
		"storage_driver", cfg.Storage.Driver,
		"environment", cfg.App.Environment,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Info("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func runMigration(direction string) {
	m := newMigrator()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	m := newMigrator()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func newMigrator() *migrate.Migrate {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	return m
}

func runReset(all bool) {
	cfg, appLogger, store := mustStore()
	defer store.Close()

	repo := repository.NewCalendarRepository(store, cfg.Storage.Keys, appLogger)
	calendarService := services.NewCalendarService(repo, cfg.Calendar, appLogger)

	ctx := context.Background()
	if !calendarService.Reset(ctx) {
		log.Fatal("Failed to reset calendar record")
	}
	fmt.Println("Calendar record cleared")

	if all {
		authService := services.NewAuthService(repo, cfg.JWT, cfg.Calendar, appLogger)
		if !authService.ResetCredentials(ctx) {
			log.Fatal("Failed to reset credential store")
		}
		fmt.Println("Credential store cleared")
	}
}

func runCleanup(name string) {
	cfg, appLogger, store := mustStore()
	defer store.Close()

	repo := repository.NewCalendarRepository(store, cfg.Storage.Keys, appLogger)
	calendarService := services.NewCalendarService(repo, cfg.Calendar, appLogger)

	result, err := calendarService.Cleanup(context.Background(), name)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	fmt.Printf("Deleted betreuung entries: %d\n", result.DeletedBetreuung)
	fmt.Printf("Cleared helper claims:    %d\n", result.ClearedLeaHelpers)
}

func mustStore() (*config.Config, *logger.Logger, ports.KeyValueStore) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	store, err := buildStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	return cfg, appLogger, store
}
