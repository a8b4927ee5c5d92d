package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/jaroslaw-weber/finbot-server/cmd/api"
	"github.com/jaroslaw-weber/finbot-server/cmd/models"
	"github.com/jaroslaw-weber/finbot-server/config"
	"github.com/jaroslaw-weber/finbot-server/db"
)

func main() {
	setupLogger()

	// Check for command-line arguments
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "clear-db":
			runDatabaseClear()
			return
		default:
			charmlog.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	// Start the server
	startServer()
}

func setupLogger() {
	logger := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "finbot",
	})
	slog.SetDefault(slog.New(logger))
}

func openStorage() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load(slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	DB, err := db.NewStorage(cfg.DBUrl, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database initialization error: %w", err)
	}

	return DB, cfg, nil
}

func runMigrations() {
	DB, _, err := openStorage()
	if err != nil {
		charmlog.Fatal(err)
	}
	defer closeStorage(DB)
	slog.Info("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		charmlog.Fatalf("Migration error: %v", err)
	}
	slog.Info("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {
	slog.Info("Migrating Transaction table...")
	if err := DB.AutoMigrate(&models.Transaction{}); err != nil {
		return fmt.Errorf("error migrating Transaction table: %w", err)
	}
	slog.Info("Transaction migration successful")
	return nil
}

func startServer() {
	DB, cfg, err := openStorage()
	if err != nil {
		charmlog.Fatal(err)
	}
	defer closeStorage(DB)
	slog.Info("Connected to the database")

	// The schema is tiny, so the server migrates on boot as well.
	if err := performMigrations(DB); err != nil {
		charmlog.Fatalf("Migration error: %v", err)
	}

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	server := api.NewApiServer(":"+cfg.ServerPort, DB, cfg)

	go func() {
		if err := server.Run(); err != nil {
			charmlog.Fatalf("Server error: %v", err)
		}
	}()
	slog.Info("Server running", "port", cfg.ServerPort)

	<-quit
	slog.Info("Shutting down server...")
}

func runDatabaseClear() {
	DB, _, err := openStorage()
	if err != nil {
		charmlog.Fatal(err)
	}
	defer closeStorage(DB)

	slog.Info("Preparing to clear database...")

	var confirmation string
	fmt.Print("Are you sure you want to drop the transactions table? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		slog.Info("Database clearing cancelled.")
		return
	}

	if err := DB.Migrator().DropTable(&models.Transaction{}); err != nil {
		charmlog.Fatalf("Error clearing database: %v", err)
	}

	slog.Info("Database cleared successfully")
}

func closeStorage(DB *gorm.DB) {
	sqlDB, _ := DB.DB()
	sqlDB.Close()
	slog.Info("Database connection closed")
}
