package db

import (
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewStorage opens the transactions database. A Postgres connection string
// takes precedence; without one the SQLite file at dbPath is used.
func NewStorage(dbURL, dbPath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dbURL != "" {
		dialector = postgres.Open(dbURL)
	} else {
		slog.Info("DB_URL not set, using SQLite storage", "path", dbPath)
		dialector = sqlite.Open(dbPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)

	sqlDB.SetMaxIdleConns(25)

	return db, nil
}
