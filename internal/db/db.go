package db

import (
	"fmt"
	"log"
	"strings"

	"lireddit/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by databaseURL. URLs starting with
// postgres:// or postgresql:// use Postgres, sqlite:// uses the pure Go
// sqlite driver.
func Open(databaseURL, logLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isSQLite := false

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dsn := strings.TrimPrefix(databaseURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		isSQLite = true
		log.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL %q: must start with postgres:// or sqlite://", databaseURL)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// sqlite allows a single writer; one connection also keeps :memory: databases alive
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Println("Database connection established")
	return gdb, nil
}

// Migrate creates or updates the user, post and updoot tables.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Updoot{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
