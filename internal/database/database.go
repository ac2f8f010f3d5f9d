package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) a SQLite database at dbPath with foreign keys enforced.
func NewDatabase(dbPath string) (*Database, error) {
	return open(sqlite.Open(sqliteDSN(dbPath)), dbPath, logger.Info)
}

// NewPostgresDatabase connects to PostgreSQL using a pgx-compatible DSN.
func NewPostgresDatabase(dsn string) (*Database, error) {
	return open(postgres.Open(dsn), "postgres", logger.Info)
}

// Open selects the driver by name. An empty driver means SQLite.
func Open(driver, path, dsn string) (*Database, error) {
	switch driver {
	case "", DriverSQLite:
		return NewDatabase(path)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		return NewPostgresDatabase(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func open(dialector gorm.Dialector, label string, level logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", label)

	return &Database{DB: db}, nil
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Student{},
		&entities.Book{},
		&entities.Loan{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func sqliteDSN(path string) string {
	for _, param := range []string{"_foreign_keys=on", "_busy_timeout=5000"} {
		key := param[:strings.Index(param, "=")]
		if strings.Contains(path, key) {
			continue
		}
		if strings.Contains(path, "?") {
			path += "&" + param
		} else {
			path += "?" + param
		}
	}
	return path
}
