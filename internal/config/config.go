package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/library/internal/library"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Loans
		API
		Audit
		Tasks
		OverdueScan
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		ReadOnly                 bool
	}
	Database struct {
		Driver string // "sqlite" (default) or "postgres"
		Path   string // SQLite file
		DSN    string // PostgreSQL connection string
	}
	Loans struct {
		DurationDays   int
		FinePerDay     float64
		MaxActiveLoans int
	}
	API struct {
		URL     string // Base URL the CLI client talks to, including the /api prefix
		Timeout time.Duration
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 90)
	}
	Tasks struct {
		Enabled           bool
		DBPath            string
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	OverdueScan struct {
		Enabled  bool
		Schedule string // Cron format: "0 8 * * *" = every day at 08:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("read_only", false)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	v.SetDefault("loan_duration_days", library.DefaultLoanDays)
	v.SetDefault("loan_fine_per_day", library.DefaultFinePerDay)
	v.SetDefault("loan_max_active", library.DefaultMaxActiveLoans)

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("api_timeout", "10s")

	v.SetDefault("audit_retention_days", 90)

	v.SetDefault("overdue_scan_enabled", true)
	v.SetDefault("overdue_scan_schedule", "0 8 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", DefaultTasksDBPath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			ReadOnly:                 v.GetBool("READ_ONLY"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Loans: Loans{
			DurationDays:   v.GetInt("LOAN_DURATION_DAYS"),
			FinePerDay:     v.GetFloat64("LOAN_FINE_PER_DAY"),
			MaxActiveLoans: v.GetInt("LOAN_MAX_ACTIVE"),
		},
		API: API{
			URL:     v.GetString("API_URL"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DBPath:            v.GetString("TASKS_DB_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		OverdueScan: OverdueScan{
			Enabled:  v.GetBool("OVERDUE_SCAN_ENABLED"),
			Schedule: v.GetString("OVERDUE_SCAN_SCHEDULE"),
		},
	}
}

// Policy builds the loan rules from configuration.
func (c *Config) Policy() library.Policy {
	policy := library.DefaultPolicy()
	if c.Loans.DurationDays > 0 {
		policy.LoanDays = c.Loans.DurationDays
	}
	if c.Loans.FinePerDay >= 0 {
		policy.FinePerDay = c.Loans.FinePerDay
	}
	if c.Loans.MaxActiveLoans >= 0 {
		policy.MaxActiveLoans = c.Loans.MaxActiveLoans
	}
	return policy
}
