package config

const (
	DefaultDatabasePath = "./library.db"
	DefaultTasksDBPath  = "./tasks.db"
	DefaultAPIURL       = "http://localhost:8000/api"
)
