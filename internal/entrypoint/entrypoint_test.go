package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/config"
)

func testConfig(t *testing.T, tasksEnabled bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Database:    config.Database{Driver: "sqlite", Path: filepath.Join(dir, "library.db")},
		Loans:       config.Loans{DurationDays: 14, FinePerDay: 0.5, MaxActiveLoans: 5},
		Audit:       config.Audit{RetentionDays: 90},
		Tasks:       config.Tasks{Enabled: tasksEnabled, DBPath: filepath.Join(dir, "tasks.db"), Workers: 1},
		OverdueScan: config.OverdueScan{Enabled: true, Schedule: "0 8 * * *"},
	}
}

func TestNewApp_ServesAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(testConfig(t, true), "test")
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Start())
	assert.True(t, app.Scheduler.IsRunning())

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"task_queue": "ok"`)

	w = httptest.NewRecorder()
	body := strings.NewReader(`{"nom":"Dupont","prenom":"Marie","email":"m.dupont@test.fr"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/etudiants", body)
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/types", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Shutdown(ctx)
	assert.False(t, app.Scheduler.IsRunning())
}

func TestNewApp_WithoutTasks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(testConfig(t, false), "test")
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Tasks)
	require.NoError(t, app.Start())

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/types", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	app.Shutdown(context.Background())
}

func TestNewApp_RejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Database.Driver = "mysql"

	_, err := NewApp(cfg, "test")
	assert.Error(t, err)
}
