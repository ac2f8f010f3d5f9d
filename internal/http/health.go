package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Mode    string            `json:"mode"`
	Checks  map[string]string `json:"checks"`
}

// Pinger is anything whose connection can be probed, such as the task queue.
type Pinger interface {
	Ping() error
}

// HealthController reports on the library database and, when background
// tasks run, on the queue database beside it.
type HealthController struct {
	db       *database.Database
	queue    Pinger
	readOnly bool
	version  string
}

func NewHealthController(db *database.Database, queue Pinger, readOnly bool, version string) *HealthController {
	return &HealthController{db: db, queue: queue, readOnly: readOnly, version: version}
}

// pingResult maps a ping result to its report line. A failure makes the server unhealthy.
func pingResult(err error) (string, bool) {
	if err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{"database": "not configured", "task_queue": "disabled"}
	healthy := true

	if h.db != nil {
		var ok bool
		checks["database"], ok = pingResult(h.db.Ping())
		healthy = healthy && ok
	}
	if h.queue != nil {
		var ok bool
		checks["task_queue"], ok = pingResult(h.queue.Ping())
		healthy = healthy && ok
	}

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Mode:    "read-write",
		Checks:  checks,
	}
	if h.readOnly {
		resp.Mode = "read-only"
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}
