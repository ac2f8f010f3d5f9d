package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	store StatsStore
}

func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{store: store}
}

// GET /api/stats/overview
func (sc *StatsController) Overview(c *gin.Context) {
	overview, err := sc.store.Overview()
	if err != nil {
		respondInternalError(c, err, "stats overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GET /api/stats/top-etudiants
func (sc *StatsController) TopStudents(c *gin.Context) {
	rows, err := sc.store.TopStudents()
	if err != nil {
		respondInternalError(c, err, "top students")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /api/stats/top-livres
func (sc *StatsController) TopBooks(c *gin.Context) {
	rows, err := sc.store.TopBooks()
	if err != nil {
		respondInternalError(c, err, "top books")
		return
	}
	c.JSON(http.StatusOK, rows)
}
