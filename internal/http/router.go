package http

import (
	"github.com/gin-gonic/gin"
)

// APIPrefix is prepended to every library route.
const APIPrefix = "/api"

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	var queue Pinger
	if p, ok := cfg.TaskQueue.(Pinger); ok {
		queue = p
	}
	healthController := NewHealthController(cfg.Database, queue, cfg.ReadOnly, cfg.Version)
	router.GET("/health", healthController.Status)

	api := router.Group(APIPrefix)
	api.GET("/health", healthController.Status)
	if cfg.ReadOnly {
		api.Use(readOnlyMiddleware())
	}

	studentsController := NewStudentsController(cfg.Students, cfg.Loans, cfg.Audit)
	api.GET("/etudiants", studentsController.List)
	api.GET("/etudiants/search", studentsController.Search)
	api.GET("/etudiants/:id", studentsController.Get)
	api.GET("/etudiants/:id/emprunts", studentsController.Loans)
	api.POST("/etudiants", studentsController.Create)
	api.PUT("/etudiants/:id", studentsController.Update)
	api.DELETE("/etudiants/:id", studentsController.Delete)

	booksController := NewBooksController(cfg.Books, cfg.Audit)
	api.GET("/livres", booksController.List)
	api.GET("/livres/search", booksController.Search)
	api.GET("/livres/:isbn", booksController.Get)
	api.POST("/livres", booksController.Create)
	api.PUT("/livres/:isbn", booksController.Update)
	api.DELETE("/livres/:isbn", booksController.Delete)

	loansController := NewLoansController(cfg.Loans, cfg.Audit)
	api.GET("/emprunts", loansController.List)
	api.GET("/emprunts/en-cours", loansController.ListOutstanding)
	api.GET("/emprunts/en-retard", loansController.ListOverdue)
	api.GET("/emprunts/:id", loansController.Get)
	api.POST("/emprunts", loansController.Create)
	api.POST("/emprunts/:id/retourner", loansController.Return)
	api.DELETE("/emprunts/:id", loansController.Delete)

	statsController := NewStatsController(cfg.Stats)
	api.GET("/stats/overview", statsController.Overview)
	api.GET("/stats/top-etudiants", statsController.TopStudents)
	api.GET("/stats/top-livres", statsController.TopBooks)

	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/status/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

// corsMiddleware lets a browser front end served from another origin call the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
