package router

import (
	"bimtrack/app/handler"
	"bimtrack/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	reportHandler  *handler.ReportHandler
	subtaskHandler *handler.SubtaskHandler
	adminHandler   *handler.AdminHandler
}

// NewRouter creates a new Router
func NewRouter(reportHandler *handler.ReportHandler, subtaskHandler *handler.SubtaskHandler, adminHandler *handler.AdminHandler) *Router {
	return &Router{
		reportHandler:  reportHandler,
		subtaskHandler: subtaskHandler,
		adminHandler:   adminHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// V1 API - read paths and the commit
	v1 := engine.Group("/v1")
	{
		reports := v1.Group("/reports/:employee_id")
		{
			reports.GET("/entries", r.reportHandler.History)
			reports.GET("/days/:date", r.reportHandler.Day)
			reports.GET("/days/:date/options", r.reportHandler.DayOptions)
			reports.GET("/days/:date/access", r.reportHandler.DayAccess)
			reports.POST("/commit", r.reportHandler.Commit)
		}

		v1.GET("/subtasks/:subtask_id", r.subtaskHandler.Get)
		v1.GET("/tasks/:task_id", r.subtaskHandler.GetTask)
		v1.GET("/tasks/:task_id/subtasks", r.subtaskHandler.ListTaskSubtasks)
	}

	// Management API - authenticated mutations and repair operations
	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/subtasks", r.subtaskHandler.Create)
		api.DELETE("/subtasks/:subtask_id", r.subtaskHandler.Delete)
		api.POST("/subtasks/:subtask_id/reaggregate", r.adminHandler.Reaggregate)
		api.POST("/cache/invalidate", r.adminHandler.InvalidateCache)
	}
}
