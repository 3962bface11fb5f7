package server

import (
	"github.com/labstack/echo/v4"

	"kgeval/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Evaluation routes
	apiRoutes.GET("/evaluations", routes.GetEvaluationsHandler)
	apiRoutes.POST("/evaluations", routes.CreateEvaluationHandler)
	apiRoutes.GET("/evaluations/:id", routes.GetEvaluationHandler)
	apiRoutes.GET("/evaluations/:id/report", routes.GetEvaluationReportHandler)
}
