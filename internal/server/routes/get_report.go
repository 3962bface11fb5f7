package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"kgeval/internal/server/middleware"
	"kgeval/pkg/logger"
	"kgeval/pkg/report"
	"kgeval/pkg/store"
)

// GetEvaluationReportHandler renders a finished run's result in the requested
// format (json, markdown, or html).
func GetEvaluationReportHandler(c echo.Context) error {
	type getReportResponse struct {
		Message string `json:"message"`
	}

	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, getReportResponse{
			Message: "Missing run ID",
		})
	}

	formatName := c.QueryParam("format")
	if formatName == "" {
		formatName = string(report.FormatJSON)
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return c.JSON(http.StatusBadRequest, getReportResponse{
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	run, err := app.Store.GetRun(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, getReportResponse{
				Message: "Evaluation run not found",
			})
		}
		logger.Error("Failed to get evaluation run", "run_id", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getReportResponse{
			Message: "Internal server error",
		})
	}

	if run.Status != store.StatusCompleted || run.Result == nil {
		return c.JSON(http.StatusConflict, getReportResponse{
			Message: "Evaluation has not completed",
		})
	}

	contentType := echo.MIMEApplicationJSON
	switch format {
	case report.FormatMarkdown:
		contentType = "text/markdown; charset=utf-8"
	case report.FormatHTML:
		contentType = echo.MIMETextHTMLCharsetUTF8
	}

	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if err := report.New(run.Result).Write(c.Response(), format); err != nil {
		logger.Error("Failed to render report", "run_id", publicID, "err", err)
		return err
	}
	return nil
}
