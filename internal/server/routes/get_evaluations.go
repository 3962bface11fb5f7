package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kgeval/internal/server/middleware"
	"kgeval/pkg/logger"
	"kgeval/pkg/store"
)

// GetEvaluationsHandler lists evaluation runs, newest first.
func GetEvaluationsHandler(c echo.Context) error {
	type getEvaluationsResponse struct {
		Message string                `json:"message"`
		Runs    []store.EvaluationRun `json:"runs"`
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	runs, err := app.Store.ListRuns(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list evaluation runs", "err", err)
		return c.JSON(http.StatusInternalServerError, getEvaluationsResponse{
			Message: "Internal server error",
		})
	}
	if runs == nil {
		runs = []store.EvaluationRun{}
	}

	return c.JSON(http.StatusOK, getEvaluationsResponse{
		Message: "OK",
		Runs:    runs,
	})
}

// GetEvaluationHandler fetches a single run with its result, if finished.
func GetEvaluationHandler(c echo.Context) error {
	type getEvaluationResponse struct {
		Message string               `json:"message"`
		Run     *store.EvaluationRun `json:"run,omitempty"`
	}

	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, getEvaluationResponse{
			Message: "Missing run ID",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	run, err := app.Store.GetRun(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, getEvaluationResponse{
				Message: "Evaluation run not found",
			})
		}
		logger.Error("Failed to get evaluation run", "run_id", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getEvaluationResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getEvaluationResponse{
		Message: "OK",
		Run:     run,
	})
}
