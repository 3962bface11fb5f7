package routes

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"kgeval/internal/queue"
	"kgeval/internal/server/middleware"
	"kgeval/internal/storage"
	"kgeval/pkg/eval"
	"kgeval/pkg/kg"
	"kgeval/pkg/logger"
	"kgeval/pkg/store"
)

// CreateEvaluationHandler accepts a new evaluation request and queues it for
// the worker. The graph comes in either as an object-store key or inline;
// inline graphs are validated and stored under graphs/ before queueing.
func CreateEvaluationHandler(c echo.Context) error {
	type createEvaluationBody struct {
		GraphKey            string          `json:"graph_key"`
		Graph               json.RawMessage `json:"graph"`
		Dimensions          []string        `json:"dimensions"`
		SampleSize          int             `json:"sample_size"`
		SimilarityThreshold float64         `json:"similarity_threshold"`
		Seed                int64           `json:"seed"`
	}

	type createEvaluationResponse struct {
		Message string               `json:"message"`
		Run     *store.EvaluationRun `json:"run,omitempty"`
	}

	data := new(createEvaluationBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvaluationResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEvaluationResponse{
			Message: "Invalid request body",
		})
	}
	if (data.GraphKey == "") == (len(data.Graph) == 0) {
		return c.JSON(http.StatusBadRequest, createEvaluationResponse{
			Message: "Provide exactly one of graph_key or graph",
		})
	}

	dimensions := data.Dimensions
	if len(dimensions) == 0 {
		for _, dim := range eval.AllDimensions() {
			dimensions = append(dimensions, string(dim))
		}
	} else {
		known := make(map[string]bool, 4)
		for _, dim := range eval.AllDimensions() {
			known[string(dim)] = true
		}
		for _, name := range dimensions {
			if !known[name] {
				return c.JSON(http.StatusBadRequest, createEvaluationResponse{
					Message: "Unknown dimension: " + name,
				})
			}
		}
	}

	sampleSize := data.SampleSize
	if sampleSize <= 0 {
		sampleSize = eval.DefaultSampleSize
	}
	threshold := data.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = eval.DefaultSimilarityThreshold
	}

	publicID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate run ID", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	graphKey := data.GraphKey
	if len(data.Graph) > 0 {
		if _, err := kg.Parse(data.Graph); err != nil {
			return c.JSON(http.StatusBadRequest, createEvaluationResponse{
				Message: "Invalid knowledge graph: " + err.Error(),
			})
		}
		graphKey = storage.GraphKey(publicID)
		if err := storage.PutFile(ctx, app.S3, graphKey, "application/json", bytes.NewReader(data.Graph)); err != nil {
			logger.Error("Failed to store inline graph", "run_id", publicID, "err", err)
			return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
				Message: "Internal server error",
			})
		}
	}

	run := &store.EvaluationRun{
		PublicID:            publicID,
		GraphKey:            graphKey,
		Status:              store.StatusPending,
		Dimensions:          dimensions,
		SampleSize:          sampleSize,
		SimilarityThreshold: threshold,
		Seed:                data.Seed,
	}

	if err := app.Store.CreateRun(ctx, run); err != nil {
		logger.Error("Failed to create evaluation run", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.EvaluateJobMsg{
		RunID:               run.PublicID,
		GraphKey:            run.GraphKey,
		Dimensions:          run.Dimensions,
		SampleSize:          run.SampleSize,
		SimilarityThreshold: run.SimilarityThreshold,
		Seed:                run.Seed,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal queue message", "err", err)
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.EvaluateQueue, msgBytes); err != nil {
		logger.Error("Failed to publish evaluation job", "run_id", run.PublicID, "err", err)
		if failErr := app.Store.FailRun(ctx, run.PublicID, "failed to queue evaluation"); failErr != nil {
			logger.Error("Failed to mark run failed", "run_id", run.PublicID, "err", failErr)
		}
		return c.JSON(http.StatusInternalServerError, createEvaluationResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createEvaluationResponse{
		Message: "Evaluation queued",
		Run:     run,
	})
}
