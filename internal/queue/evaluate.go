package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"kgeval/internal/storage"
	"kgeval/pkg/eval"
	"kgeval/pkg/kg"
	"kgeval/pkg/logger"
	"kgeval/pkg/referee"
	"kgeval/pkg/report"
	"kgeval/pkg/store"
)

// EvaluateJobMsg is the payload published to the evaluate queue for each run.
type EvaluateJobMsg struct {
	RunID               string   `json:"run_id"`
	GraphKey            string   `json:"graph_key"`
	Dimensions          []string `json:"dimensions"`
	SampleSize          int      `json:"sample_size"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	Seed                int64    `json:"seed"`
}

// ProcessEvaluate runs one evaluation job end to end: fetch the graph JSON
// from object storage, evaluate it, persist the result, and upload the
// rendered JSON report next to the graph.
func ProcessEvaluate(
	ctx context.Context,
	s3Client *awss3.Client,
	evalStore store.EvaluationStore,
	judge referee.Referee,
	msgBody string,
) error {
	var data EvaluateJobMsg
	if err := json.Unmarshal([]byte(msgBody), &data); err != nil {
		return fmt.Errorf("failed to unmarshal evaluate message: %w", err)
	}
	if data.RunID == "" || data.GraphKey == "" {
		return fmt.Errorf("evaluate message missing run_id or graph_key")
	}

	logger.Info("[Queue] Starting evaluation", "run_id", data.RunID, "graph_key", data.GraphKey)

	if err := evalStore.MarkRunning(ctx, data.RunID); err != nil {
		return fmt.Errorf("failed to mark run running: %w", err)
	}

	result, err := runEvaluation(ctx, s3Client, judge, &data)
	if err != nil {
		if failErr := evalStore.FailRun(ctx, data.RunID, err.Error()); failErr != nil {
			logger.Error("[Queue] Failed to record run failure", "run_id", data.RunID, "err", failErr)
		}
		return err
	}

	if err := evalStore.CompleteRun(ctx, data.RunID, result); err != nil {
		return fmt.Errorf("failed to store evaluation result: %w", err)
	}

	if err := uploadReport(ctx, s3Client, data.RunID, result); err != nil {
		// The run itself succeeded; a missing report copy is recoverable.
		logger.Error("[Queue] Failed to upload report", "run_id", data.RunID, "err", err)
	}

	logger.Info("[Queue] Evaluation complete", "run_id", data.RunID)
	return nil
}

func runEvaluation(
	ctx context.Context,
	s3Client *awss3.Client,
	judge referee.Referee,
	data *EvaluateJobMsg,
) (*eval.Result, error) {
	raw, err := storage.GetFile(ctx, s3Client, data.GraphKey)
	if err != nil {
		return nil, err
	}

	graph, err := kg.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge graph: %w", err)
	}

	evaluator, err := eval.NewEvaluator(eval.NewEvaluatorParams{
		Referee:             judge,
		SampleSize:          data.SampleSize,
		SimilarityThreshold: data.SimilarityThreshold,
		Seed:                data.Seed,
	})
	if err != nil {
		return nil, err
	}

	dimensions := make([]eval.Dimension, 0, len(data.Dimensions))
	for _, name := range data.Dimensions {
		dimensions = append(dimensions, eval.Dimension(name))
	}

	return evaluator.Evaluate(ctx, graph, dimensions...)
}

func uploadReport(ctx context.Context, s3Client *awss3.Client, runID string, result *eval.Result) error {
	var buf bytes.Buffer
	if err := report.New(result).WriteJSON(&buf); err != nil {
		return err
	}

	key := storage.ReportKey(runID, "json")
	return storage.PutFile(ctx, s3Client, key, "application/json", &buf)
}
