package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kgeval/internal/storage"
	"kgeval/internal/util"
	"kgeval/pkg/eval"
	"kgeval/pkg/kg"
	"kgeval/pkg/referee"
	refollama "kgeval/pkg/referee/ollama"
	refopenai "kgeval/pkg/referee/openai"
)

var (
	refereeAdapter string
	refereeModel   string
	refereeURL     string
	refereeKey     string

	sampleSize          int
	similarityThreshold float64
	samplingSeed        int64
)

var rootCmd = &cobra.Command{
	Use:   "kgeval",
	Short: "Evaluate LLM-extracted knowledge graphs",
	Long: `Evaluates knowledge graphs extracted by language models across four
dimensions: scale and richness, structural integrity, semantic quality,
and end-to-end efficiency.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&refereeAdapter, "referee", "", "referee adapter (openai, ollama); empty disables referee metrics")
	flags.StringVar(&refereeModel, "referee-model", "", "model used by the referee")
	flags.StringVar(&refereeURL, "referee-url", "", "base URL of the referee endpoint")
	flags.StringVar(&refereeKey, "referee-key", "", "API key for the referee endpoint (defaults to REFEREE_KEY)")
	flags.IntVar(&sampleSize, "sample-size", eval.DefaultSampleSize, "referee sample size per metric")
	flags.Float64Var(&similarityThreshold, "threshold", eval.DefaultSimilarityThreshold, "alias detection similarity threshold")
	flags.Int64Var(&samplingSeed, "seed", 0, "seed for reproducible sampling")
}

// newEvaluator builds an evaluator from the global flags.
func newEvaluator() (*eval.Evaluator, error) {
	judge, err := buildReferee()
	if err != nil {
		return nil, err
	}

	return eval.NewEvaluator(eval.NewEvaluatorParams{
		Referee:             judge,
		SampleSize:          sampleSize,
		SimilarityThreshold: similarityThreshold,
		Seed:                samplingSeed,
	})
}

func buildReferee() (referee.Referee, error) {
	adapter := refereeAdapter
	if adapter == "" {
		adapter = util.GetEnv("REFEREE_ADAPTER")
	}
	key := refereeKey
	if key == "" {
		key = util.GetEnv("REFEREE_KEY")
	}
	model := refereeModel
	if model == "" {
		model = util.GetEnv("REFEREE_MODEL")
	}
	baseURL := refereeURL
	if baseURL == "" {
		baseURL = util.GetEnv("REFEREE_URL")
	}

	switch adapter {
	case "":
		return nil, nil
	case "ollama":
		return refollama.NewOllamaReferee(refollama.NewOllamaRefereeParams{
			Model:   model,
			BaseURL: baseURL,
			ApiKey:  key,
		})
	case "openai":
		return refopenai.NewOpenAIReferee(refopenai.NewOpenAIRefereeParams{
			Model:   model,
			BaseURL: baseURL,
			ApiKey:  key,
		}), nil
	default:
		return nil, fmt.Errorf("unknown referee adapter %q", adapter)
	}
}

// loadGraph reads and validates a knowledge-graph JSON document from a local
// file or an s3://bucket/key URL.
func loadGraph(ctx context.Context, path string) (*kg.KnowledgeGraph, error) {
	raw, err := readGraph(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	graph, err := kg.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return graph, nil
}

func readGraph(ctx context.Context, path string) ([]byte, error) {
	bucket, key, ok := storage.ParseURL(path)
	if !ok {
		return os.ReadFile(path)
	}

	client := storage.NewS3Client(ctx)
	if client == nil {
		return nil, fmt.Errorf("failed to initialize S3 client")
	}
	return storage.GetObject(ctx, client, bucket, key)
}

// parseDimensions maps dimension flag values, rejecting unknown names.
func parseDimensions(names []string) ([]eval.Dimension, error) {
	known := make(map[string]bool, 4)
	for _, dim := range eval.AllDimensions() {
		known[string(dim)] = true
	}

	dimensions := make([]eval.Dimension, 0, len(names))
	for _, name := range names {
		if !known[name] {
			return nil, fmt.Errorf("unknown dimension %q", name)
		}
		dimensions = append(dimensions, eval.Dimension(name))
	}
	return dimensions, nil
}
