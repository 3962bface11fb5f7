package eval

import (
	"context"
	"math/rand"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"kgeval/pkg/kg"
	"kgeval/pkg/logger"
	"kgeval/pkg/referee"
)

// Evaluator defaults.
const (
	// DefaultSampleSize bounds how many items the referee is asked to judge
	// per metric.
	DefaultSampleSize = 50

	// DefaultSimilarityThreshold is the inclusive cutoff above which two
	// entity names count as a potential alias pair.
	DefaultSimilarityThreshold = 0.7

	// TokenEncoding is the tiktoken encoding used for token-based efficiency
	// metrics.
	TokenEncoding = "o200k_base"
)

// Evaluator runs knowledge-graph evaluations. It is safe for reuse across
// graphs; each Evaluate call builds its own working state.
type Evaluator struct {
	referee             referee.Referee
	sampleSize          int
	similarityThreshold float64
	seed                int64

	encoder *tiktoken.Tiktoken
}

// NewEvaluatorParams contains configuration for an Evaluator.
type NewEvaluatorParams struct {
	// Referee enables the factual-precision and contextual-relevance metrics.
	// When nil those metrics are reported as not evaluated.
	Referee referee.Referee

	// SampleSize caps referee calls per metric; defaults to DefaultSampleSize.
	SampleSize int

	// SimilarityThreshold is the inclusive alias-detection cutoff in (0, 1];
	// defaults to DefaultSimilarityThreshold.
	SimilarityThreshold float64

	// Seed makes sampling reproducible. The same seed, graph, and sample size
	// select the same items.
	Seed int64

	// DisableTokenMetrics skips the tiktoken-based efficiency metrics.
	DisableTokenMetrics bool
}

// NewEvaluator creates an evaluator with the given configuration.
func NewEvaluator(params NewEvaluatorParams) (*Evaluator, error) {
	sampleSize := params.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	threshold := params.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	var encoder *tiktoken.Tiktoken
	if !params.DisableTokenMetrics {
		enc, err := tiktoken.GetEncoding(TokenEncoding)
		if err != nil {
			return nil, err
		}
		encoder = enc
	}

	return &Evaluator{
		referee:             params.Referee,
		sampleSize:          sampleSize,
		similarityThreshold: threshold,
		seed:                params.Seed,
		encoder:             encoder,
	}, nil
}

// Evaluate runs the requested dimensions against a knowledge graph. With no
// dimensions given, all four run. The graph is never mutated; calling
// Evaluate twice on the same graph yields identical results.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	graph *kg.KnowledgeGraph,
	dimensions ...Dimension,
) (*Result, error) {
	if len(dimensions) == 0 {
		dimensions = AllDimensions()
	}

	included := make([]string, 0, len(dimensions))
	want := make(map[Dimension]bool, len(dimensions))
	for _, dim := range dimensions {
		if want[dim] {
			continue
		}
		want[dim] = true
		included = append(included, string(dim))
	}

	result := &Result{
		Metadata: Metadata{
			KGSummary:           graph.String(),
			RefereeAvailable:    e.referee != nil,
			SampleSize:          e.sampleSize,
			SimilarityThreshold: e.similarityThreshold,
			Seed:                e.seed,
			IncludedDimensions:  included,
		},
	}

	if want[DimScaleRichness] {
		logger.Info("evaluating scale and richness", "kg", graph.String())
		result.ScaleRichness = e.evaluateScaleRichness(graph)
	}

	if want[DimStructuralIntegrity] {
		logger.Info("evaluating structural integrity")
		metrics, err := e.evaluateStructuralIntegrity(graph)
		if err != nil {
			return nil, err
		}
		result.StructuralIntegrity = metrics
	}

	if want[DimSemanticQuality] {
		logger.Info("evaluating semantic quality")
		metrics, err := e.evaluateSemanticQuality(ctx, graph)
		if err != nil {
			return nil, err
		}
		result.SemanticQuality = metrics
	}

	if want[DimEfficiency] {
		logger.Info("evaluating efficiency")
		result.Efficiency = e.evaluateEfficiency(graph)
	}

	logger.Info("evaluation complete", "dimensions", strings.Join(included, ","))
	return result, nil
}

// rng returns a fresh deterministic source for one sampling pass.
func (e *Evaluator) rng() *rand.Rand {
	return rand.New(rand.NewSource(e.seed))
}

// sampleIndexes selects n distinct indexes out of total in random order.
func sampleIndexes(r *rand.Rand, total, n int) []int {
	if n > total {
		n = total
	}
	return r.Perm(total)[:n]
}
