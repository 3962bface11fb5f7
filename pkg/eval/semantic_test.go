package eval

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"kgeval/pkg/kg"
	"kgeval/pkg/referee"
)

// fakeReferee scripts verdicts by relationship description and relevance by
// item name, recording every call it receives.
type fakeReferee struct {
	verdicts     map[string]referee.Verdict
	core         map[string]bool
	failOn       map[string]bool
	verdictCalls []string
	coreCalls    []string
}

func (f *fakeReferee) ClassifyFactualPrecision(
	_ context.Context,
	rel kg.Relationship,
	_ kg.SourceText,
) (referee.Verdict, error) {
	f.verdictCalls = append(f.verdictCalls, rel.Description)
	if f.failOn[rel.Description] {
		return "", errors.New("referee unavailable")
	}
	return f.verdicts[rel.Description], nil
}

func (f *fakeReferee) ClassifyRelevance(
	_ context.Context,
	item referee.Item,
	_ kg.SourceText,
) (bool, error) {
	key := itemName(item)
	f.coreCalls = append(f.coreCalls, key)
	if f.failOn[key] {
		return false, errors.New("referee unavailable")
	}
	return f.core[key], nil
}

func itemName(item referee.Item) string {
	if item.Kind == referee.ItemEntity {
		return item.Entity.EntityName
	}
	return item.Relationship.Description
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name string
		str1 string
		str2 string
		want float64
	}{
		{"both empty", "", "", 0.0},
		{"one empty", "Apple", "", 0.0},
		{"case and whitespace insensitive", "Apple Inc ", "apple inc", 1.0},
		{"kitten sitting", "kitten", "sitting", 1.0 - 3.0/7.0},
		{"disjoint", "ab", "xy", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringSimilarity(tt.str1, tt.str2)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestEntityNormalization(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	t.Run("single entity is perfectly normalized", func(t *testing.T) {
		metrics := &SemanticQualityMetrics{}
		evaluator.entityNormalization(&kg.KnowledgeGraph{
			Entities: []kg.Entity{{EntityName: "Only"}},
		}, metrics)

		if metrics.EntityNormalizationScore != 1.0 {
			t.Fatalf("expected score 1.0, got %f", metrics.EntityNormalizationScore)
		}
		if metrics.PotentialAliasPairs == nil || len(metrics.PotentialAliasPairs) != 0 {
			t.Fatalf("expected empty pair list, got %v", metrics.PotentialAliasPairs)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		// Distance 3 over length 10 sits exactly on the 0.7 cutoff.
		metrics := &SemanticQualityMetrics{}
		evaluator.entityNormalization(&kg.KnowledgeGraph{
			Entities: []kg.Entity{{EntityName: "abcdefghij"}, {EntityName: "abcdefgxyz"}},
		}, metrics)

		if metrics.AliasPairsCount != 1 {
			t.Fatalf("expected the boundary pair to count, got %d pairs", metrics.AliasPairsCount)
		}
		if metrics.EntityNormalizationScore != 0.5 {
			t.Fatalf("expected score 0.5, got %f", metrics.EntityNormalizationScore)
		}
	})

	t.Run("just below threshold", func(t *testing.T) {
		// Distance 4 over length 10.
		metrics := &SemanticQualityMetrics{}
		evaluator.entityNormalization(&kg.KnowledgeGraph{
			Entities: []kg.Entity{{EntityName: "abcdefghij"}, {EntityName: "abcdefwxyz"}},
		}, metrics)

		if metrics.AliasPairsCount != 0 {
			t.Fatalf("expected no pairs, got %d", metrics.AliasPairsCount)
		}
		if metrics.EntityNormalizationScore != 1.0 {
			t.Fatalf("expected score 1.0, got %f", metrics.EntityNormalizationScore)
		}
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		// Four identical names give six pairs against four entities.
		metrics := &SemanticQualityMetrics{}
		evaluator.entityNormalization(&kg.KnowledgeGraph{
			Entities: []kg.Entity{
				{EntityName: "A"}, {EntityName: "A"}, {EntityName: "A"}, {EntityName: "A"},
			},
		}, metrics)

		if metrics.AliasPairsCount != 6 {
			t.Fatalf("expected 6 pairs, got %d", metrics.AliasPairsCount)
		}
		if metrics.EntityNormalizationScore != 0.0 {
			t.Fatalf("expected clamped score 0.0, got %f", metrics.EntityNormalizationScore)
		}
	})

	t.Run("pairs sorted by similarity and capped", func(t *testing.T) {
		entities := []kg.Entity{
			{EntityName: "Johnson"},
			{EntityName: "Jonson"},
			{EntityName: "Johnson "},
		}
		metrics := &SemanticQualityMetrics{}
		evaluator.entityNormalization(&kg.KnowledgeGraph{Entities: entities}, metrics)

		if metrics.AliasPairsCount != 3 {
			t.Fatalf("expected 3 pairs, got %d", metrics.AliasPairsCount)
		}
		first := metrics.PotentialAliasPairs[0]
		if first.Name1 != "Johnson" || first.Name2 != "Johnson " || first.Similarity != 1.0 {
			t.Fatalf("expected exact pair first, got %+v", first)
		}
	})
}

func TestMapRelationshipsToSources(t *testing.T) {
	graph := &kg.KnowledgeGraph{
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "first"},
			{SourceEntityName: "A", TargetEntityName: "B", Description: "shadowed"},
			{SourceEntityName: "B", TargetEntityName: "C", Description: "second"},
		},
		SourceTexts: []kg.SourceText{
			{Content: "s0", LinkedEdges: []kg.Edge{{Source: "A", Target: "B"}}},
			{Content: "s1", LinkedEdges: []kg.Edge{
				{Source: "A", Target: "B"},
				{Source: "B", Target: "C"},
			}},
		},
	}

	got := mapRelationshipsToSources(graph)

	// The first matching relationship takes each edge, and a relationship
	// keeps the first source that claimed it.
	want := map[int]int{0: 0, 2: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected mapping %v, got %v", want, got)
	}
}

func TestSemanticQualityWithoutReferee(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	metrics, err := evaluator.evaluateSemanticQuality(context.Background(), linkedGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.FactualPrecision != nil || metrics.ContextualRelevance != nil {
		t.Fatalf("referee-backed metrics must stay nil, got %+v", metrics)
	}
	if metrics.FactualPrecisionNote != NotEvaluatedNote ||
		metrics.ContextualRelevanceNote != NotEvaluatedNote {
		t.Fatalf("expected explanatory notes, got %+v", metrics)
	}
	if metrics.EntityNormalizationScore != 1.0 {
		t.Fatalf("normalization must still run, got %f", metrics.EntityNormalizationScore)
	}
}

func TestFactualPrecision(t *testing.T) {
	judge := &fakeReferee{
		verdicts: map[string]referee.Verdict{
			"correct one":  referee.VerdictCorrect,
			"partial one":  referee.VerdictPartiallyCorrect,
			"wrong one":    referee.VerdictIncorrect,
		},
		failOn: map[string]bool{"failing one": true},
	}
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Referee: judge})

	graph := &kg.KnowledgeGraph{
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "correct one"},
			{SourceEntityName: "B", TargetEntityName: "C", Description: "partial one"},
			{SourceEntityName: "C", TargetEntityName: "D", Description: "wrong one"},
			{SourceEntityName: "D", TargetEntityName: "E", Description: "failing one"},
		},
		SourceTexts: []kg.SourceText{
			{Content: "passage", LinkedEdges: []kg.Edge{
				{Source: "A", Target: "B"},
				{Source: "B", Target: "C"},
				{Source: "C", Target: "D"},
				{Source: "D", Target: "E"},
			}},
		},
	}

	metrics := &SemanticQualityMetrics{}
	if err := evaluator.factualPrecision(context.Background(), graph, metrics); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	details := metrics.FactualPrecisionDetails
	if details.TotalEvaluated != 4 {
		t.Fatalf("expected all 4 evaluated, got %d", details.TotalEvaluated)
	}
	// The failing call counts as incorrect instead of aborting the run.
	if details.Correct != 1 || details.PartiallyCorrect != 1 || details.Incorrect != 2 {
		t.Fatalf("unexpected breakdown: %+v", details)
	}
	if metrics.FactualPrecision == nil || *metrics.FactualPrecision != 0.375 {
		t.Fatalf("expected precision 0.375, got %v", metrics.FactualPrecision)
	}
}

func TestFactualPrecisionUnmappable(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Referee: &fakeReferee{}})

	graph := &kg.KnowledgeGraph{
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "unlinked"},
		},
		SourceTexts: []kg.SourceText{{Content: "no edges here"}},
	}

	metrics := &SemanticQualityMetrics{}
	if err := evaluator.factualPrecision(context.Background(), graph, metrics); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.FactualPrecision == nil || *metrics.FactualPrecision != 0.0 {
		t.Fatalf("expected precision 0.0, got %v", metrics.FactualPrecision)
	}
	if metrics.FactualPrecisionDetails.Error == "" {
		t.Fatalf("expected an explanatory error, got %+v", metrics.FactualPrecisionDetails)
	}
}

func TestFactualPrecisionSampling(t *testing.T) {
	buildGraph := func() *kg.KnowledgeGraph {
		names := []string{"A", "B", "C", "D", "E", "F"}
		graph := &kg.KnowledgeGraph{}
		var edges []kg.Edge
		for i := 0; i+1 < len(names); i++ {
			graph.Relationships = append(graph.Relationships, kg.Relationship{
				SourceEntityName: names[i],
				TargetEntityName: names[i+1],
				Description:      names[i] + " to " + names[i+1],
			})
			edges = append(edges, kg.Edge{Source: names[i], Target: names[i+1]})
		}
		graph.SourceTexts = []kg.SourceText{{Content: "passage", LinkedEdges: edges}}
		return graph
	}

	run := func() []string {
		judge := &fakeReferee{}
		evaluator := newTestEvaluator(t, NewEvaluatorParams{
			Referee:    judge,
			SampleSize: 2,
			Seed:       42,
		})

		metrics := &SemanticQualityMetrics{}
		if err := evaluator.factualPrecision(context.Background(), buildGraph(), metrics); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if metrics.FactualPrecisionDetails.TotalEvaluated != 2 {
			t.Fatalf("expected 2 evaluated, got %d", metrics.FactualPrecisionDetails.TotalEvaluated)
		}
		return judge.verdictCalls
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed must sample the same items: %v vs %v", first, second)
	}
}

func TestContextualRelevance(t *testing.T) {
	judge := &fakeReferee{
		core:   map[string]bool{"Alice": true, "Bob": false},
		failOn: map[string]bool{"knows": true},
	}
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Referee: judge})

	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{{EntityName: "Alice"}, {EntityName: "Bob"}},
		Relationships: []kg.Relationship{
			{SourceEntityName: "Alice", TargetEntityName: "Bob", Description: "knows"},
		},
		SourceTexts: []kg.SourceText{
			{
				Content:           "Alice knows Bob.",
				LinkedEntityNames: []string{"Alice", "Bob"},
				LinkedEdges:       []kg.Edge{{Source: "Alice", Target: "Bob"}},
			},
		},
	}

	metrics := &SemanticQualityMetrics{}
	if err := evaluator.contextualRelevance(context.Background(), graph, metrics); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	details := metrics.ContextualRelevanceDetails
	if details.TotalEvaluated != 3 {
		t.Fatalf("expected 3 items, got %d", details.TotalEvaluated)
	}
	// The failing relationship call counts as marginal.
	if details.CoreFacts != 1 || details.MarginalFacts != 2 {
		t.Fatalf("unexpected breakdown: %+v", details)
	}
	if metrics.ContextualRelevance == nil || *metrics.ContextualRelevance != round(1.0/3.0, 4) {
		t.Fatalf("expected relevance 1/3, got %v", metrics.ContextualRelevance)
	}
}

func TestContextualRelevanceUnmappable(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Referee: &fakeReferee{}})

	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{{EntityName: "Orphan"}},
		SourceTexts: []kg.SourceText{{Content: "nothing linked"}},
	}

	metrics := &SemanticQualityMetrics{}
	if err := evaluator.contextualRelevance(context.Background(), graph, metrics); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.ContextualRelevance == nil || *metrics.ContextualRelevance != 0.0 {
		t.Fatalf("expected relevance 0.0, got %v", metrics.ContextualRelevance)
	}
	if metrics.ContextualRelevanceDetails.Error == "" {
		t.Fatalf("expected an explanatory error, got %+v", metrics.ContextualRelevanceDetails)
	}
}

func TestSemanticQualityCancellation(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Referee: &fakeReferee{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.evaluateSemanticQuality(ctx, linkedGraph())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
