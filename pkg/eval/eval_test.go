package eval

import (
	"context"
	"math"
	"reflect"
	"testing"

	"kgeval/pkg/kg"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func newTestEvaluator(t *testing.T, params NewEvaluatorParams) *Evaluator {
	t.Helper()
	params.DisableTokenMetrics = true
	evaluator, err := NewEvaluator(params)
	if err != nil {
		t.Fatalf("failed to create evaluator: %v", err)
	}
	return evaluator
}

func linkedGraph() *kg.KnowledgeGraph {
	return &kg.KnowledgeGraph{
		Entities: []kg.Entity{
			{EntityName: "Marie Curie", EntityType: strPtr("person"), Description: strPtr("Physicist")},
			{EntityName: "Polonium", EntityType: strPtr("element")},
			{EntityName: "Radium"},
		},
		Relationships: []kg.Relationship{
			{SourceEntityName: "Marie Curie", TargetEntityName: "Polonium", Description: "discovered", Keywords: []string{"discovery"}, Weight: floatPtr(1.0)},
			{SourceEntityName: "Marie Curie", TargetEntityName: "Radium", Description: "discovered", Keywords: []string{"discovery"}},
		},
		SourceTexts: []kg.SourceText{
			{
				Content:           "Marie Curie discovered polonium and radium.",
				LinkedEntityNames: []string{"Marie Curie", "Polonium", "Radium"},
				LinkedEdges: []kg.Edge{
					{Source: "Marie Curie", Target: "Polonium"},
					{Source: "Marie Curie", Target: "Radium"},
				},
			},
		},
	}
}

func TestEvaluateDefaultsToAllDimensions(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	result, err := evaluator.Evaluate(context.Background(), linkedGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ScaleRichness == nil || result.StructuralIntegrity == nil ||
		result.SemanticQuality == nil || result.Efficiency == nil {
		t.Fatalf("expected all dimensions populated: %+v", result)
	}

	wantDims := []string{"scale_richness", "structural_integrity", "semantic_quality", "efficiency"}
	if !reflect.DeepEqual(result.Metadata.IncludedDimensions, wantDims) {
		t.Fatalf("unexpected included dimensions: %v", result.Metadata.IncludedDimensions)
	}
	if result.Metadata.RefereeAvailable {
		t.Fatalf("no referee was configured")
	}
	if result.Metadata.SampleSize != DefaultSampleSize {
		t.Fatalf("expected default sample size, got %d", result.Metadata.SampleSize)
	}
}

func TestEvaluateSelectedDimensionOnly(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	result, err := evaluator.Evaluate(context.Background(), linkedGraph(), DimScaleRichness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ScaleRichness == nil {
		t.Fatalf("expected scale metrics")
	}
	if result.StructuralIntegrity != nil || result.SemanticQuality != nil || result.Efficiency != nil {
		t.Fatalf("unrequested dimensions must stay nil: %+v", result)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{Seed: 7})
	graph := linkedGraph()

	first, err := evaluator.Evaluate(context.Background(), graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := evaluator.Evaluate(context.Background(), graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluation must not mutate the graph or drift between runs")
	}
}

func TestScaleRichness(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	metrics := evaluator.evaluateScaleRichness(linkedGraph())

	if metrics.EntityCount != 3 || metrics.RelationshipCount != 2 || metrics.SourceTextCount != 1 {
		t.Fatalf("unexpected counts: %+v", metrics)
	}

	// Fill rates: entities (2/2 + 1/2 + 0/2)/3 = 0.5, relationships (2/2 + 1/2)/2 = 0.75.
	if metrics.EntityPropertyFillRate != 0.5 {
		t.Fatalf("expected entity fill rate 0.5, got %f", metrics.EntityPropertyFillRate)
	}
	if metrics.RelationshipPropertyFillRate != 0.75 {
		t.Fatalf("expected relationship fill rate 0.75, got %f", metrics.RelationshipPropertyFillRate)
	}
	if metrics.OverallPropertyFillRate != 0.6 {
		t.Fatalf("expected overall fill rate 0.6, got %f", metrics.OverallPropertyFillRate)
	}

	if metrics.UniqueRelationshipTypes != 1 {
		t.Fatalf("expected 1 relationship type, got %d", metrics.UniqueRelationshipTypes)
	}
	want := []TypeCount{{Type: "discovery", Count: 2}}
	if !reflect.DeepEqual(metrics.RelationshipTypeDistribution, want) {
		t.Fatalf("unexpected distribution: %v", metrics.RelationshipTypeDistribution)
	}
	// Single type: p = 1, score = -1*sqrt(1) = -1.
	if metrics.RelationshipDiversityScore != -1.0 {
		t.Fatalf("expected diversity -1.0, got %f", metrics.RelationshipDiversityScore)
	}
}

func TestScaleRichnessKeywordFallback(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	graph := &kg.KnowledgeGraph{
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "Works With the team"},
			{SourceEntityName: "B", TargetEntityName: "C", Description: "works with enthusiasm"},
			{SourceEntityName: "C", TargetEntityName: "D", Description: "leads"},
		},
	}

	metrics := evaluator.evaluateScaleRichness(graph)

	// Keyword-less relationships type on their first two description words.
	if metrics.UniqueRelationshipTypes != 2 {
		t.Fatalf("expected 2 types, got %d", metrics.UniqueRelationshipTypes)
	}
	want := []TypeCount{{Type: "works with", Count: 2}, {Type: "leads", Count: 1}}
	if !reflect.DeepEqual(metrics.RelationshipTypeDistribution, want) {
		t.Fatalf("unexpected distribution: %v", metrics.RelationshipTypeDistribution)
	}
}

func TestScaleRichnessEmptyGraph(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	metrics := evaluator.evaluateScaleRichness(&kg.KnowledgeGraph{})

	if metrics.EntityCount != 0 || metrics.OverallPropertyFillRate != 0.0 ||
		metrics.UniqueRelationshipTypes != 0 || metrics.RelationshipDiversityScore != 0.0 {
		t.Fatalf("unexpected empty metrics: %+v", metrics)
	}
}

func TestStructuralIntegrityEmptyContract(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	graphs := []*kg.KnowledgeGraph{
		{},
		{Entities: []kg.Entity{{EntityName: "A"}}},
		{Relationships: []kg.Relationship{{SourceEntityName: "A", TargetEntityName: "B", Description: "knows"}}},
	}

	for i, graph := range graphs {
		metrics, err := evaluator.evaluateStructuralIntegrity(graph)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if metrics.GraphDensity != 0.0 ||
			metrics.LargestComponentRatio != 0.0 ||
			metrics.SingletonRatio != 1.0 ||
			metrics.ConnectedComponentsCount != 0 {
			t.Fatalf("case %d: empty contract violated: %+v", i, metrics)
		}
	}
}

func TestStructuralIntegrityFragmented(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{
			{EntityName: "A"}, {EntityName: "B"}, {EntityName: "C"},
			{EntityName: "D"}, {EntityName: "E"},
		},
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "knows"},
		},
	}

	metrics, err := evaluator.evaluateStructuralIntegrity(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Components: {A,B}, {C}, {D}, {E}.
	if metrics.ConnectedComponentsCount != 4 {
		t.Fatalf("expected 4 components, got %d", metrics.ConnectedComponentsCount)
	}
	if metrics.LargestComponentRatio != 0.4 {
		t.Fatalf("expected LCC ratio 0.4, got %f", metrics.LargestComponentRatio)
	}
	if metrics.SingletonRatio != 0.6 {
		t.Fatalf("expected singleton ratio 0.6, got %f", metrics.SingletonRatio)
	}
	if metrics.AverageComponentSize != 1.25 {
		t.Fatalf("expected average component size 1.25, got %f", metrics.AverageComponentSize)
	}
	if !reflect.DeepEqual(metrics.ComponentSizeDistribution, map[int]int{1: 3, 2: 1}) {
		t.Fatalf("unexpected size distribution: %v", metrics.ComponentSizeDistribution)
	}
	// 1 relationship over 5 entities.
	if metrics.GraphDensity != 0.2 {
		t.Fatalf("expected graph density 0.2, got %f", metrics.GraphDensity)
	}
	// 1 directed edge over 5*4 ordered pairs.
	if metrics.DirectedDensity != 0.05 {
		t.Fatalf("expected directed density 0.05, got %f", metrics.DirectedDensity)
	}
}

func TestStructuralIntegrityCycle(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{{EntityName: "A"}, {EntityName: "B"}, {EntityName: "C"}},
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "next"},
			{SourceEntityName: "B", TargetEntityName: "C", Description: "next"},
			{SourceEntityName: "C", TargetEntityName: "A", Description: "next"},
		},
	}

	metrics, err := evaluator.evaluateStructuralIntegrity(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.LargestComponentRatio != 1.0 || metrics.SingletonRatio != 0.0 {
		t.Fatalf("cycle must be fully connected: %+v", metrics)
	}
	if metrics.ConnectedComponentsCount != 1 {
		t.Fatalf("expected 1 component, got %d", metrics.ConnectedComponentsCount)
	}

	// Uniform PageRank over 3 nodes: entropy log2(3).
	wantEntropy := round(math.Log2(3), 4)
	if metrics.PageRankEntropy != wantEntropy {
		t.Fatalf("expected entropy %f, got %f", wantEntropy, metrics.PageRankEntropy)
	}
	if metrics.CentralityStats.Mean != round(1.0/3.0, 6) {
		t.Fatalf("expected mean 1/3, got %f", metrics.CentralityStats.Mean)
	}
	if len(metrics.TopCentralEntities) != 3 {
		t.Fatalf("expected 3 ranked entities, got %d", len(metrics.TopCentralEntities))
	}
	if metrics.PageRankUnweightedFallback {
		t.Fatalf("weighted run should converge")
	}
}

func TestTopCentralEntitiesCapped(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})

	entities := make([]kg.Entity, 8)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, name := range names {
		entities[i] = kg.Entity{EntityName: name}
	}
	var rels []kg.Relationship
	for _, name := range names[1:] {
		rels = append(rels, kg.Relationship{SourceEntityName: name, TargetEntityName: "A", Description: "links"})
	}

	metrics, err := evaluator.evaluateStructuralIntegrity(&kg.KnowledgeGraph{Entities: entities, Relationships: rels})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(metrics.TopCentralEntities) != 5 {
		t.Fatalf("expected top 5, got %d", len(metrics.TopCentralEntities))
	}
	if metrics.TopCentralEntities[0].EntityName != "A" {
		t.Fatalf("expected A as most central, got %+v", metrics.TopCentralEntities[0])
	}
	// The seven identical spokes rank in insertion order after A.
	if metrics.TopCentralEntities[1].EntityName != "B" {
		t.Fatalf("ties must break by insertion order, got %+v", metrics.TopCentralEntities[1])
	}
}

func TestEfficiency(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{{EntityName: "A"}, {EntityName: "B"}},
		Relationships: []kg.Relationship{
			{SourceEntityName: "A", TargetEntityName: "B", Description: "knows"},
		},
		SourceTexts: []kg.SourceText{
			{Content: "0123456789", LinkedEntityNames: []string{"A"}},
			{Content: "0123456789"},
		},
	}

	metrics := evaluator.evaluateEfficiency(graph)

	if metrics.TotalKnowledgeItems != 3 || metrics.TotalSourceChunks != 2 {
		t.Fatalf("unexpected totals: %+v", metrics)
	}
	if metrics.KnowledgeDensityPerChunk != 1.5 {
		t.Fatalf("expected density 1.5, got %f", metrics.KnowledgeDensityPerChunk)
	}
	if metrics.TotalTextLength != 20 || metrics.AverageSourceTextLength != 10.0 {
		t.Fatalf("unexpected lengths: %+v", metrics)
	}
	// 2 entities over 20 chars, per 1000 chars.
	if metrics.EntitiesPerCharacter != 100.0 {
		t.Fatalf("expected 100 entities per 1000 chars, got %f", metrics.EntitiesPerCharacter)
	}
	if metrics.ProductiveSources != 1 || metrics.UnproductiveSources != 1 || metrics.ProductiveSourceRatio != 0.5 {
		t.Fatalf("unexpected productivity: %+v", metrics)
	}
	if metrics.TotalSourceTokens != 0 {
		t.Fatalf("token metrics disabled, got %d tokens", metrics.TotalSourceTokens)
	}
}

func TestEfficiencyNoSources(t *testing.T) {
	evaluator := newTestEvaluator(t, NewEvaluatorParams{})
	graph := &kg.KnowledgeGraph{
		Entities: []kg.Entity{{EntityName: "A"}},
	}

	metrics := evaluator.evaluateEfficiency(graph)
	if metrics.KnowledgeDensityPerChunk != 0.0 || metrics.TotalKnowledgeItems != 0 || metrics.TotalSourceChunks != 0 {
		t.Fatalf("expected zeroed metrics without sources: %+v", metrics)
	}
}
