package eval

import (
	"kgeval/pkg/kg"
)

// evaluateEfficiency measures how much structured knowledge the extraction
// produced per unit of source text, in chunks, characters, and tokens.
func (e *Evaluator) evaluateEfficiency(graph *kg.KnowledgeGraph) *EfficiencyMetrics {
	metrics := &EfficiencyMetrics{}

	if len(graph.SourceTexts) == 0 {
		return metrics
	}

	chunks := float64(len(graph.SourceTexts))
	metrics.TotalKnowledgeItems = len(graph.Entities) + len(graph.Relationships)
	metrics.TotalSourceChunks = len(graph.SourceTexts)
	metrics.KnowledgeDensityPerChunk = round(float64(metrics.TotalKnowledgeItems)/chunks, 4)

	totalLength := 0
	for _, source := range graph.SourceTexts {
		totalLength += len(source.Content)
	}
	metrics.TotalTextLength = totalLength

	if totalLength > 0 {
		// Scaled to knowledge items per 1000 characters.
		metrics.EntitiesPerCharacter = round(float64(len(graph.Entities))/float64(totalLength)*1000, 6)
		metrics.RelationshipsPerCharacter = round(float64(len(graph.Relationships))/float64(totalLength)*1000, 6)
	}
	metrics.AverageEntitiesPerSource = round(float64(len(graph.Entities))/chunks, 4)
	metrics.AverageRelationsPerSource = round(float64(len(graph.Relationships))/chunks, 4)
	metrics.AverageSourceTextLength = round(float64(totalLength)/chunks, 2)

	productive := 0
	for _, source := range graph.SourceTexts {
		if len(source.LinkedEntityNames) > 0 || len(source.LinkedEdges) > 0 {
			productive++
		}
	}
	metrics.ProductiveSources = productive
	metrics.UnproductiveSources = len(graph.SourceTexts) - productive
	metrics.ProductiveSourceRatio = round(float64(productive)/chunks, 4)

	e.tokenMetrics(graph, metrics)

	return metrics
}

// tokenMetrics supplements the character-based rates with token counts from
// the configured encoding. Skipped when token metrics are disabled.
func (e *Evaluator) tokenMetrics(graph *kg.KnowledgeGraph, metrics *EfficiencyMetrics) {
	if e.encoder == nil {
		return
	}

	totalTokens := 0
	for _, source := range graph.SourceTexts {
		totalTokens += len(e.encoder.Encode(source.Content, nil, nil))
	}
	metrics.TotalSourceTokens = totalTokens

	metrics.AverageTokensPerSource = round(float64(totalTokens)/float64(len(graph.SourceTexts)), 4)
	if totalTokens > 0 {
		metrics.KnowledgePerKilotoken = round(float64(metrics.TotalKnowledgeItems)/float64(totalTokens)*1000, 6)
	}
}
