package eval

import (
	"math"
	"sort"
	"strings"

	"kgeval/pkg/kg"
)

// evaluateScaleRichness measures the breadth of the extraction: raw counts,
// optional-property fill rates, and relationship-type diversity.
func (e *Evaluator) evaluateScaleRichness(graph *kg.KnowledgeGraph) *ScaleRichnessMetrics {
	metrics := &ScaleRichnessMetrics{
		EntityCount:       len(graph.Entities),
		RelationshipCount: len(graph.Relationships),
		SourceTextCount:   len(graph.SourceTexts),
	}

	e.fillRates(graph, metrics)
	e.relationalDiversity(graph, metrics)

	return metrics
}

// fillRates computes the share of optional properties that are populated.
// Entities carry two optional properties (type, description), relationships
// two as well (keywords, weight). An absent weight counts as unfilled here
// even though the graph builder later defaults it to 1.0.
func (e *Evaluator) fillRates(graph *kg.KnowledgeGraph, metrics *ScaleRichnessMetrics) {
	if len(graph.Entities) == 0 && len(graph.Relationships) == 0 {
		return
	}

	entitySum := 0.0
	for _, entity := range graph.Entities {
		filled := 0
		if entity.EntityType != nil {
			filled++
		}
		if entity.Description != nil {
			filled++
		}
		entitySum += float64(filled) / 2.0
	}

	relSum := 0.0
	for _, rel := range graph.Relationships {
		filled := 0
		if len(rel.Keywords) > 0 {
			filled++
		}
		if rel.Weight != nil {
			filled++
		}
		relSum += float64(filled) / 2.0
	}

	entityRate := 0.0
	if len(graph.Entities) > 0 {
		entityRate = entitySum / float64(len(graph.Entities))
	}
	relRate := 0.0
	if len(graph.Relationships) > 0 {
		relRate = relSum / float64(len(graph.Relationships))
	}

	total := len(graph.Entities) + len(graph.Relationships)
	overall := (entityRate*float64(len(graph.Entities)) +
		relRate*float64(len(graph.Relationships))) / float64(total)

	metrics.EntityPropertyFillRate = round(entityRate, 4)
	metrics.RelationshipPropertyFillRate = round(relRate, 4)
	metrics.OverallPropertyFillRate = round(overall, 4)
}

// relationalDiversity derives relationship types from keywords (lowercased and
// trimmed), falling back to the first two description words for keyword-less
// relationships, then scores the type distribution.
func (e *Evaluator) relationalDiversity(graph *kg.KnowledgeGraph, metrics *ScaleRichnessMetrics) {
	if len(graph.Relationships) == 0 {
		metrics.RelationshipTypeDistribution = []TypeCount{}
		return
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	record := func(relType string) {
		if _, seen := counts[relType]; !seen {
			order = append(order, relType)
		}
		counts[relType]++
	}

	for _, rel := range graph.Relationships {
		if len(rel.Keywords) > 0 {
			for _, keyword := range rel.Keywords {
				record(strings.TrimSpace(strings.ToLower(keyword)))
			}
			continue
		}

		words := strings.Fields(strings.ToLower(rel.Description))
		if len(words) > 2 {
			words = words[:2]
		}
		record(strings.Join(words, " "))
	}

	// Count descending, first occurrence breaking ties; top 10 reported.
	distribution := make([]TypeCount, 0, len(order))
	for _, relType := range order {
		distribution = append(distribution, TypeCount{Type: relType, Count: counts[relType]})
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Count > distribution[j].Count
	})
	if len(distribution) > 10 {
		distribution = distribution[:10]
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	diversity := 0.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		diversity -= p * math.Sqrt(p)
	}

	metrics.UniqueRelationshipTypes = len(counts)
	metrics.RelationshipTypeDistribution = distribution
	metrics.RelationshipDiversityScore = round(diversity, 4)
}
