package eval

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"kgeval/pkg/kg"
	"kgeval/pkg/logger"
	"kgeval/pkg/referee"
)

// evaluateSemanticQuality measures the value of the extracted knowledge:
// entity normalization plus the two referee-backed metrics. Without a referee
// those two metrics stay nil and carry an explanatory note.
func (e *Evaluator) evaluateSemanticQuality(
	ctx context.Context,
	graph *kg.KnowledgeGraph,
) (*SemanticQualityMetrics, error) {
	metrics := &SemanticQualityMetrics{}

	e.entityNormalization(graph, metrics)

	if e.referee == nil {
		metrics.FactualPrecisionNote = NotEvaluatedNote
		metrics.ContextualRelevanceNote = NotEvaluatedNote
		return metrics, nil
	}

	if err := e.factualPrecision(ctx, graph, metrics); err != nil {
		return nil, err
	}
	if err := e.contextualRelevance(ctx, graph, metrics); err != nil {
		return nil, err
	}

	return metrics, nil
}

// entityNormalization detects potential alias pairs by string similarity over
// the raw entity-name list and scores how well normalized the entity set is.
// A graph with at most one entity is perfectly normalized.
func (e *Evaluator) entityNormalization(graph *kg.KnowledgeGraph, metrics *SemanticQualityMetrics) {
	metrics.PotentialAliasPairs = []AliasPair{}

	if len(graph.Entities) <= 1 {
		metrics.EntityNormalizationScore = 1.0
		return
	}

	names := graph.EntityNames()
	var pairs []AliasPair
	for i, name1 := range names {
		for _, name2 := range names[i+1:] {
			similarity := stringSimilarity(name1, name2)
			if similarity >= e.similarityThreshold {
				pairs = append(pairs, AliasPair{Name1: name1, Name2: name2, Similarity: similarity})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})

	score := 1.0 - float64(len(pairs))/float64(len(graph.Entities))
	if score < 0 {
		score = 0.0
	}

	metrics.EntityNormalizationScore = round(score, 4)
	metrics.AliasPairsCount = len(pairs)
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}
	if pairs != nil {
		metrics.PotentialAliasPairs = pairs
	}
}

// stringSimilarity is the normalized Levenshtein similarity between two names
// after lowercasing and trimming. Either name empty yields 0; identical
// normalized names yield 1.
func stringSimilarity(str1, str2 string) float64 {
	if str1 == "" || str2 == "" {
		return 0.0
	}

	norm1 := strings.TrimSpace(strings.ToLower(str1))
	norm2 := strings.TrimSpace(strings.ToLower(str2))
	if norm1 == norm2 {
		return 1.0
	}

	maxLen := len([]rune(norm1))
	if l := len([]rune(norm2)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(norm1, norm2)
	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		return 0.0
	}
	return similarity
}

// mapRelationshipsToSources links relationships to the source text that
// claims them. For every linked edge the first relationship in list order
// with matching endpoints is taken; a relationship already linked keeps its
// first source text.
func mapRelationshipsToSources(graph *kg.KnowledgeGraph) map[int]int {
	relToSource := make(map[int]int)

	for sourceIdx, source := range graph.SourceTexts {
		for _, edge := range source.LinkedEdges {
			for relIdx, rel := range graph.Relationships {
				if rel.SourceEntityName != edge.Source || rel.TargetEntityName != edge.Target {
					continue
				}
				if _, mapped := relToSource[relIdx]; !mapped {
					relToSource[relIdx] = sourceIdx
				}
				break
			}
		}
	}

	return relToSource
}

// factualPrecision samples source-mapped relationships and asks the referee
// whether each is supported by its passage. A failed referee call counts the
// relationship as incorrect rather than aborting the run.
func (e *Evaluator) factualPrecision(
	ctx context.Context,
	graph *kg.KnowledgeGraph,
	metrics *SemanticQualityMetrics,
) error {
	zero := 0.0

	if len(graph.Relationships) == 0 || len(graph.SourceTexts) == 0 {
		metrics.FactualPrecision = &zero
		metrics.FactualPrecisionDetails = &PrecisionBreakdown{}
		return nil
	}

	relToSource := mapRelationshipsToSources(graph)

	evaluable := make([]int, 0, len(relToSource))
	for relIdx := range graph.Relationships {
		if _, ok := relToSource[relIdx]; ok {
			evaluable = append(evaluable, relIdx)
		}
	}

	if len(evaluable) == 0 {
		metrics.FactualPrecision = &zero
		metrics.FactualPrecisionDetails = &PrecisionBreakdown{
			Error: "no relationships could be mapped to source texts",
		}
		return nil
	}

	sampled := sampleIndexes(e.rng(), len(evaluable), e.sampleSize)

	breakdown := &PrecisionBreakdown{TotalEvaluated: len(sampled)}
	for _, pick := range sampled {
		if err := ctx.Err(); err != nil {
			return err
		}

		relIdx := evaluable[pick]
		rel := graph.Relationships[relIdx]
		source := graph.SourceTexts[relToSource[relIdx]]

		verdict, err := e.referee.ClassifyFactualPrecision(ctx, rel, source)
		if err != nil {
			logger.Warn("factual precision check failed, counting as incorrect",
				"relationship", rel.String(), "error", err)
			verdict = referee.VerdictIncorrect
		}

		switch verdict {
		case referee.VerdictCorrect:
			breakdown.Correct++
		case referee.VerdictPartiallyCorrect:
			breakdown.PartiallyCorrect++
		default:
			breakdown.Incorrect++
		}
	}

	precision := (float64(breakdown.Correct) + 0.5*float64(breakdown.PartiallyCorrect)) /
		float64(breakdown.TotalEvaluated)
	precision = round(precision, 4)

	metrics.FactualPrecision = &precision
	metrics.FactualPrecisionDetails = breakdown
	return nil
}

// relevanceItem is one (knowledge item, source text) pair up for a relevance
// judgement.
type relevanceItem struct {
	item      referee.Item
	sourceIdx int
}

// contextualRelevance samples linked knowledge items and asks the referee
// whether each is a core fact of its passage. A failed referee call counts
// the item as marginal.
func (e *Evaluator) contextualRelevance(
	ctx context.Context,
	graph *kg.KnowledgeGraph,
	metrics *SemanticQualityMetrics,
) error {
	zero := 0.0

	if len(graph.SourceTexts) == 0 {
		metrics.ContextualRelevance = &zero
		metrics.ContextualRelevanceDetails = &RelevanceBreakdown{}
		return nil
	}

	var items []relevanceItem

	for i := range graph.Entities {
		entity := &graph.Entities[i]
		for sourceIdx, source := range graph.SourceTexts {
			for _, linked := range source.LinkedEntityNames {
				if linked == entity.EntityName {
					items = append(items, relevanceItem{
						item:      referee.EntityItem(entity),
						sourceIdx: sourceIdx,
					})
					break
				}
			}
		}
	}

	relToSource := mapRelationshipsToSources(graph)
	for relIdx := range graph.Relationships {
		sourceIdx, ok := relToSource[relIdx]
		if !ok {
			continue
		}
		items = append(items, relevanceItem{
			item:      referee.RelationshipItem(&graph.Relationships[relIdx]),
			sourceIdx: sourceIdx,
		})
	}

	if len(items) == 0 {
		metrics.ContextualRelevance = &zero
		metrics.ContextualRelevanceDetails = &RelevanceBreakdown{
			Error: "no knowledge items could be mapped to source texts",
		}
		return nil
	}

	sampled := sampleIndexes(e.rng(), len(items), e.sampleSize)

	breakdown := &RelevanceBreakdown{TotalEvaluated: len(sampled)}
	for _, pick := range sampled {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := items[pick]
		source := graph.SourceTexts[item.sourceIdx]

		core, err := e.referee.ClassifyRelevance(ctx, item.item, source)
		if err != nil {
			logger.Warn("relevance check failed, counting as marginal", "error", err)
			core = false
		}

		if core {
			breakdown.CoreFacts++
		} else {
			breakdown.MarginalFacts++
		}
	}

	relevance := round(float64(breakdown.CoreFacts)/float64(breakdown.TotalEvaluated), 4)

	metrics.ContextualRelevance = &relevance
	metrics.ContextualRelevanceDetails = breakdown
	return nil
}
