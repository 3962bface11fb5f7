package eval

import (
	"fmt"
	"sort"

	"kgeval/pkg/graph"
	"kgeval/pkg/kg"
	"kgeval/pkg/logger"
)

// evaluateStructuralIntegrity analyzes the topology of the built graph:
// density, connectivity, and centrality distribution.
//
// A graph without entities or without relationships gets the fixed empty
// contract: zero density, zero LCC ratio, singleton ratio 1.0, and zero
// components.
func (e *Evaluator) evaluateStructuralIntegrity(kgraph *kg.KnowledgeGraph) (*StructuralMetrics, error) {
	if len(kgraph.Entities) == 0 || len(kgraph.Relationships) == 0 {
		return &StructuralMetrics{
			SingletonRatio: 1.0,
		}, nil
	}

	directed := graph.BuildDirected(kgraph)

	metrics := &StructuralMetrics{
		GraphDensity:    round(float64(len(kgraph.Relationships))/float64(len(kgraph.Entities)), 4),
		DirectedDensity: round(directed.Density(), 4),
	}

	connectedness(directed, metrics)
	if err := e.centrality(directed, metrics); err != nil {
		return nil, err
	}

	return metrics, nil
}

// connectedness fills in the component metrics over the undirected view.
func connectedness(directed *graph.Directed, metrics *StructuralMetrics) {
	components := directed.ConnectedComponents()
	nodeCount := directed.NodeCount()

	largest := 0
	singletons := 0
	sizeSum := 0
	distribution := make(map[int]int, len(components))
	for _, component := range components {
		size := len(component)
		if size > largest {
			largest = size
		}
		if size == 1 {
			singletons++
		}
		sizeSum += size
		distribution[size]++
	}

	metrics.LargestComponentRatio = round(float64(largest)/float64(nodeCount), 4)
	metrics.SingletonRatio = round(float64(singletons)/float64(nodeCount), 4)
	metrics.ConnectedComponentsCount = len(components)
	metrics.AverageComponentSize = round(float64(sizeSum)/float64(len(components)), 4)
	metrics.ComponentSizeDistribution = distribution
}

// centrality computes PageRank (weighted first, unweighted as a fallback when
// the weighted run does not converge) and degree-centrality summaries.
func (e *Evaluator) centrality(directed *graph.Directed, metrics *StructuralMetrics) error {
	result := directed.PageRank(graph.PageRankOptions{Weighted: true})
	if !result.Converged {
		logger.Warn("weighted pagerank did not converge, retrying unweighted",
			"iterations", result.Iterations)
		result = directed.PageRank(graph.PageRankOptions{})
		if !result.Converged {
			return fmt.Errorf("centrality analysis failed: %w", graph.ErrNotConverged)
		}
		metrics.PageRankUnweightedFallback = true
	}

	nodes := directed.Nodes()
	scores := make([]float64, 0, len(nodes))
	ranked := make([]EntityScore, 0, len(nodes))
	for _, node := range nodes {
		score := result.Scores[node]
		scores = append(scores, score)
		ranked = append(ranked, EntityScore{EntityName: node, Score: score})
	}

	metrics.PageRankEntropy = round(shannonEntropy(scores), 4)
	metrics.CentralityStats = CentralityStats{
		Mean: round(mean(scores), 6),
		Std:  round(std(scores), 6),
		Max:  round(maxOf(scores), 6),
		Min:  round(minOf(scores), 6),
	}

	// Score descending, node insertion order breaking ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	for i := range ranked {
		ranked[i].Score = round(ranked[i].Score, 6)
	}
	metrics.TopCentralEntities = ranked

	degrees := directed.DegreeCentrality()
	degreeValues := make([]float64, 0, len(degrees))
	for _, node := range nodes {
		degreeValues = append(degreeValues, degrees[node])
	}
	metrics.AverageDegreeCentrality = round(mean(degreeValues), 4)

	return nil
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
