package graph

import (
	"errors"
	"math"
)

// PageRank configuration defaults.
const (
	// DefaultDampingFactor is the probability of following a link instead of
	// jumping to a random node. Standard value from the PageRank paper.
	DefaultDampingFactor = 0.85

	// DefaultMaxIterations bounds the power iteration.
	DefaultMaxIterations = 100

	// DefaultConvergence stops iteration once the total score change per
	// round drops below this threshold.
	DefaultConvergence = 1e-6
)

// ErrNotConverged is returned when power iteration exhausts its iteration
// budget without reaching the convergence threshold.
var ErrNotConverged = errors.New("pagerank did not converge")

// PageRankOptions configures the PageRank computation.
type PageRankOptions struct {
	// DampingFactor must be in [0, 1]; invalid values fall back to the default.
	DampingFactor float64

	// MaxIterations must be > 0; invalid values fall back to the default.
	MaxIterations int

	// Convergence must be > 0; invalid values fall back to the default.
	Convergence float64

	// Weighted distributes a node's score across its outgoing edges in
	// proportion to edge weight instead of uniformly.
	Weighted bool
}

func (o *PageRankOptions) validate() {
	if o.DampingFactor < 0 || o.DampingFactor > 1 {
		o.DampingFactor = DefaultDampingFactor
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Convergence <= 0 {
		o.Convergence = DefaultConvergence
	}
}

// PageRankResult contains the outcome of a PageRank computation. Converged
// is a first-class field so callers can branch on non-convergence without
// inspecting errors.
type PageRankResult struct {
	// Scores maps node name to PageRank score; scores sum to roughly 1.
	Scores map[string]float64

	// Iterations is the number of power-iteration rounds performed.
	Iterations int

	// Converged reports whether the total score change dropped below the
	// convergence threshold within the iteration budget.
	Converged bool
}

// PageRank computes PageRank scores over the directed graph using power
// iteration with a uniform restart distribution. Sink nodes (no outgoing
// edges, or zero total outgoing weight in weighted mode) have their score
// redistributed evenly across all nodes each round, so no rank leaks.
//
// An empty graph yields an empty, converged result.
func (d *Directed) PageRank(opts PageRankOptions) PageRankResult {
	opts.validate()

	n := float64(len(d.nodes))
	if n == 0 {
		return PageRankResult{Scores: map[string]float64{}, Converged: true}
	}

	damping := opts.DampingFactor

	// Total outgoing mass per node; sinks get no entry.
	outMass := make(map[string]float64, len(d.nodes))
	for _, node := range d.nodes {
		mass := 0.0
		for _, attrs := range d.out[node] {
			if opts.Weighted {
				mass += attrs.Weight
			} else {
				mass += 1.0
			}
		}
		outMass[node] = mass
	}

	scores := make(map[string]float64, len(d.nodes))
	next := make(map[string]float64, len(d.nodes))
	initial := 1.0 / n
	for _, node := range d.nodes {
		scores[node] = initial
	}

	var iterations int
	var converged bool

	for iter := 0; iter < opts.MaxIterations; iter++ {
		sinkMass := 0.0
		for _, node := range d.nodes {
			if outMass[node] == 0 {
				sinkMass += scores[node]
			}
		}
		sinkShare := damping * sinkMass / n

		totalDiff := 0.0
		for _, node := range d.nodes {
			score := (1-damping)/n + sinkShare

			for source, attrs := range d.in[node] {
				mass := outMass[source]
				if mass <= 0 {
					continue
				}
				edgeWeight := 1.0
				if opts.Weighted {
					edgeWeight = attrs.Weight
				}
				score += damping * scores[source] * edgeWeight / mass
			}

			next[node] = score
			totalDiff += math.Abs(score - scores[node])
		}

		scores, next = next, scores
		iterations = iter + 1

		if totalDiff < opts.Convergence*n {
			converged = true
			break
		}
	}

	return PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
	}
}
