package report

import (
	"fmt"
	"sort"

	"kgeval/pkg/eval"
)

// ComparisonMetadata describes a comparison run.
type ComparisonMetadata struct {
	NumGraphs        int      `json:"num_graphs"`
	GraphNames       []string `json:"graph_names"`
	RefereeAvailable bool     `json:"referee_available"`
}

// MetricComparison contrasts one metric across graphs.
type MetricComparison struct {
	Values  map[string]float64 `json:"values"`
	Best    string             `json:"best"`
	Worst   string             `json:"worst"`
	Average float64            `json:"average"`
}

// ComparisonSummary names the graph that led the most metrics.
type ComparisonSummary struct {
	OverallWinner        string         `json:"overall_winner"`
	WinsCount            map[string]int `json:"wins_count"`
	TotalMetricsCompared int            `json:"total_metrics_compared"`
}

// ComparativeAnalysis is the cross-graph portion of a comparison.
type ComparativeAnalysis struct {
	MetricComparison map[string]MetricComparison `json:"metric_comparison"`
	Rankings         map[string][]string         `json:"rankings"`
	Summary          ComparisonSummary           `json:"summary"`
}

// Comparison holds per-graph results plus the comparative analysis.
type Comparison struct {
	Metadata            ComparisonMetadata      `json:"comparison_metadata"`
	IndividualResults   map[string]*eval.Result `json:"individual_results"`
	ComparativeAnalysis ComparativeAnalysis     `json:"comparative_analysis"`
}

// Compare builds a comparison out of named evaluation results. Names and
// results are matched by position and must have equal length.
func Compare(names []string, results []*eval.Result) (*Comparison, error) {
	if len(names) != len(results) {
		return nil, fmt.Errorf("got %d names for %d results", len(names), len(results))
	}

	comparison := &Comparison{
		Metadata: ComparisonMetadata{
			NumGraphs:  len(results),
			GraphNames: append([]string(nil), names...),
		},
		IndividualResults: make(map[string]*eval.Result, len(results)),
	}

	for i, name := range names {
		comparison.IndividualResults[name] = results[i]
		if results[i] != nil && results[i].Metadata.RefereeAvailable {
			comparison.Metadata.RefereeAvailable = true
		}
	}

	comparison.ComparativeAnalysis = analyze(names, results)
	return comparison, nil
}

// comparisonMetrics flattens the rankable key metrics of one result.
func comparisonMetrics(result *eval.Result) map[string]float64 {
	metrics := make(map[string]float64)
	if result == nil {
		return metrics
	}

	if sr := result.ScaleRichness; sr != nil {
		metrics["entity_count"] = float64(sr.EntityCount)
		metrics["relationship_count"] = float64(sr.RelationshipCount)
		metrics["property_fill_rate"] = sr.OverallPropertyFillRate
	}
	if si := result.StructuralIntegrity; si != nil {
		metrics["graph_density"] = si.GraphDensity
		metrics["lcc_ratio"] = si.LargestComponentRatio
		metrics["singleton_ratio"] = si.SingletonRatio
	}
	if sq := result.SemanticQuality; sq != nil {
		metrics["entity_normalization_score"] = sq.EntityNormalizationScore
		if sq.FactualPrecision != nil {
			metrics["factual_precision"] = *sq.FactualPrecision
		}
	}
	if eff := result.Efficiency; eff != nil {
		metrics["knowledge_density"] = eff.KnowledgeDensityPerChunk
	}

	return metrics
}

// lowerIsBetter marks metrics ranked ascending.
var lowerIsBetter = map[string]bool{
	"singleton_ratio": true,
}

func analyze(names []string, results []*eval.Result) ComparativeAnalysis {
	perGraph := make(map[string]map[string]float64, len(names))
	metricNames := make(map[string]bool)
	for i, name := range names {
		metrics := comparisonMetrics(results[i])
		perGraph[name] = metrics
		for metric := range metrics {
			metricNames[metric] = true
		}
	}

	analysis := ComparativeAnalysis{
		MetricComparison: make(map[string]MetricComparison, len(metricNames)),
		Rankings:         make(map[string][]string, len(metricNames)),
	}

	for metric := range metricNames {
		type entry struct {
			name  string
			value float64
		}
		var entries []entry
		for _, name := range names {
			if value, ok := perGraph[name][metric]; ok {
				entries = append(entries, entry{name: name, value: value})
			}
		}
		if len(entries) == 0 {
			continue
		}

		// Input order breaks ties so rankings stay deterministic.
		sort.SliceStable(entries, func(i, j int) bool {
			if lowerIsBetter[metric] {
				return entries[i].value < entries[j].value
			}
			return entries[i].value > entries[j].value
		})

		values := make(map[string]float64, len(entries))
		sum := 0.0
		ranking := make([]string, 0, len(entries))
		for _, e := range entries {
			values[e.name] = e.value
			sum += e.value
			ranking = append(ranking, e.name)
		}

		analysis.MetricComparison[metric] = MetricComparison{
			Values:  values,
			Best:    entries[0].name,
			Worst:   entries[len(entries)-1].name,
			Average: sum / float64(len(entries)),
		}
		analysis.Rankings[metric] = ranking
	}

	analysis.Summary = summarize(analysis.Rankings)
	return analysis
}

func summarize(rankings map[string][]string) ComparisonSummary {
	summary := ComparisonSummary{
		WinsCount:            make(map[string]int),
		TotalMetricsCompared: len(rankings),
	}

	metricNames := make([]string, 0, len(rankings))
	for metric := range rankings {
		metricNames = append(metricNames, metric)
	}
	sort.Strings(metricNames)

	for _, metric := range metricNames {
		ranking := rankings[metric]
		if len(ranking) == 0 {
			continue
		}
		summary.WinsCount[ranking[0]]++
	}

	bestWins := -1
	winners := make([]string, 0, len(summary.WinsCount))
	for name := range summary.WinsCount {
		winners = append(winners, name)
	}
	sort.Strings(winners)
	for _, name := range winners {
		if summary.WinsCount[name] > bestWins {
			bestWins = summary.WinsCount[name]
			summary.OverallWinner = name
		}
	}

	return summary
}
