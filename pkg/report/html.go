package report

import (
	"fmt"
	"html/template"
	"io"

	"kgeval/pkg/eval"
)

// DimensionScore is one axis of the 0-10 summary used by the HTML report.
type DimensionScore struct {
	Name  string
	Score float64
}

// densityScaleCap caps knowledge density when scaling it onto the 0-10 axis.
const densityScaleCap = 5.0

// SummaryScores condenses a result into per-dimension scores on a 0-10 scale:
// fill rate drives richness, LCC ratio drives connectivity, normalization and
// factual precision drive the semantic axes, and capped knowledge density
// drives efficiency.
func SummaryScores(results *eval.Result) []DimensionScore {
	var scores []DimensionScore
	if results == nil {
		return scores
	}

	if sr := results.ScaleRichness; sr != nil {
		scores = append(scores, DimensionScore{Name: "Richness", Score: sr.OverallPropertyFillRate * 10})
	}
	if si := results.StructuralIntegrity; si != nil {
		scores = append(scores, DimensionScore{Name: "Connectivity", Score: si.LargestComponentRatio * 10})
	}
	if sq := results.SemanticQuality; sq != nil {
		scores = append(scores, DimensionScore{Name: "Normalization", Score: sq.EntityNormalizationScore * 10})
		if sq.FactualPrecision != nil {
			scores = append(scores, DimensionScore{Name: "Faithfulness", Score: *sq.FactualPrecision * 10})
		}
	}
	if eff := results.Efficiency; eff != nil {
		density := eff.KnowledgeDensityPerChunk
		if density > densityScaleCap {
			density = densityScaleCap
		}
		scores = append(scores, DimensionScore{Name: "Efficiency", Score: density / densityScaleCap * 10})
	}

	return scores
}

var htmlFuncs = template.FuncMap{
	// pct turns a 0-10 score into a bar width percentage.
	"pct": func(score float64) string {
		return fmt.Sprintf("%.0f", score*10)
	},
	// optional formats a nullable metric, "n/a" when absent.
	"optional": func(value *float64) string {
		if value == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.4f", *value)
	},
}

var htmlReport = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Knowledge Graph Evaluation Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; color: #333; background: #f5f5f5; padding: 20px; }
.container { max-width: 1000px; margin: 0 auto; background: white; border-radius: 10px; box-shadow: 0 4px 12px rgba(0,0,0,0.1); overflow: hidden; }
.header { background: #2c3e50; color: white; padding: 30px; text-align: center; }
.header h1 { font-weight: 300; margin: 0 0 10px; }
.meta { font-size: 0.9em; opacity: 0.85; }
.section { margin: 25px; padding: 20px; border: 1px solid #e9ecef; border-radius: 10px; }
.section h2 { color: #2c3e50; margin-top: 0; }
.metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 15px; }
.metric { background: #f8f9fa; padding: 14px; border-radius: 8px; border-left: 4px solid #007acc; }
.metric-name { font-size: 0.85em; color: #495057; font-weight: bold; }
.metric-value { font-size: 1.3em; font-weight: bold; color: #007acc; }
.scorebar { background: #e9ecef; border-radius: 4px; height: 8px; margin-top: 6px; }
.scorefill { background: #007acc; border-radius: 4px; height: 8px; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Knowledge Graph Evaluation Report</h1>
<div class="meta">{{with .Report.Results}}{{.Metadata.KGSummary}} &middot; {{end}}generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}} UTC</div>
</div>

{{with .Scores}}
<div class="section">
<h2>Summary</h2>
<div class="metrics">
{{range .}}
<div class="metric">
<div class="metric-name">{{.Name}}</div>
<div class="metric-value">{{printf "%.1f" .Score}} / 10</div>
<div class="scorebar"><div class="scorefill" style="width: {{pct .Score}}%"></div></div>
</div>
{{end}}
</div>
</div>
{{end}}

{{with .Report.Results.ScaleRichness}}
<div class="section">
<h2>Scale &amp; Richness</h2>
<div class="metrics">
<div class="metric"><div class="metric-name">Entities</div><div class="metric-value">{{.EntityCount}}</div></div>
<div class="metric"><div class="metric-name">Relationships</div><div class="metric-value">{{.RelationshipCount}}</div></div>
<div class="metric"><div class="metric-name">Source Texts</div><div class="metric-value">{{.SourceTextCount}}</div></div>
<div class="metric"><div class="metric-name">Property Fill Rate</div><div class="metric-value">{{printf "%.4f" .OverallPropertyFillRate}}</div></div>
<div class="metric"><div class="metric-name">Unique Relationship Types</div><div class="metric-value">{{.UniqueRelationshipTypes}}</div></div>
<div class="metric"><div class="metric-name">Diversity Score</div><div class="metric-value">{{printf "%.4f" .RelationshipDiversityScore}}</div></div>
</div>
</div>
{{end}}

{{with .Report.Results.StructuralIntegrity}}
<div class="section">
<h2>Structural Integrity</h2>
<div class="metrics">
<div class="metric"><div class="metric-name">Graph Density</div><div class="metric-value">{{printf "%.4f" .GraphDensity}}</div></div>
<div class="metric"><div class="metric-name">LCC Ratio</div><div class="metric-value">{{printf "%.4f" .LargestComponentRatio}}</div></div>
<div class="metric"><div class="metric-name">Singleton Ratio</div><div class="metric-value">{{printf "%.4f" .SingletonRatio}}</div></div>
<div class="metric"><div class="metric-name">Connected Components</div><div class="metric-value">{{.ConnectedComponentsCount}}</div></div>
<div class="metric"><div class="metric-name">PageRank Entropy</div><div class="metric-value">{{printf "%.4f" .PageRankEntropy}}</div></div>
<div class="metric"><div class="metric-name">Avg Degree Centrality</div><div class="metric-value">{{printf "%.4f" .AverageDegreeCentrality}}</div></div>
</div>
</div>
{{end}}

{{with .Report.Results.SemanticQuality}}
<div class="section">
<h2>Semantic Quality</h2>
<div class="metrics">
<div class="metric"><div class="metric-name">Entity Normalization</div><div class="metric-value">{{printf "%.4f" .EntityNormalizationScore}}</div></div>
<div class="metric"><div class="metric-name">Alias Pairs</div><div class="metric-value">{{.AliasPairsCount}}</div></div>
<div class="metric"><div class="metric-name">Factual Precision</div><div class="metric-value">{{optional .FactualPrecision}}</div></div>
<div class="metric"><div class="metric-name">Contextual Relevance</div><div class="metric-value">{{optional .ContextualRelevance}}</div></div>
</div>
</div>
{{end}}

{{with .Report.Results.Efficiency}}
<div class="section">
<h2>Efficiency</h2>
<div class="metrics">
<div class="metric"><div class="metric-name">Knowledge Density / Chunk</div><div class="metric-value">{{printf "%.4f" .KnowledgeDensityPerChunk}}</div></div>
<div class="metric"><div class="metric-name">Productive Source Ratio</div><div class="metric-value">{{printf "%.4f" .ProductiveSourceRatio}}</div></div>
<div class="metric"><div class="metric-name">Avg Source Length</div><div class="metric-value">{{printf "%.2f" .AverageSourceTextLength}}</div></div>
<div class="metric"><div class="metric-name">Total Source Tokens</div><div class="metric-value">{{.TotalSourceTokens}}</div></div>
</div>
</div>
{{end}}

</div>
</body>
</html>
`))

// WriteHTML renders the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	report := r
	if report.Results == nil {
		report = &Report{GeneratedAt: r.GeneratedAt, Results: &eval.Result{}}
	}

	data := struct {
		Report *Report
		Scores []DimensionScore
	}{Report: report, Scores: SummaryScores(report.Results)}

	return htmlReport.Execute(w, data)
}
