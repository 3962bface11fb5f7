package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders the report as a Markdown summary of the key metrics
// per dimension.
func (r *Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Knowledge Graph Evaluation Report\n\n")
	fmt.Fprintf(&b, "**Generated at:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	results := r.Results
	if results == nil {
		_, err := io.WriteString(w, b.String())
		return err
	}

	meta := results.Metadata
	b.WriteString("## Evaluation Metadata\n\n")
	fmt.Fprintf(&b, "- **Knowledge Graph:** %s\n", meta.KGSummary)
	fmt.Fprintf(&b, "- **Referee Available:** %t\n", meta.RefereeAvailable)
	fmt.Fprintf(&b, "- **Sample Size:** %d\n", meta.SampleSize)
	fmt.Fprintf(&b, "- **Included Dimensions:** %s\n\n", strings.Join(meta.IncludedDimensions, ", "))

	if sr := results.ScaleRichness; sr != nil {
		b.WriteString("## Scale & Richness\n\n")
		fmt.Fprintf(&b, "- **Entity Count:** %d\n", sr.EntityCount)
		fmt.Fprintf(&b, "- **Relationship Count:** %d\n", sr.RelationshipCount)
		fmt.Fprintf(&b, "- **Property Fill Rate:** %.4f\n", sr.OverallPropertyFillRate)
		fmt.Fprintf(&b, "- **Unique Relationship Types:** %d\n\n", sr.UniqueRelationshipTypes)
	}

	if si := results.StructuralIntegrity; si != nil {
		b.WriteString("## Structural Integrity\n\n")
		fmt.Fprintf(&b, "- **Graph Density:** %.4f\n", si.GraphDensity)
		fmt.Fprintf(&b, "- **LCC Ratio:** %.4f\n", si.LargestComponentRatio)
		fmt.Fprintf(&b, "- **Singleton Ratio:** %.4f\n", si.SingletonRatio)
		fmt.Fprintf(&b, "- **Connected Components:** %d\n\n", si.ConnectedComponentsCount)
	}

	if sq := results.SemanticQuality; sq != nil {
		b.WriteString("## Semantic Quality\n\n")
		fmt.Fprintf(&b, "- **Entity Normalization Score:** %.4f\n", sq.EntityNormalizationScore)
		if sq.FactualPrecision != nil {
			fmt.Fprintf(&b, "- **Factual Precision:** %.4f\n", *sq.FactualPrecision)
		} else {
			b.WriteString("- **Factual Precision:** Not evaluated (referee required)\n")
		}
		if sq.ContextualRelevance != nil {
			fmt.Fprintf(&b, "- **Contextual Relevance:** %.4f\n", *sq.ContextualRelevance)
		} else {
			b.WriteString("- **Contextual Relevance:** Not evaluated (referee required)\n")
		}
		fmt.Fprintf(&b, "- **Alias Pairs Count:** %d\n\n", sq.AliasPairsCount)
	}

	if eff := results.Efficiency; eff != nil {
		b.WriteString("## Efficiency\n\n")
		fmt.Fprintf(&b, "- **Knowledge Density per Chunk:** %.4f\n", eff.KnowledgeDensityPerChunk)
		fmt.Fprintf(&b, "- **Productive Source Ratio:** %.4f\n", eff.ProductiveSourceRatio)
		fmt.Fprintf(&b, "- **Average Source Text Length:** %.2f\n", eff.AverageSourceTextLength)
		if eff.TotalSourceTokens > 0 {
			fmt.Fprintf(&b, "- **Total Source Tokens:** %d\n", eff.TotalSourceTokens)
			fmt.Fprintf(&b, "- **Knowledge Items per 1k Tokens:** %.4f\n", eff.KnowledgePerKilotoken)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
