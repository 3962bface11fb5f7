package referee

import (
	"fmt"
	"strings"

	"kgeval/pkg/kg"
)

// FactualPrecisionPrompt asks the model to grade a relationship against the
// passage it was extracted from. Placeholders: passage, source entity,
// target entity, relationship description.
const FactualPrecisionPrompt = `You are evaluating the factual accuracy of extracted knowledge from text.

Source Text:
"%s"

Extracted Relationship:
- Source Entity: %s
- Target Entity: %s
- Relationship: %s

Question: Is this relationship factually correct according to the source text?

Respond with exactly one of:
- "CORRECT" if the relationship is fully supported by the source text
- "PARTIALLY_CORRECT" if the relationship is somewhat supported but has inaccuracies
- "INCORRECT" if the relationship is not supported or contradicted by the source text`

// ContextualRelevancePrompt asks the model whether a knowledge item is a
// core fact of the passage or marginal information. Placeholders: passage,
// item description.
const ContextualRelevancePrompt = `You are evaluating the importance of extracted knowledge from text.

Source Text:
"%s"

Extracted Knowledge:
%s

Question: Is this extracted knowledge a CORE FACT or MARGINAL information from the source text?

Core facts are central, important information that represents the main content or key details.
Marginal information is peripheral, trivial, or secondary details.

Respond with exactly one of:
- "CORE" if this is important, central information
- "MARGINAL" if this is peripheral or trivial information`

// BuildFactualPrecisionPrompt renders the factual-precision prompt for a
// relationship and its source passage.
func BuildFactualPrecisionPrompt(rel kg.Relationship, source kg.SourceText) string {
	return fmt.Sprintf(FactualPrecisionPrompt,
		source.Content,
		rel.SourceEntityName,
		rel.TargetEntityName,
		rel.Description,
	)
}

// BuildRelevancePrompt renders the contextual-relevance prompt for a
// knowledge item and its source passage.
func BuildRelevancePrompt(item Item, source kg.SourceText) string {
	return fmt.Sprintf(ContextualRelevancePrompt, source.Content, describeItem(item))
}

func describeItem(item Item) string {
	switch item.Kind {
	case ItemEntity:
		if item.Entity == nil {
			return "Entity: <missing>"
		}
		desc := fmt.Sprintf("Entity: %s", item.Entity.EntityName)
		if item.Entity.EntityType != nil {
			desc += fmt.Sprintf(" (Type: %s)", *item.Entity.EntityType)
		}
		return desc
	default:
		if item.Relationship == nil {
			return "Relationship: <missing>"
		}
		return fmt.Sprintf("Relationship: %s", item.Relationship.String())
	}
}

// ParseVerdict maps free-form model output onto a Verdict. Unrecognized
// output resolves to the most conservative verdict.
func ParseVerdict(raw string) Verdict {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(normalized, "partial"):
		return VerdictPartiallyCorrect
	case strings.Contains(normalized, "incorrect"):
		return VerdictIncorrect
	case strings.Contains(normalized, "correct"):
		return VerdictCorrect
	default:
		return VerdictIncorrect
	}
}

// ParseRelevance maps free-form model output onto the core/marginal boolean.
func ParseRelevance(raw string) bool {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return strings.Contains(normalized, "core") || strings.Contains(normalized, "important")
}
