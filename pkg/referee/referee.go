package referee

import (
	"context"

	"kgeval/pkg/kg"
)

// Verdict is the outcome of a factual-precision check.
type Verdict string

const (
	VerdictCorrect          Verdict = "correct"
	VerdictPartiallyCorrect Verdict = "partially_correct"
	VerdictIncorrect        Verdict = "incorrect"
)

// ItemKind distinguishes the kinds of knowledge items a referee can judge.
type ItemKind string

const (
	ItemEntity       ItemKind = "entity"
	ItemRelationship ItemKind = "relationship"
)

// Item is a knowledge item submitted for a relevance judgement. Exactly one
// of Entity or Relationship is set, as indicated by Kind.
type Item struct {
	Kind         ItemKind
	Entity       *kg.Entity
	Relationship *kg.Relationship
}

// EntityItem wraps an entity for a relevance judgement.
func EntityItem(entity *kg.Entity) Item {
	return Item{Kind: ItemEntity, Entity: entity}
}

// RelationshipItem wraps a relationship for a relevance judgement.
func RelationshipItem(rel *kg.Relationship) Item {
	return Item{Kind: ItemRelationship, Relationship: rel}
}

// Referee is the external judging capability used by the semantic-quality
// dimension. Implementations wrap a concrete model provider; the evaluator
// never branches on which provider backs the interface.
type Referee interface {
	// ClassifyFactualPrecision judges whether a relationship is supported by
	// the source passage it was extracted from.
	ClassifyFactualPrecision(
		ctx context.Context,
		rel kg.Relationship,
		source kg.SourceText,
	) (Verdict, error)

	// ClassifyRelevance judges whether a knowledge item is a core fact of the
	// source passage (true) or marginal information (false).
	ClassifyRelevance(
		ctx context.Context,
		item Item,
		source kg.SourceText,
	) (bool, error)
}
