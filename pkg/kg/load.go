package kg

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// MarshalJSON encodes an Edge as a two-element array, matching the on-disk
// format where each linked edge is a (source, target) pair.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Source, e.Target})
}

// UnmarshalJSON accepts either a two-element array or an object with
// source/target keys.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err == nil {
		e.Source = pair[0]
		e.Target = pair[1]
		return nil
	}

	var obj struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("linked edge must be a [source, target] pair: %w", err)
	}
	e.Source = obj.Source
	e.Target = obj.Target
	return nil
}

// Parse decodes a knowledge graph from JSON and validates its shape.
// Malformed input is an error for the caller; degenerate but well-typed
// values (empty lists, missing optional fields, dangling endpoints) pass.
func Parse(data []byte) (*KnowledgeGraph, error) {
	graph := new(KnowledgeGraph)
	if err := json.Unmarshal(data, graph); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge graph: %w", err)
	}

	for i, entity := range graph.Entities {
		if err := validate.Struct(entity); err != nil {
			return nil, fmt.Errorf("invalid entity at index %d: %w", i, err)
		}
	}
	for i, rel := range graph.Relationships {
		if err := validate.Struct(rel); err != nil {
			return nil, fmt.Errorf("invalid relationship at index %d: %w", i, err)
		}
	}

	return graph, nil
}
