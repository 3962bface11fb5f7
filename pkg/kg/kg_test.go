package kg

import (
	"encoding/json"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, graph *KnowledgeGraph)
	}{
		{
			name:  "empty graph",
			input: `{"entities": [], "relationships": [], "source_texts": []}`,
			check: func(t *testing.T, graph *KnowledgeGraph) {
				if len(graph.Entities) != 0 || len(graph.Relationships) != 0 || len(graph.SourceTexts) != 0 {
					t.Fatalf("expected empty graph, got %s", graph)
				}
			},
		},
		{
			name: "full graph",
			input: `{
				"entities": [
					{"entity_name": "Marie Curie", "entity_type": "person", "description": "Physicist"},
					{"entity_name": "Polonium"}
				],
				"relationships": [
					{"source_entity_name": "Marie Curie", "target_entity_name": "Polonium", "description": "discovered", "keywords": ["discovery"], "weight": 0.9}
				],
				"source_texts": [
					{"content": "Marie Curie discovered polonium.", "linked_entity_names": ["Marie Curie", "Polonium"], "linked_edges": [["Marie Curie", "Polonium"]]}
				]
			}`,
			check: func(t *testing.T, graph *KnowledgeGraph) {
				if len(graph.Entities) != 2 {
					t.Fatalf("expected 2 entities, got %d", len(graph.Entities))
				}
				if graph.Entities[0].EntityType == nil || *graph.Entities[0].EntityType != "person" {
					t.Fatalf("unexpected entity type: %+v", graph.Entities[0])
				}
				if graph.Entities[1].EntityType != nil {
					t.Fatalf("expected absent entity type, got %v", *graph.Entities[1].EntityType)
				}
				rel := graph.Relationships[0]
				if rel.Weight == nil || *rel.Weight != 0.9 {
					t.Fatalf("unexpected weight: %+v", rel)
				}
				edges := graph.SourceTexts[0].LinkedEdges
				want := []Edge{{Source: "Marie Curie", Target: "Polonium"}}
				if !reflect.DeepEqual(edges, want) {
					t.Fatalf("expected edges %v, got %v", want, edges)
				}
			},
		},
		{
			name:    "malformed json",
			input:   `{"entities": [`,
			wantErr: true,
		},
		{
			name:    "entity missing name",
			input:   `{"entities": [{"entity_type": "person"}]}`,
			wantErr: true,
		},
		{
			name:    "relationship missing description",
			input:   `{"relationships": [{"source_entity_name": "A", "target_entity_name": "B"}]}`,
			wantErr: true,
		},
		{
			name:  "dangling endpoints pass validation",
			input: `{"entities": [], "relationships": [{"source_entity_name": "A", "target_entity_name": "B", "description": "knows"}]}`,
			check: func(t *testing.T, graph *KnowledgeGraph) {
				if len(graph.Relationships) != 1 {
					t.Fatalf("expected 1 relationship, got %d", len(graph.Relationships))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, graph)
			}
		})
	}
}

func TestEdgeJSON(t *testing.T) {
	t.Run("array form round trip", func(t *testing.T) {
		edge := Edge{Source: "A", Target: "B"}
		data, err := json.Marshal(edge)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `["A","B"]` {
			t.Fatalf("expected array encoding, got %s", data)
		}

		var decoded Edge
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if decoded != edge {
			t.Fatalf("expected %v, got %v", edge, decoded)
		}
	})

	t.Run("object form", func(t *testing.T) {
		var decoded Edge
		if err := json.Unmarshal([]byte(`{"source": "A", "target": "B"}`), &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if decoded != (Edge{Source: "A", Target: "B"}) {
			t.Fatalf("unexpected edge: %v", decoded)
		}
	})

	t.Run("invalid form", func(t *testing.T) {
		var decoded Edge
		if err := json.Unmarshal([]byte(`42`), &decoded); err == nil {
			t.Fatalf("expected error for numeric edge")
		}
	})
}

func TestRelationshipEqual(t *testing.T) {
	base := Relationship{SourceEntityName: "A", TargetEntityName: "B", Description: "knows"}

	if !base.Equal(Relationship{SourceEntityName: "A", TargetEntityName: "B", Description: "knows", Keywords: []string{"x"}}) {
		t.Fatalf("keywords must not affect identity")
	}
	if base.Equal(Relationship{SourceEntityName: "A", TargetEntityName: "B", Description: "likes"}) {
		t.Fatalf("description is part of identity")
	}
	if base.Key() != (RelationshipKey{Source: "A", Target: "B", Description: "knows"}) {
		t.Fatalf("unexpected key: %+v", base.Key())
	}
}

func TestUniqueEntityNames(t *testing.T) {
	graph := &KnowledgeGraph{
		Entities: []Entity{
			{EntityName: "A"},
			{EntityName: "B", Description: strPtr("first")},
			{EntityName: "A"},
			{EntityName: "C"},
		},
	}

	if got := graph.EntityNames(); !reflect.DeepEqual(got, []string{"A", "B", "A", "C"}) {
		t.Fatalf("EntityNames must keep duplicates, got %v", got)
	}
	if got := graph.UniqueEntityNames(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("UniqueEntityNames must collapse duplicates, got %v", got)
	}
}
