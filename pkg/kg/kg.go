package kg

import "fmt"

// Entity represents a node in the knowledge graph. An entity can be an
// organization, person, location, or any other relevant concept.
//
// EntityName is the identity of the entity: two entities are considered the
// same iff their names match exactly (case-sensitive, no normalization).
// EntityType and Description are optional metadata; a nil pointer means the
// attribute is absent, which is distinct from an empty string.
type Entity struct {
	EntityName  string  `json:"entity_name" validate:"required"`
	EntityType  *string `json:"entity_type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Equal reports whether two entities share the same identity.
func (e Entity) Equal(other Entity) bool {
	return e.EntityName == other.EntityName
}

func (e Entity) String() string {
	return e.EntityName
}

// Relationship represents a directed edge between two entity names.
//
// Endpoints reference Entity.EntityName by value; referential integrity is
// not enforced, so a relationship may point at a name that does not appear in
// the entity list. Consumers must tolerate such dangling endpoints.
//
// Weight is optional. Graph construction treats a missing weight as 1.0,
// while the fill-rate counters treat it as absent; the two readings diverge
// on purpose.
type Relationship struct {
	SourceEntityName string   `json:"source_entity_name" validate:"required"`
	TargetEntityName string   `json:"target_entity_name" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	Keywords         []string `json:"keywords,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
}

// Equal reports whether two relationships share the same identity, which is
// the (source, target, description) triple.
func (r Relationship) Equal(other Relationship) bool {
	return r.SourceEntityName == other.SourceEntityName &&
		r.TargetEntityName == other.TargetEntityName &&
		r.Description == other.Description
}

// Key returns the identity triple, usable as a map key.
func (r Relationship) Key() RelationshipKey {
	return RelationshipKey{
		Source:      r.SourceEntityName,
		Target:      r.TargetEntityName,
		Description: r.Description,
	}
}

// RelationshipKey is the comparable identity of a Relationship.
type RelationshipKey struct {
	Source      string
	Target      string
	Description string
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s -> %s: %s", r.SourceEntityName, r.TargetEntityName, r.Description)
}

// Edge identifies a directed (source, target) pair inside a SourceText.
type Edge struct {
	Source string
	Target string
}

// SourceText represents an original text passage from which knowledge was
// extracted. LinkedEntityNames and LinkedEdges record which entities and
// relationships the passage is believed to support; they are value-based
// references and carry no integrity guarantee.
type SourceText struct {
	Content           string   `json:"content"`
	LinkedEntityNames []string `json:"linked_entity_names"`
	LinkedEdges       []Edge   `json:"linked_edges"`
}

func (s SourceText) String() string {
	return fmt.Sprintf("SourceText(%d chars, %d entities, %d edges)",
		len(s.Content), len(s.LinkedEntityNames), len(s.LinkedEdges))
}

// KnowledgeGraph is the top-level container for all evaluation input: the
// entity list, the relationship list, and the source texts.
//
// No invariant is enforced at construction time. In particular the entity
// list may contain duplicate names: the list preserves them while set-style
// operations (the graph builder, UniqueEntityNames) collapse them. Integrity
// is something the evaluator measures, not something this type guarantees.
type KnowledgeGraph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	SourceTexts   []SourceText   `json:"source_texts"`
}

// EntityNames returns the entity names in list order, duplicates included.
func (k *KnowledgeGraph) EntityNames() []string {
	names := make([]string, 0, len(k.Entities))
	for _, entity := range k.Entities {
		names = append(names, entity.EntityName)
	}
	return names
}

// UniqueEntityNames returns the entity names in first-seen order with
// duplicates collapsed.
func (k *KnowledgeGraph) UniqueEntityNames() []string {
	seen := make(map[string]bool, len(k.Entities))
	names := make([]string, 0, len(k.Entities))
	for _, entity := range k.Entities {
		if seen[entity.EntityName] {
			continue
		}
		seen[entity.EntityName] = true
		names = append(names, entity.EntityName)
	}
	return names
}

// EntityByName returns the first entity with the given name, or nil.
func (k *KnowledgeGraph) EntityByName(name string) *Entity {
	for i := range k.Entities {
		if k.Entities[i].EntityName == name {
			return &k.Entities[i]
		}
	}
	return nil
}

// RelationshipsForEntity returns all relationships where the named entity
// appears as source or target.
func (k *KnowledgeGraph) RelationshipsForEntity(name string) []Relationship {
	var result []Relationship
	for _, rel := range k.Relationships {
		if rel.SourceEntityName == name || rel.TargetEntityName == name {
			result = append(result, rel)
		}
	}
	return result
}

func (k *KnowledgeGraph) String() string {
	return fmt.Sprintf("KnowledgeGraph(%d entities, %d relationships, %d source texts)",
		len(k.Entities), len(k.Relationships), len(k.SourceTexts))
}
