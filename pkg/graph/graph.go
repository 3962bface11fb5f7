package graph

import "kgeval/pkg/kg"

// EdgeAttrs holds the attributes attached to a directed edge. When several
// relationships share the same (source, target) pair, the attributes of the
// last relationship in list order win.
type EdgeAttrs struct {
	Description string
	Keywords    []string
	Weight      float64
}

// Directed is an adjacency-based directed graph rebuilt fresh for every
// evaluation. Node insertion order is preserved so that ranking tie-breaks
// are stable across runs.
//
// The graph owns no state beyond the evaluation call that built it.
type Directed struct {
	nodes []string
	index map[string]int
	out   map[string]map[string]*EdgeAttrs
	in    map[string]map[string]*EdgeAttrs
	edges int
}

// NewDirected returns an empty directed graph.
func NewDirected() *Directed {
	return &Directed{
		index: make(map[string]int),
		out:   make(map[string]map[string]*EdgeAttrs),
		in:    make(map[string]map[string]*EdgeAttrs),
	}
}

// BuildDirected converts a knowledge graph into a directed graph.
//
// The node set is the set of entity names (duplicates collapse). Each
// relationship becomes one directed edge keyed by (source, target) with a
// last-write-wins overwrite of attributes; a missing weight defaults to 1.0.
// Endpoints absent from the entity list are added as implicit nodes, so the
// node count of the built graph may exceed the unique entity count.
func BuildDirected(graph *kg.KnowledgeGraph) *Directed {
	d := NewDirected()

	for _, entity := range graph.Entities {
		d.AddNode(entity.EntityName)
	}

	for _, rel := range graph.Relationships {
		weight := 1.0
		if rel.Weight != nil {
			weight = *rel.Weight
		}
		d.SetEdge(rel.SourceEntityName, rel.TargetEntityName, EdgeAttrs{
			Description: rel.Description,
			Keywords:    rel.Keywords,
			Weight:      weight,
		})
	}

	return d
}

// AddNode inserts a node if it is not already present.
func (d *Directed) AddNode(name string) {
	if _, ok := d.index[name]; ok {
		return
	}
	d.index[name] = len(d.nodes)
	d.nodes = append(d.nodes, name)
}

// SetEdge inserts or overwrites the directed edge (source, target), creating
// missing endpoint nodes.
func (d *Directed) SetEdge(source, target string, attrs EdgeAttrs) {
	d.AddNode(source)
	d.AddNode(target)

	if d.out[source] == nil {
		d.out[source] = make(map[string]*EdgeAttrs)
	}
	if d.in[target] == nil {
		d.in[target] = make(map[string]*EdgeAttrs)
	}

	if _, exists := d.out[source][target]; !exists {
		d.edges++
	}
	stored := attrs
	d.out[source][target] = &stored
	d.in[target][source] = &stored
}

// Nodes returns the node names in insertion order. The returned slice is a
// copy and safe to mutate.
func (d *Directed) Nodes() []string {
	nodes := make([]string, len(d.nodes))
	copy(nodes, d.nodes)
	return nodes
}

// HasNode reports whether a node exists.
func (d *Directed) HasNode(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Edge returns the attributes of the directed edge (source, target), if any.
func (d *Directed) Edge(source, target string) (EdgeAttrs, bool) {
	if attrs, ok := d.out[source][target]; ok {
		return *attrs, true
	}
	return EdgeAttrs{}, false
}

// NodeCount returns the number of nodes, implicit nodes included.
func (d *Directed) NodeCount() int {
	return len(d.nodes)
}

// EdgeCount returns the number of directed edges after (source, target)
// deduplication.
func (d *Directed) EdgeCount() int {
	return d.edges
}

// OutDegree returns the number of outgoing edges of a node.
func (d *Directed) OutDegree(name string) int {
	return len(d.out[name])
}

// InDegree returns the number of incoming edges of a node.
func (d *Directed) InDegree(name string) int {
	return len(d.in[name])
}

// Successors returns the targets of all outgoing edges of a node.
func (d *Directed) Successors(name string) []string {
	targets := make([]string, 0, len(d.out[name]))
	for target := range d.out[name] {
		targets = append(targets, target)
	}
	return targets
}

// Predecessors returns the sources of all incoming edges of a node.
func (d *Directed) Predecessors(name string) []string {
	sources := make([]string, 0, len(d.in[name]))
	for source := range d.in[name] {
		sources = append(sources, source)
	}
	return sources
}

// Density returns the standard directed-graph density |E| / (|V|*(|V|-1)),
// computed over the built graph (implicit nodes included). Graphs with fewer
// than two nodes have density 0.
func (d *Directed) Density() float64 {
	n := float64(len(d.nodes))
	if n <= 1 {
		return 0.0
	}
	return float64(d.edges) / (n * (n - 1))
}

// DegreeCentrality returns the normalized degree (in + out) / (N - 1) for
// every node. For graphs with a single node all centralities are 0.
func (d *Directed) DegreeCentrality() map[string]float64 {
	centrality := make(map[string]float64, len(d.nodes))
	n := len(d.nodes)
	if n <= 1 {
		for _, node := range d.nodes {
			centrality[node] = 0.0
		}
		return centrality
	}
	denom := float64(n - 1)
	for _, node := range d.nodes {
		centrality[node] = float64(len(d.in[node])+len(d.out[node])) / denom
	}
	return centrality
}
