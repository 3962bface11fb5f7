package graph

// ConnectedComponents computes the connected components of the undirected
// view of the graph: two nodes are adjacent when an edge exists between them
// in either direction.
//
// Components are returned in order of their lowest-index member, so the
// result is deterministic for a given build. Membership order within a
// component is unspecified.
func (d *Directed) ConnectedComponents() [][]string {
	visited := make(map[string]bool, len(d.nodes))
	var components [][]string

	for _, start := range d.nodes {
		if visited[start] {
			continue
		}

		component := []string{}
		queue := []string{start}
		visited[start] = true

		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			component = append(component, node)

			for neighbor := range d.out[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
			for neighbor := range d.in[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		components = append(components, component)
	}

	return components
}
