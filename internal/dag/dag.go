// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for cycle detection
// and deterministic ordering. The inventory resolver uses it to verify that
// group membership edges (parent group to child group) never form a cycle
// before any variable merging happens.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle. Cycle holds the
	// nodes along one concrete cycle path, starting and ending on the same
	// node (e.g. ["web", "db", "web"]).
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph keyed by string node names. Edges point from
	// a parent to the nodes it contains.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("membership cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added
// if they don't exist. Duplicate edges are dropped.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, n := range g.adjacency[from] {
		if n == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Neighbors returns the outgoing neighbors of a node in edge insertion order.
func (g *Graph) Neighbors(name string) []string {
	return g.adjacency[name]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// TopologicalSort returns a valid order using Kahn's algorithm, or CycleError
// if the graph contains a cycle. The order is deterministic: nodes at the
// same topological level appear in the order they were first added.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle()}
	}

	return result, nil
}

// findCycle walks the graph depth-first and returns one concrete cycle path.
// Only called after Kahn's algorithm has proven a cycle exists.
func (g *Graph) findCycle() []string {
	const (
		white = iota // unvisited
		gray         // on the current DFS stack
		black        // fully explored
	)

	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		stack = append(stack, node)

		for _, neighbor := range g.adjacency[node] {
			switch color[neighbor] {
			case gray:
				// Found the back edge; slice the stack from the first
				// occurrence of neighbor and close the loop.
				for i, n := range stack {
					if n == neighbor {
						cycle = append(append([]string{}, stack[i:]...), neighbor)
						return true
					}
				}
			case white:
				if visit(neighbor) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = black
		return false
	}

	for _, node := range g.nodes {
		if color[node] == white && visit(node) {
			return cycle
		}
	}
	return nil
}
