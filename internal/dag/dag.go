// SPDX-License-Identifier: MPL-2.0

// Package dag orders named steps by their "runs after" edges. The build
// pipeline uses it to order phases and the hooks attached to them.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes left unordered, in insertion order. It includes
		// every node on a cycle and may include nodes downstream of one.
		Cycle []string
	}

	// Graph is a directed graph over string-like node names. An edge from A
	// to B means A must complete before B starts.
	Graph[N ~string] struct {
		adjacency map[N][]N
		nodes     []N
		nodeSet   map[N]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New[N ~string]() *Graph[N] {
	return &Graph[N]{
		adjacency: make(map[N][]N),
		nodeSet:   make(map[N]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph[N]) AddNode(name N) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must run before to. Both nodes are added if missing.
func (g *Graph[N]) AddEdge(from, to N) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Has reports whether name is a node of the graph.
func (g *Graph[N]) Has(name N) bool { return g.nodeSet[name] }

// Len returns the number of nodes.
func (g *Graph[N]) Len() int { return len(g.nodes) }

// Predecessors returns every node that must complete before name, directly or
// transitively, in insertion order.
func (g *Graph[N]) Predecessors(name N) []N {
	reverse := make(map[N][]N, len(g.nodes))
	for from, tos := range g.adjacency {
		for _, to := range tos {
			reverse[to] = append(reverse[to], from)
		}
	}

	seen := make(map[N]bool)
	stack := append([]N(nil), reverse[name]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, reverse[n]...)
	}

	var out []N
	for _, n := range g.nodes {
		if seen[n] && n != name {
			out = append(out, n)
		}
	}
	return out
}

// TopologicalSort returns an execution order using Kahn's algorithm, or a
// CycleError. Nodes at the same level keep their insertion order.
func (g *Graph[N]) TopologicalSort() ([]N, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[N]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]N, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]N, 0, len(g.nodes))
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
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, string(node))
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
