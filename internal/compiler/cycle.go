package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/idsgo/internal/metadata"
)

// CycleWarning represents a cycle in coordinate references.
//
// Cycles are warnings, not errors: validation compares sizes pairwise and
// never follows a chain, but tensor layouts that share dimensions along a
// chain stop at a fixed depth and fall back to index dimensions.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a/x", "a/y", "a/x"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeCycles finds nodes whose coordinate references lead back to
// themselves.
//
// The algorithm:
//  1. Build node → coordinate target graph from every coordinate reference
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 as a warning and self-loops as info
//
// An AoS indexed by a quantity inside its own elements is not a cycle.
func AnalyzeCycles(tree *metadata.Tree) []CycleWarning {
	graph := buildCoordinateGraph(tree)

	var warnings []CycleWarning
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// dependencyGraph maps a node path to the paths of its coordinates. order
// keeps tree order so results are deterministic.
type dependencyGraph struct {
	edges map[string][]string
	order []string
}

func buildCoordinateGraph(tree *metadata.Tree) dependencyGraph {
	graph := dependencyGraph{edges: make(map[string][]string)}

	_ = tree.Walk(func(n *metadata.Node) error {
		if n.IsRoot() {
			return nil
		}
		graph.order = append(graph.order, n.Path)
		graph.edges[n.Path] = []string{}

		for _, coord := range n.Coordinates {
			for _, ref := range coord.References {
				if n.Type.IsContainer() && ref.IsAncestorOf(n.Path) {
					continue
				}
				target, ok := lookup(tree, n, ref)
				if !ok {
					continue
				}
				graph.edges[n.Path] = append(graph.edges[n.Path], target.Path)
			}
		}
		return nil
	})
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, where each SCC is a list of node paths.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// If v is a root node, pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range graph.order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		path := scc[0]
		return CycleWarning{
			Path:    []string{path, path},
			Message: fmt.Sprintf("%s is its own coordinate", path),
			Level:   "info",
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("coordinate cycle: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: start at the earliest node of the SCC in tree order, follow
// edges to other SCC members, continue until we return to start.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	for _, node := range graph.order {
		if sccSet[node] {
			start = node
			break
		}
	}
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
