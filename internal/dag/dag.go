// Package dag provides directed graph operations for table dependencies.
// Unlike a strict DAG, cycles (including self-loops) are allowed: they are
// detected as strongly-connected components and reported to the caller
// instead of rejected, since self-referencing tables are legitimate.
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (table name)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph represents a directed dependency graph.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(id string, data any) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Data: data}
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	} else {
		g.nodes[id].Data = data
	}
}

// AddEdge adds a directed edge from parent to child (child depends on
// parent). Self-loops are recorded and surface later as 1-node cycles.
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	// Avoid duplicate edges
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasSelfLoop reports whether the node has an edge onto itself.
func (g *Graph) HasSelfLoop(id string) bool {
	return contains(g.edges[id], id)
}

// StronglyConnected returns the strongly-connected components of the graph
// using Tarjan's algorithm. Every node appears in exactly one component;
// members of each component are sorted, and components are returned sorted
// by their first member for deterministic output.
func (g *Graph) StronglyConnected() [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string

	var strongconnect func(id string)
	strongconnect = func(id string) {
		indices[id] = index
		lowlink[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, childID := range sorted(g.edges[id]) {
			if _, seen := indices[childID]; !seen {
				strongconnect(childID)
				if lowlink[childID] < lowlink[id] {
					lowlink[id] = lowlink[childID]
				}
			} else if onStack[childID] {
				if indices[childID] < lowlink[id] {
					lowlink[id] = indices[childID]
				}
			}
		}

		if lowlink[id] == indices[id] {
			var component []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				component = append(component, top)
				if top == id {
					break
				}
			}
			sort.Strings(component)
			components = append(components, component)
		}
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, seen := indices[id]; !seen {
			strongconnect(id)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// Cycles returns the strongly-connected components that form cycles: every
// component with more than one member, plus single nodes with a self-loop.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	for _, comp := range g.StronglyConnected() {
		if len(comp) > 1 || g.HasSelfLoop(comp[0]) {
			cycles = append(cycles, comp)
		}
	}
	return cycles
}

// TopologicalOrder returns every node ID ordered so that dependencies come
// before dependents, together with the cycles found. Cyclic nodes are still
// placed in the order (members of one cycle appear contiguously, at the
// position of their component), so the order always covers the whole graph.
//
// The order is deterministic: among ready components, the one with the
// lexicographically smallest representative is emitted first.
func (g *Graph) TopologicalOrder() ([]string, [][]string) {
	components := g.StronglyConnected()

	// Condense the graph: one meta-node per component.
	compOf := make(map[string]int, len(g.nodes))
	for i, comp := range components {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	indegree := make([]int, len(components))
	succ := make([][]int, len(components))
	seen := make([]map[int]bool, len(components))
	for i := range seen {
		seen[i] = make(map[int]bool)
	}
	for parent, children := range g.edges {
		for _, child := range children {
			p, c := compOf[parent], compOf[child]
			if p == c || seen[p][c] {
				continue
			}
			seen[p][c] = true
			succ[p] = append(succ[p], c)
			indegree[c]++
		}
	}

	// Kahn's algorithm over components, smallest representative first.
	var ready []int
	for i := range components {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []string
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			return components[ready[i]][0] < components[ready[j]][0]
		})
		next := ready[0]
		ready = ready[1:]

		order = append(order, components[next]...)
		for _, c := range succ[next] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
			}
		}
	}

	return order, g.Cycles()
}

// Levels groups node IDs by dependency depth: level 0 holds nodes with no
// dependencies, level N nodes whose deepest dependency sits at level N-1.
// Members of a cycle share a single level.
func (g *Graph) Levels() [][]string {
	components := g.StronglyConnected()
	compOf := make(map[string]int, len(g.nodes))
	for i, comp := range components {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	memo := make([]int, len(components))
	for i := range memo {
		memo[i] = -1
	}

	var level func(ci int) int
	level = func(ci int) int {
		if memo[ci] >= 0 {
			return memo[ci]
		}
		memo[ci] = 0 // break self-recursion inside the component
		max := -1
		for _, id := range components[ci] {
			for _, parent := range g.parents[id] {
				pc := compOf[parent]
				if pc == ci {
					continue
				}
				if l := level(pc); l > max {
					max = l
				}
			}
		}
		memo[ci] = max + 1
		return memo[ci]
	}

	maxLevel := 0
	for i := range components {
		if l := level(i); l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]string, maxLevel+1)
	for i, comp := range components {
		levels[memo[i]] = append(levels[memo[i]], comp...)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels
}

// Downstream returns the given nodes plus every node that transitively
// depends on them, sorted.
func (g *Graph) Downstream(ids []string) []string {
	affected := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if affected[id] {
			return
		}
		affected[id] = true
		for _, childID := range g.edges[id] {
			mark(childID)
		}
	}

	for _, id := range ids {
		if _, exists := g.nodes[id]; exists {
			mark(id)
		}
	}

	result := make([]string, 0, len(affected))
	for id := range affected {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Roots returns nodes with no parents (no dependencies), sorted.
// Self-loops do not count as a dependency.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if external(g.parents[id], id) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no children (no dependents), sorted.
// Self-loops do not count as a dependent.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if external(g.edges[id], id) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// external counts entries other than self.
func external(ids []string, self string) int {
	n := 0
	for _, id := range ids {
		if id != self {
			n++
		}
	}
	return n
}

// sorted returns a sorted copy of a string slice.
func sorted(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
