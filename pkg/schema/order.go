package schema

import "github.com/highergov/schemactl/internal/dag"

// Ordering is the result of a topological ordering of the schema graph.
type Ordering struct {
	// Order lists every table so that a table precedes all tables that
	// reference it. Members of a cycle appear contiguously.
	Order []string `json:"order"`
	// Cycles lists each strongly-connected component that prevents a strict
	// linear order. A self-referencing table is a 1-member cycle.
	Cycles [][]string `json:"cycles,omitempty"`
}

// HasCycles reports whether any referential cycle was found.
func (o Ordering) HasCycles() bool {
	return len(o.Cycles) > 0
}

// TopologicalOrder computes a load order for the graph: every table is
// listed before any table that references it. Cycles are reported rather
// than broken silently; the caller decides how to interpret them. Edges to
// undeclared tables (possible on leniently loaded graphs) are ignored.
func (g *Graph) TopologicalOrder() Ordering {
	dg := g.dependencyGraph()
	order, cycles := dg.TopologicalOrder()
	return Ordering{Order: order, Cycles: cycles}
}

// DependencyLevels groups tables by dependency depth: level 0 holds tables
// that reference nothing, and each later level holds tables whose deepest
// referenced table sits one level below. Cycle members share a level.
func (g *Graph) DependencyLevels() [][]string {
	return g.dependencyGraph().Levels()
}

// Dependents returns the given tables plus every table that transitively
// references them, sorted. Useful for insert-order impact analysis.
func (g *Graph) Dependents(names []string) []string {
	return g.dependencyGraph().Downstream(names)
}

// dependencyGraph projects the schema onto a dag.Graph with one edge per
// (referenced table, referencing table) pair.
func (g *Graph) dependencyGraph() *dag.Graph {
	dg := dag.NewGraph()
	for _, name := range g.names {
		dg.AddNode(name, g.tables[name])
	}
	for _, name := range g.names {
		for _, fk := range g.tables[name].ForeignKeys {
			if _, ok := g.tables[fk.ReferencedTable]; !ok {
				continue
			}
			_ = dg.AddEdge(fk.ReferencedTable, name)
		}
	}
	return dg
}
