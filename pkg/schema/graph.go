package schema

import "fmt"

// ForeignKey is a directed edge from a local column to a primary-key column
// of another (possibly the same) table.
type ForeignKey struct {
	Table            string
	LocalColumn      string
	ReferencedTable  string
	ReferencedColumn string
}

// Table is one node of the schema graph.
type Table struct {
	Name        string
	PrimaryKey  KeySet
	ForeignKeys []ForeignKey
}

// Graph is the validated set of tables and foreign-key edges built from a
// manifest. It is immutable after Load and safe for concurrent reads.
type Graph struct {
	tables map[string]*Table
	names  []string // declaration order
}

// LoadOptions controls how referential problems are handled during Load.
type LoadOptions struct {
	// Lenient collects dangling-reference and invalid-referenced-column
	// problems as issues instead of failing the load. Structural problems
	// (duplicate tables, missing primary keys) always fail.
	Lenient bool
}

// Load builds a graph from a descriptor sequence in strict mode: the first
// invariant violation aborts the load.
func Load(descriptors []Descriptor) (*Graph, error) {
	g, _, err := LoadWithOptions(descriptors, LoadOptions{})
	return g, err
}

// LoadWithOptions builds a graph from a descriptor sequence. All tables are
// registered before any foreign key is checked, so forward and self
// references are legal. In lenient mode referential problems are returned
// as issues alongside the graph; in strict mode they abort the load.
func LoadWithOptions(descriptors []Descriptor, opts LoadOptions) (*Graph, []Issue, error) {
	g := &Graph{tables: make(map[string]*Table, len(descriptors))}

	// First pass: register every table, fail fast on structural problems.
	for i, d := range descriptors {
		if d.TableName == "" {
			return nil, nil, fmt.Errorf("descriptor %d: table_name is required", i)
		}
		if _, exists := g.tables[d.TableName]; exists {
			return nil, nil, &DuplicateTableError{Table: d.TableName}
		}
		if len(d.PrimaryKeys) == 0 {
			return nil, nil, &EmptyPrimaryKeyError{Table: d.TableName}
		}

		pk := make(KeySet, len(d.PrimaryKeys))
		copy(pk, d.PrimaryKeys)
		g.tables[d.TableName] = &Table{Name: d.TableName, PrimaryKey: pk}
		g.names = append(g.names, d.TableName)
	}

	// Second pass: attach edges and check referential integrity.
	var issues []Issue
	for _, d := range descriptors {
		t := g.tables[d.TableName]
		for _, ref := range d.ForeignKeys {
			fk := ForeignKey{
				Table:            d.TableName,
				LocalColumn:      ref.LocalColumn,
				ReferencedTable:  ref.ReferencedTable,
				ReferencedColumn: ref.ReferencedColumn,
			}

			target, ok := g.tables[ref.ReferencedTable]
			switch {
			case !ok:
				err := &DanglingReferenceError{
					Table:           d.TableName,
					Column:          ref.LocalColumn,
					ReferencedTable: ref.ReferencedTable,
				}
				if !opts.Lenient {
					return nil, nil, err
				}
				issues = append(issues, Issue{
					Code:     CodeDanglingReference,
					Severity: SeverityError,
					Table:    d.TableName,
					Column:   ref.LocalColumn,
					Message:  err.Error(),
				})
			case !target.PrimaryKey.Contains(ref.ReferencedColumn):
				err := &InvalidReferencedColumnError{
					Table:            d.TableName,
					Column:           ref.LocalColumn,
					ReferencedTable:  ref.ReferencedTable,
					ReferencedColumn: ref.ReferencedColumn,
				}
				if !opts.Lenient {
					return nil, nil, err
				}
				issues = append(issues, Issue{
					Code:     CodeInvalidReferencedColumn,
					Severity: SeverityError,
					Table:    d.TableName,
					Column:   ref.LocalColumn,
					Message:  err.Error(),
				})
			}

			// The edge is kept even when lenient validation flagged it, so
			// callers see the manifest as written.
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
	}

	return g, issues, nil
}

// Table returns the named table, if declared.
func (g *Graph) Table(name string) (*Table, bool) {
	t, ok := g.tables[name]
	return t, ok
}

// Tables returns all tables in declaration order.
func (g *Graph) Tables() []*Table {
	out := make([]*Table, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.tables[name])
	}
	return out
}

// TableNames returns all table names in declaration order.
func (g *Graph) TableNames() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// ForeignKeys returns every edge in the graph, grouped by declaring table
// in declaration order.
func (g *Graph) ForeignKeys() []ForeignKey {
	var out []ForeignKey
	for _, name := range g.names {
		out = append(out, g.tables[name].ForeignKeys...)
	}
	return out
}

// TableCount returns the number of tables.
func (g *Graph) TableCount() int {
	return len(g.tables)
}

// EdgeCount returns the number of foreign-key edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, t := range g.tables {
		n += len(t.ForeignKeys)
	}
	return n
}

// ReferencedBy returns the names of tables that declare a foreign key onto
// the given table, in declaration order. Self-references are included.
func (g *Graph) ReferencedBy(name string) []string {
	var out []string
	for _, tn := range g.names {
		for _, fk := range g.tables[tn].ForeignKeys {
			if fk.ReferencedTable == name {
				out = append(out, tn)
				break
			}
		}
	}
	return out
}
