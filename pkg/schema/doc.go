// Package schema loads declarative table manifests into an immutable,
// validated graph of tables and foreign-key references.
//
// A manifest is an ordered list of descriptors, one per table, each naming
// the table, its primary-key column set, and its outgoing foreign keys.
// Load builds the graph and enforces structural invariants; Validate
// re-checks an existing graph and collects every violation; TopologicalOrder
// produces a load order with explicit reporting of referential cycles.
//
// The graph is built once and never mutated afterwards, so it may be shared
// freely across goroutines without synchronization.
package schema
