package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(t *testing.T, order []string, name string) int {
	t.Helper()
	for i, n := range order {
		if n == name {
			return i
		}
	}
	t.Fatalf("table %q not in order %v", name, order)
	return -1
}

func TestTopologicalOrder_Linear(t *testing.T) {
	g, err := Load([]Descriptor{
		{TableName: "organizations", PrimaryKeys: KeySet{"organization_key"}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "awarding_organization_key", ReferencedTable: "organizations", ReferencedColumn: "organization_key"},
		}},
		{TableName: "transactions", PrimaryKeys: KeySet{"transaction_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "award_key", ReferencedTable: "awards", ReferencedColumn: "award_key"},
		}},
	})
	require.NoError(t, err)

	ord := g.TopologicalOrder()
	assert.False(t, ord.HasCycles())
	assert.Equal(t, []string{"organizations", "awards", "transactions"}, ord.Order)
}

func TestTopologicalOrder_SelfReference(t *testing.T) {
	g, err := Load([]Descriptor{
		{TableName: "organizations", PrimaryKeys: KeySet{"organization_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "parent_organization_key", ReferencedTable: "organizations", ReferencedColumn: "organization_key"},
		}},
	})
	require.NoError(t, err, "self-references are legal")

	ord := g.TopologicalOrder()
	require.True(t, ord.HasCycles())
	assert.Equal(t, [][]string{{"organizations"}}, ord.Cycles,
		"a self-reference is a 1-member cycle")
	assert.Equal(t, []string{"organizations"}, ord.Order,
		"cyclic tables stay in the order")
}

func TestTopologicalOrder_MutualReference(t *testing.T) {
	g, err := Load([]Descriptor{
		{TableName: "a", PrimaryKeys: KeySet{"id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "b_id", ReferencedTable: "b", ReferencedColumn: "id"},
		}},
		{TableName: "b", PrimaryKeys: KeySet{"id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "a_id", ReferencedTable: "a", ReferencedColumn: "id"},
		}},
		{TableName: "c", PrimaryKeys: KeySet{"id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "a_id", ReferencedTable: "a", ReferencedColumn: "id"},
		}},
	})
	require.NoError(t, err)

	ord := g.TopologicalOrder()
	require.Len(t, ord.Cycles, 1)
	assert.Equal(t, []string{"a", "b"}, ord.Cycles[0])

	// The cycle's members are contiguous and precede their dependent.
	assert.Equal(t, []string{"a", "b", "c"}, ord.Order)
}

func TestDependencyLevels(t *testing.T) {
	g, err := Load([]Descriptor{
		{TableName: "naics", PrimaryKeys: KeySet{"naics_id"}},
		{TableName: "psc", PrimaryKeys: KeySet{"psc_id"}},
		{TableName: "notices", PrimaryKeys: KeySet{"notice_id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "naics_id", ReferencedTable: "naics", ReferencedColumn: "naics_id"},
			{LocalColumn: "psc_id", ReferencedTable: "psc", ReferencedColumn: "psc_id"},
		}},
		{TableName: "solicitations", PrimaryKeys: KeySet{"solicitation_id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "latest_notice_id", ReferencedTable: "notices", ReferencedColumn: "notice_id"},
		}},
	})
	require.NoError(t, err)

	levels := g.DependencyLevels()
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"naics", "psc"}, levels[0])
	assert.Equal(t, []string{"notices"}, levels[1])
	assert.Equal(t, []string{"solicitations"}, levels[2])
}

func TestDependents(t *testing.T) {
	g, err := Load(descriptorFixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"awards", "organizations", "transactions"},
		g.Dependents([]string{"organizations"}))
	assert.Equal(t, []string{"awards", "transactions"}, g.Dependents([]string{"awards"}))
	assert.Equal(t, []string{"transactions"}, g.Dependents([]string{"transactions"}))
	assert.Empty(t, g.Dependents([]string{"unknown"}))
}
