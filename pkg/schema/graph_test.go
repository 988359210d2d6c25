package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptorFixture() []Descriptor {
	return []Descriptor{
		{TableName: "organizations", PrimaryKeys: KeySet{"organization_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "parent_organization_key", ReferencedTable: "organizations", ReferencedColumn: "organization_key"},
		}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "awarding_organization_key", ReferencedTable: "organizations", ReferencedColumn: "organization_key"},
		}},
		{TableName: "transactions", PrimaryKeys: KeySet{"transaction_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "award_key", ReferencedTable: "awards", ReferencedColumn: "award_key"},
		}},
	}
}

func TestLoad_Success(t *testing.T) {
	g, err := Load(descriptorFixture())
	require.NoError(t, err)

	assert.Equal(t, 3, g.TableCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, []string{"organizations", "awards", "transactions"}, g.TableNames(),
		"declaration order must be preserved")

	awards, ok := g.Table("awards")
	require.True(t, ok)
	assert.Equal(t, KeySet{"award_key"}, awards.PrimaryKey)
	require.Len(t, awards.ForeignKeys, 1)
	assert.Equal(t, "organizations", awards.ForeignKeys[0].ReferencedTable)
}

func TestLoad_ForwardReference(t *testing.T) {
	// transactions references awards, declared later in the sequence.
	descs := []Descriptor{
		{TableName: "transactions", PrimaryKeys: KeySet{"transaction_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "award_key", ReferencedTable: "awards", ReferencedColumn: "award_key"},
		}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}},
	}

	_, err := Load(descs)
	assert.NoError(t, err, "all tables must be registered before edges are validated")
}

func TestLoad_DuplicateTable(t *testing.T) {
	descs := []Descriptor{
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}},
	}

	g, err := Load(descs)
	assert.Nil(t, g, "no partial graph on fatal failure")

	var dup *DuplicateTableError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "awards", dup.Table)
}

func TestLoad_EmptyPrimaryKey(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Load([]Descriptor{{TableName: "awards"}})
		var empty *EmptyPrimaryKeyError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "awards", empty.Table)
	})

	t.Run("empty set notation", func(t *testing.T) {
		_, err := Load([]Descriptor{{TableName: "awards", PrimaryKeys: ParseKeySet("{}")}})
		var empty *EmptyPrimaryKeyError
		assert.ErrorAs(t, err, &empty)
	})
}

func TestLoad_MissingTableName(t *testing.T) {
	_, err := Load([]Descriptor{{PrimaryKeys: KeySet{"id"}}})
	assert.Error(t, err)
}

func TestLoad_DanglingReference(t *testing.T) {
	descs := []Descriptor{
		{TableName: "notices", PrimaryKeys: KeySet{"notice_id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "naics_id", ReferencedTable: "naics", ReferencedColumn: "naics_id"},
		}},
	}

	g, err := Load(descs)
	assert.Nil(t, g)

	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "notices", dangling.Table)
	assert.Equal(t, "naics", dangling.ReferencedTable)
}

func TestLoad_InvalidReferencedColumn(t *testing.T) {
	descs := []Descriptor{
		{TableName: "organizations", PrimaryKeys: KeySet{"organization_key"}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "org_name", ReferencedTable: "organizations", ReferencedColumn: "name"},
		}},
	}

	_, err := Load(descs)

	var invalid *InvalidReferencedColumnError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "awards", invalid.Table)
	assert.Equal(t, "name", invalid.ReferencedColumn)
}

func TestLoadWithOptions_Lenient(t *testing.T) {
	descs := []Descriptor{
		{TableName: "notices", PrimaryKeys: KeySet{"notice_id"}, ForeignKeys: []ForeignKeyRef{
			{LocalColumn: "naics_id", ReferencedTable: "naics", ReferencedColumn: "naics_id"},
			{LocalColumn: "psc_id", ReferencedTable: "psc", ReferencedColumn: "wrong_column"},
		}},
		{TableName: "psc", PrimaryKeys: KeySet{"psc_id"}},
	}

	g, issues, err := LoadWithOptions(descs, LoadOptions{Lenient: true})
	require.NoError(t, err, "referential problems must not abort a lenient load")
	require.NotNil(t, g)

	require.Len(t, issues, 2)
	assert.Equal(t, CodeDanglingReference, issues[0].Code)
	assert.Equal(t, CodeInvalidReferencedColumn, issues[1].Code)
	for _, is := range issues {
		assert.Equal(t, SeverityError, is.Severity)
	}

	// Edges stay in the graph so callers see the manifest as written.
	notices, ok := g.Table("notices")
	require.True(t, ok)
	assert.Len(t, notices.ForeignKeys, 2)
}

func TestLoadWithOptions_LenientStillFailsStructural(t *testing.T) {
	descs := []Descriptor{
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}},
		{TableName: "awards", PrimaryKeys: KeySet{"award_key"}},
	}

	g, _, err := LoadWithOptions(descs, LoadOptions{Lenient: true})
	assert.Nil(t, g)
	var dup *DuplicateTableError
	assert.ErrorAs(t, err, &dup)
}

func TestGraph_ReferencedBy(t *testing.T) {
	g, err := Load(descriptorFixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"organizations", "awards"}, g.ReferencedBy("organizations"),
		"self-references are included")
	assert.Equal(t, []string{"transactions"}, g.ReferencedBy("awards"))
	assert.Empty(t, g.ReferencedBy("transactions"))
}
