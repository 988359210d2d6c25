package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highergov/schemactl/pkg/schema"
)

const referenceManifest = "../../../pkg/schema/testdata/highergov.json"

// execute runs a command with captured output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand_ReferenceManifest(t *testing.T) {
	out, err := execute(t, NewValidateCommand(), referenceManifest)
	require.NoError(t, err)

	// The self-referencing organizations hierarchy shows up as an
	// informational cycle, never as an error.
	assert.Contains(t, out, "cycle")
	assert.Contains(t, out, "organizations")
	assert.Contains(t, out, "0 errors")
}

func TestValidateCommand_DanglingReference(t *testing.T) {
	path := writeManifest(t, `[
		{"table_name": "awards", "primary_keys": "{award_key}",
		 "foreign_keys": [{"local_column": "vendor_key",
		                   "referenced_table": "vendors",
		                   "referenced_column": "vendor_key"}]}
	]`)

	_, err := execute(t, NewValidateCommand(), path)
	require.Error(t, err)

	var dangling *schema.DanglingReferenceError
	assert.ErrorAs(t, err, &dangling)
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	out, err := execute(t, NewValidateCommand(), referenceManifest, "--format", "json")
	require.NoError(t, err)

	var issues []schema.Issue
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, schema.CodeCycle, issues[0].Code)
}

func TestValidateCommand_MissingManifest(t *testing.T) {
	_, err := execute(t, NewValidateCommand(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestOrderCommand(t *testing.T) {
	out, err := execute(t, NewOrderCommand(), referenceManifest)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	pos := func(name string) int {
		for i, line := range lines {
			if strings.HasSuffix(line, " "+name) {
				return i
			}
		}
		t.Fatalf("table %s not in output:\n%s", name, out)
		return -1
	}

	assert.Less(t, pos("organizations"), pos("awards"))
	assert.Less(t, pos("notices"), pos("solicitations"))
	assert.Less(t, pos("awards"), pos("transactions"))
	assert.Contains(t, out, "Cycles (1):")
}

func TestOrderCommand_Levels(t *testing.T) {
	out, err := execute(t, NewOrderCommand(), referenceManifest, "--levels")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 0:")
	assert.Contains(t, out, "Level 1:")
}

func TestOrderCommand_Downstream(t *testing.T) {
	out, err := execute(t, NewOrderCommand(), referenceManifest, "--downstream", "notices")
	require.NoError(t, err)
	assert.Contains(t, out, "notices")
	assert.Contains(t, out, "solicitations")
	assert.NotContains(t, out, "transactions")
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, NewListCommand(), referenceManifest)
	require.NoError(t, err)
	assert.Contains(t, out, "transactions")
	assert.Contains(t, out, "{transaction_key,modification_number}")
	assert.Contains(t, out, "(10 tables, 11 foreign keys)")
}

func TestListCommand_JSON(t *testing.T) {
	out, err := execute(t, NewListCommand(), referenceManifest, "--format", "json")
	require.NoError(t, err)

	var rows []tableSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 10)
}

func TestExportCommand_RoundTrip(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "roundtrip.yaml")
	_, err := execute(t, NewExportCommand(), referenceManifest, "-O", outPath)
	require.NoError(t, err)

	descriptors, err := schema.ReadManifest(outPath)
	require.NoError(t, err)

	g, err := schema.Load(descriptors)
	require.NoError(t, err)
	assert.Equal(t, 10, g.TableCount())
	assert.Equal(t, 11, g.EdgeCount())
}

func TestExportCommand_StdoutJSON(t *testing.T) {
	out, err := execute(t, NewExportCommand(), referenceManifest)
	require.NoError(t, err)

	var descriptors []schema.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &descriptors))
	require.Len(t, descriptors, 10)
	assert.Equal(t, "addresses", descriptors[0].TableName)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Contains(t, out, "schemactl 1.2.3")
}

func TestIntrospectCommand_NoTarget(t *testing.T) {
	_, err := execute(t, NewIntrospectCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no introspection target")
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, "json", resolveFormat("json", "table"))
	assert.Equal(t, "markdown", resolveFormat("", "markdown"))
	assert.Equal(t, "table", resolveFormat("", ""))
}
