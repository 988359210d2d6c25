package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadManifest reads a descriptor list from a JSON or YAML file, chosen by
// extension (.yaml/.yml for YAML, anything else is treated as JSON).
func ReadManifest(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var descriptors []Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &descriptors); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &descriptors); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	}
	return descriptors, nil
}

// Descriptors serializes the graph back to descriptor form, in declaration
// order, with no loss of names, keys, or edges. Re-loading the result
// produces an equivalent graph.
func (g *Graph) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(g.names))
	for _, name := range g.names {
		t := g.tables[name]

		pk := make(KeySet, len(t.PrimaryKey))
		copy(pk, t.PrimaryKey)

		var fks []ForeignKeyRef
		for _, fk := range t.ForeignKeys {
			fks = append(fks, ForeignKeyRef{
				LocalColumn:      fk.LocalColumn,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
		}

		out = append(out, Descriptor{
			TableName:   name,
			PrimaryKeys: pk,
			ForeignKeys: fks,
		})
	}
	return out
}

// EncodeJSON writes descriptors as indented JSON.
func EncodeJSON(w io.Writer, descriptors []Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(descriptors)
}

// EncodeYAML writes descriptors as YAML.
func EncodeYAML(w io.Writer, descriptors []Descriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(descriptors); err != nil {
		return err
	}
	return enc.Close()
}
