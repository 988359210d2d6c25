package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is a single manifest record describing one table.
type Descriptor struct {
	TableName   string          `json:"table_name" yaml:"table_name"`
	PrimaryKeys KeySet          `json:"primary_keys" yaml:"primary_keys"`
	ForeignKeys []ForeignKeyRef `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// ForeignKeyRef is a foreign-key entry as written in a manifest.
type ForeignKeyRef struct {
	LocalColumn      string `json:"local_column" yaml:"local_column"`
	ReferencedTable  string `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
}

// KeySet is a set of column names. Manifests may spell it either as an
// array or as the brace-delimited set notation used by the source data
// ("{award_key}" or "{transaction_key,modification_number}"). Order is not
// significant; duplicates are dropped on parse.
type KeySet []string

// ParseKeySet parses brace-delimited set notation into a KeySet.
// Surrounding braces are optional and whitespace around names is trimmed.
func ParseKeySet(s string) KeySet {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	var ks KeySet
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" || ks.Contains(name) {
			continue
		}
		ks = append(ks, name)
	}
	return ks
}

// Contains reports whether the set includes the given column name.
func (ks KeySet) Contains(column string) bool {
	for _, c := range ks {
		if c == column {
			return true
		}
	}
	return false
}

// Equal reports whether two sets contain the same columns, ignoring order.
func (ks KeySet) Equal(other KeySet) bool {
	if len(ks) != len(other) {
		return false
	}
	for _, c := range ks {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// String renders the set in the source's brace notation.
func (ks KeySet) String() string {
	return "{" + strings.Join(ks, ",") + "}"
}

// UnmarshalJSON accepts both the array form and the brace-string form.
func (ks *KeySet) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*ks = parseKeyList(arr)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("primary_keys must be a string or an array of strings")
	}
	*ks = ParseKeySet(s)
	return nil
}

// MarshalJSON emits the brace-string form so a round trip reproduces the
// source notation.
func (ks KeySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(ks.String())
}

// UnmarshalYAML accepts both the sequence form and the brace-string form.
func (ks *KeySet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var arr []string
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*ks = parseKeyList(arr)
		return nil
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*ks = ParseKeySet(s)
		return nil
	default:
		return fmt.Errorf("primary_keys must be a string or a sequence of strings")
	}
}

// MarshalYAML emits the brace-string form.
func (ks KeySet) MarshalYAML() (any, error) {
	return ks.String(), nil
}

// parseKeyList normalizes an explicit column list: trims whitespace and
// drops empty or repeated names.
func parseKeyList(arr []string) KeySet {
	var ks KeySet
	for _, part := range arr {
		name := strings.TrimSpace(part)
		if name == "" || ks.Contains(name) {
			continue
		}
		ks = append(ks, name)
	}
	return ks
}
