package schema

import "fmt"

// DuplicateTableError reports two descriptors sharing a table name.
// The whole load fails; no partial graph is returned.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("duplicate table %q", e.Table)
}

// EmptyPrimaryKeyError reports a table declared without any primary-key
// columns. A table without a key cannot be the target of a foreign key, so
// the load fails.
type EmptyPrimaryKeyError struct {
	Table string
}

func (e *EmptyPrimaryKeyError) Error() string {
	return fmt.Sprintf("table %q has no primary key", e.Table)
}

// DanglingReferenceError reports a foreign key whose referenced table is not
// declared anywhere in the manifest.
type DanglingReferenceError struct {
	Table           string
	Column          string
	ReferencedTable string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s.%s references unknown table %q", e.Table, e.Column, e.ReferencedTable)
}

// InvalidReferencedColumnError reports a foreign key whose referenced column
// is not part of the referenced table's primary key.
type InvalidReferencedColumnError struct {
	Table            string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

func (e *InvalidReferencedColumnError) Error() string {
	return fmt.Sprintf("%s.%s references %s.%s, which is not part of that table's primary key",
		e.Table, e.Column, e.ReferencedTable, e.ReferencedColumn)
}
