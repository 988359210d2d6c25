package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code classifies a validation issue.
type Code string

// Issue codes, one per invariant.
const (
	CodeEmptyPrimaryKey         Code = "empty-primary-key"
	CodeDanglingReference       Code = "dangling-reference"
	CodeInvalidReferencedColumn Code = "invalid-referenced-column"
	// CodeCycle marks a referential cycle. Cycles are legitimate (parent /
	// child hierarchies), so the issue is informational, never an error.
	CodeCycle Code = "cycle"
)

// Severity indicates how serious a validation issue is.
type Severity int

// Severity levels for issues.
const (
	// SeverityError marks an invariant violation that must be fixed.
	SeverityError Severity = iota
	// SeverityWarning marks a suspect construct that is still loadable.
	SeverityWarning
	// SeverityInfo marks structural facts worth surfacing, such as cycles.
	SeverityInfo
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the severity name rather than its numeric value.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Issue is a single validation finding. Validation collects every finding
// in one pass instead of stopping at the first.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Table    string   `json:"table,omitempty"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// Validate re-checks every invariant on an already-built graph and returns
// one issue per violation. Referential cycles are reported as informational
// issues; an empty or info-only result means the graph is consistent.
func (g *Graph) Validate() []Issue {
	var issues []Issue

	for _, name := range g.names {
		t := g.tables[name]
		if len(t.PrimaryKey) == 0 {
			issues = append(issues, Issue{
				Code:     CodeEmptyPrimaryKey,
				Severity: SeverityError,
				Table:    name,
				Message:  (&EmptyPrimaryKeyError{Table: name}).Error(),
			})
		}

		for _, fk := range t.ForeignKeys {
			target, ok := g.tables[fk.ReferencedTable]
			if !ok {
				issues = append(issues, Issue{
					Code:     CodeDanglingReference,
					Severity: SeverityError,
					Table:    name,
					Column:   fk.LocalColumn,
					Message: (&DanglingReferenceError{
						Table:           name,
						Column:          fk.LocalColumn,
						ReferencedTable: fk.ReferencedTable,
					}).Error(),
				})
				continue
			}
			if !target.PrimaryKey.Contains(fk.ReferencedColumn) {
				issues = append(issues, Issue{
					Code:     CodeInvalidReferencedColumn,
					Severity: SeverityError,
					Table:    name,
					Column:   fk.LocalColumn,
					Message: (&InvalidReferencedColumnError{
						Table:            name,
						Column:           fk.LocalColumn,
						ReferencedTable:  fk.ReferencedTable,
						ReferencedColumn: fk.ReferencedColumn,
					}).Error(),
				})
			}
		}
	}

	for _, cycle := range g.TopologicalOrder().Cycles {
		issues = append(issues, Issue{
			Code:     CodeCycle,
			Severity: SeverityInfo,
			Table:    cycle[0],
			Message:  fmt.Sprintf("referential cycle: %s", strings.Join(cycle, " -> ")),
		})
	}

	return issues
}

// ErrorIssues filters a validation result down to error-severity issues.
func ErrorIssues(issues []Issue) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}
	return out
}
