package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/highergov/schemactl/pkg/schema"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats shared by all commands.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// resolveFormat picks the per-command format flag over the configured one.
func resolveFormat(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if configured != "" {
		return configured
	}
	return formatTable
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderIssues writes a validation result in the requested format.
func renderIssues(w io.Writer, issues []schema.Issue, format string) error {
	switch format {
	case formatJSON:
		if issues == nil {
			issues = []schema.Issue{}
		}
		return renderJSON(w, issues)
	case formatMarkdown:
		return renderIssuesMarkdown(w, issues)
	default:
		return renderIssuesTable(w, issues)
	}
}

func renderIssuesTable(w io.Writer, issues []schema.Issue) error {
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "No issues found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Code", "Table", "Column", "Message"})
	for _, is := range issues {
		t.AppendRow(table.Row{is.Severity.String(), string(is.Code), is.Table, is.Column, is.Message})
	}
	t.Render()

	errs := len(schema.ErrorIssues(issues))
	_, _ = fmt.Fprintf(w, "(%d issues, %d errors)\n", len(issues), errs)
	return nil
}

func renderIssuesMarkdown(w io.Writer, issues []schema.Issue) error {
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "No issues found")
		return nil
	}

	_, _ = fmt.Fprintln(w, "| Severity | Code | Table | Column | Message |")
	_, _ = fmt.Fprintln(w, "| --- | --- | --- | --- | --- |")
	for _, is := range issues {
		_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			is.Severity, is.Code, is.Table, is.Column, is.Message)
	}
	return nil
}

// renderOrdering writes a topological ordering in the requested format.
func renderOrdering(w io.Writer, ord schema.Ordering, format string) error {
	switch format {
	case formatJSON:
		return renderJSON(w, ord)
	case formatMarkdown:
		_, _ = fmt.Fprintln(w, "## Load Order")
		for i, name := range ord.Order {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, name)
		}
		renderCyclesText(w, ord.Cycles)
		return nil
	default:
		for i, name := range ord.Order {
			_, _ = fmt.Fprintf(w, "%3d. %s\n", i+1, name)
		}
		renderCyclesText(w, ord.Cycles)
		return nil
	}
}

func renderCyclesText(w io.Writer, cycles [][]string) {
	if len(cycles) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Cycles (%d):\n", len(cycles))
	for _, cycle := range cycles {
		_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(cycle, " -> "))
	}
}

// tableSummary is the row model for the list command.
type tableSummary struct {
	Name         string   `json:"name"`
	PrimaryKey   string   `json:"primary_key"`
	ForeignKeys  int      `json:"foreign_keys"`
	ReferencedBy []string `json:"referenced_by,omitempty"`
}

func summarize(g *schema.Graph) []tableSummary {
	out := make([]tableSummary, 0, g.TableCount())
	for _, t := range g.Tables() {
		out = append(out, tableSummary{
			Name:         t.Name,
			PrimaryKey:   t.PrimaryKey.String(),
			ForeignKeys:  len(t.ForeignKeys),
			ReferencedBy: g.ReferencedBy(t.Name),
		})
	}
	return out
}

// renderTables writes the table listing in the requested format.
func renderTables(w io.Writer, g *schema.Graph, format string) error {
	rows := summarize(g)

	switch format {
	case formatJSON:
		return renderJSON(w, rows)
	case formatMarkdown:
		_, _ = fmt.Fprintln(w, "| Table | Primary Key | FKs | Referenced By |")
		_, _ = fmt.Fprintln(w, "| --- | --- | --- | --- |")
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "| %s | %s | %d | %s |\n",
				r.Name, r.PrimaryKey, r.ForeignKeys, strings.Join(r.ReferencedBy, ", "))
		}
		return nil
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Table", "Primary Key", "FKs", "Referenced By"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Name, r.PrimaryKey, r.ForeignKeys, strings.Join(r.ReferencedBy, ", ")})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d tables, %d foreign keys)\n", g.TableCount(), g.EdgeCount())
		return nil
	}
}
