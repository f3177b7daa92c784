package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func renderListing(w io.Writer, result listing, format string) error {
	if format == outputJSON {
		return renderJSON(w, map[string]any{
			"content":       result.items,
			"page":          result.page,
			"totalPages":    result.totalPages,
			"totalElements": result.total,
		})
	}

	if len(result.rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.headers))
	for i, title := range result.headers {
		header[i] = title
	}
	t.AppendHeader(header)
	for _, values := range result.rows {
		row := make(table.Row, len(values))
		for i, value := range values {
			row[i] = value
		}
		t.AppendRow(row)
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "page %d of %d, %d total\n", result.page+1, max(result.totalPages, 1), result.total)
	return nil
}

func renderJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// renderResult prints a mutation outcome and converts failures to errors.
func renderResult(w io.Writer, result datagrid.Result) error {
	switch result.Outcome {
	case datagrid.OutcomeSuccess, datagrid.OutcomeNoop:
		message := result.Message
		if message == "" {
			message = string(result.Outcome)
		}
		_, _ = fmt.Fprintln(w, message)
		return nil
	case datagrid.OutcomeInvalid:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Field", "Error"})
		fields := make([]string, 0, len(result.Errors))
		for field := range result.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, message := range result.Errors[field] {
				t.AppendRow(table.Row{field, message})
			}
		}
		t.Render()
		return ErrValidationFailed
	default:
		return fmt.Errorf("%s: %s", result.Outcome, result.Message)
	}
}
