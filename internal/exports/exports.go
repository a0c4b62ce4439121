// Package exports builds the downloadable representations of master-data
// lists: xlsx workbooks, streamed CSV, and Gotenberg-rendered PDF.
package exports

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is the format-independent export payload: one sheet of rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

var titleCaser = cases.Title(language.English)

// SheetTitle derives a human sheet/report title from the resource name.
func (t Table) SheetTitle() string {
	if t.Name == "" {
		return "Export"
	}
	return titleCaser.String(t.Name)
}
