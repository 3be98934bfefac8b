// Package formatter renders catalog tables as aligned text for terminal
// preview.
package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cdeil/astroquery/pkg/table"
)

// DefaultMaxRows caps how many data rows RenderPreview prints.
const DefaultMaxRows = 10

// RenderSummary returns a one-line description of the table.
func RenderSummary(t *table.Table) string {
	if t == nil {
		return ""
	}

	return fmt.Sprintf("%s version %s: %d rows, %d columns", t.Name, t.Version, t.Len(), t.NumColumns())
}

// RenderPreview renders the summary line followed by up to maxRows rows as a
// pipe-aligned table with a header row, a unit row when any column carries a
// unit, and a dash separator. When columns are given only those are shown, in
// the given order; unknown names are skipped. maxRows <= 0 selects
// DefaultMaxRows.
func RenderPreview(t *table.Table, maxRows int, columns ...string) string {
	if t == nil {
		return ""
	}

	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	cols := selectColumns(t, columns)
	if len(cols) == 0 {
		return RenderSummary(t) + "\n"
	}

	shown := t.Len()
	if shown > maxRows {
		shown = maxRows
	}

	header := make([]string, len(cols))
	units := make([]string, len(cols))
	hasUnits := false

	for i, col := range cols {
		header[i] = col.Name()
		units[i] = col.Unit()

		if col.Unit() != "" {
			hasUnits = true
		}
	}

	grid := make([][]string, 0, shown+2)
	grid = append(grid, header)

	headerRows := 1
	if hasUnits {
		grid = append(grid, units)
		headerRows = 2
	}

	for row := 0; row < shown; row++ {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = cellText(col, row)
		}

		grid = append(grid, cells)
	}

	var sb strings.Builder

	sb.WriteString(RenderSummary(t))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(renderGrid(grid, headerRows), "\n"))

	if t.Len() > shown {
		sb.WriteString(fmt.Sprintf("\n... %d of %d rows shown", shown, t.Len()))
	}

	sb.WriteString("\n")

	return sb.String()
}

func selectColumns(t *table.Table, names []string) []*table.Column {
	if len(names) == 0 {
		return t.Columns()
	}

	var cols []*table.Column

	for _, name := range names {
		if col, ok := t.Column(name); ok {
			cols = append(cols, col)
		}
	}

	return cols
}

func cellText(col *table.Column, row int) string {
	if col.Kind() == table.String {
		return col.Strings()[row]
	}

	v := col.Floats()[row]
	if math.IsNaN(v) {
		return "nan"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderGrid aligns all cells on display width and inserts a dash separator
// after the first headerRows rows.
func renderGrid(grid [][]string, headerRows int) []string {
	colCount := 0

	for _, row := range grid {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)

	for _, row := range grid {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Keep the separator at least three dashes wide.
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	renderRow := func(row []string) string {
		var sb strings.Builder

		sb.WriteString("|")

		for i := 0; i < colCount; i++ {
			sb.WriteString(" ")

			content := ""
			if i < len(row) {
				content = row[i]
			}

			sb.WriteString(content)

			// Pad with spaces based on display width.
			if padding := widths[i] - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		return sb.String()
	}

	separator := func() string {
		var sb strings.Builder

		sb.WriteString("|")

		for i := 0; i < colCount; i++ {
			sb.WriteString(" ")
			sb.WriteString(strings.Repeat("-", widths[i]))
			sb.WriteString(" |")
		}

		return sb.String()
	}

	var result []string

	for i, row := range grid {
		if i == headerRows {
			result = append(result, separator())
		}

		result = append(result, renderRow(row))
	}

	if headerRows >= len(grid) {
		result = append(result, separator())
	}

	return result
}
