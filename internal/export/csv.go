package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/cdeil/astroquery/pkg/table"
)

// WriteCSV writes the table as a CSV file with a header row of column names.
// Missing float values become empty cells.
func WriteCSV(t *table.Table, path string) error {
	if t == nil {
		return ErrNilTable
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	cols := t.Columns()

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Name()
	}

	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(cols))

	for row := 0; row < t.Len(); row++ {
		for i, col := range cols {
			record[i] = cellString(col, row)
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

func cellString(col *table.Column, row int) string {
	if col.Kind() == table.String {
		return col.Strings()[row]
	}

	v := col.Floats()[row]
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
