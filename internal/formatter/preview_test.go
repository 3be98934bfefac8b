package formatter

import (
	"math"
	"strings"
	"testing"

	"github.com/cdeil/astroquery/pkg/table"
)

func previewTable(t *testing.T, rows int) *table.Table {
	t.Helper()

	names := make([]string, rows)
	ras := make([]float64, rows)
	fluxes := make([]float64, rows)

	for i := 0; i < rows; i++ {
		names[i] = "TeV J0534+220"
		ras[i] = 83.63
		fluxes[i] = math.NaN()
	}

	tbl := table.New("TeVCat", "3.400")

	cols := []*table.Column{
		table.NewStringColumn("canonical_name", names, ""),
		table.NewFloatColumn("coord_ra", ras, "degree", "Right Ascension"),
		table.NewFloatColumn("flux", fluxes, "Crab", "Source flux"),
	}

	for _, col := range cols {
		if err := tbl.AddColumn(col); err != nil {
			t.Fatalf("Failed to add column: %v", err)
		}
	}

	return tbl
}

func TestRenderSummary(t *testing.T) {
	got := RenderSummary(previewTable(t, 2))
	expected := "TeVCat version 3.400: 2 rows, 3 columns"

	if got != expected {
		t.Errorf("Expected summary %q, got %q", expected, got)
	}
}

func TestRenderSummaryNilTable(t *testing.T) {
	if got := RenderSummary(nil); got != "" {
		t.Errorf("Expected empty summary for nil table, got %q", got)
	}
}

func TestRenderPreview(t *testing.T) {
	got := RenderPreview(previewTable(t, 2), 0)

	expected := strings.Join([]string{
		"TeVCat version 3.400: 2 rows, 3 columns",
		"",
		"| canonical_name | coord_ra | flux |",
		"|                | degree   | Crab |",
		"| -------------- | -------- | ---- |",
		"| TeV J0534+220  | 83.63    | nan  |",
		"| TeV J0534+220  | 83.63    | nan  |",
		"",
	}, "\n")

	if got != expected {
		t.Errorf("Unexpected preview:\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderPreviewTruncatesRows(t *testing.T) {
	got := RenderPreview(previewTable(t, 25), 5)

	if !strings.Contains(got, "... 5 of 25 rows shown") {
		t.Errorf("Expected truncation note, got:\n%s", got)
	}

	dataLines := 0
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "TeV J0534+220") {
			dataLines++
		}
	}

	if dataLines != 5 {
		t.Errorf("Expected 5 data rows, got %d", dataLines)
	}
}

func TestRenderPreviewColumnSubset(t *testing.T) {
	got := RenderPreview(previewTable(t, 2), 0, "flux", "canonical_name", "no_such_column")

	lines := strings.Split(got, "\n")
	if len(lines) < 3 {
		t.Fatalf("Expected header lines, got:\n%s", got)
	}

	header := lines[2]
	fluxIdx := strings.Index(header, "flux")
	nameIdx := strings.Index(header, "canonical_name")

	if fluxIdx < 0 || nameIdx < 0 {
		t.Fatalf("Expected both requested columns in header %q", header)
	}

	if fluxIdx > nameIdx {
		t.Errorf("Expected columns in requested order, got header %q", header)
	}

	if strings.Contains(got, "coord_ra") {
		t.Errorf("Expected coord_ra omitted, got:\n%s", got)
	}

	if strings.Contains(got, "no_such_column") {
		t.Errorf("Expected unknown column skipped, got:\n%s", got)
	}
}

func TestRenderPreviewWithoutUnits(t *testing.T) {
	tbl := table.New("TeVCat", "3.400")

	col := table.NewStringColumn("canonical_name", []string{"TeV J1104+382"}, "")
	if err := tbl.AddColumn(col); err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}

	got := RenderPreview(tbl, 0)

	expected := strings.Join([]string{
		"TeVCat version 3.400: 1 rows, 1 columns",
		"",
		"| canonical_name |",
		"| -------------- |",
		"| TeV J1104+382  |",
		"",
	}, "\n")

	if got != expected {
		t.Errorf("Unexpected preview:\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderPreviewEmptyTable(t *testing.T) {
	got := RenderPreview(table.New("TeVCat", "3.400"), 0)

	if !strings.Contains(got, "0 rows, 0 columns") {
		t.Errorf("Expected summary for empty table, got %q", got)
	}
}

func TestRenderPreviewNilTable(t *testing.T) {
	if got := RenderPreview(nil, 0); got != "" {
		t.Errorf("Expected empty preview for nil table, got %q", got)
	}
}
