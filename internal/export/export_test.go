package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdeil/astroquery/pkg/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()

	tbl := table.New("TeVCat", "3.400")

	cols := []*table.Column{
		table.NewStringColumn("canonical_name", []string{"TeV J0534+220", "TeV J1104+382"}, ""),
		table.NewFloatColumn("coord_ra", []float64{83.63, 166.11}, "degree", "Right Ascension"),
		table.NewFloatColumn("flux", []float64{1, math.NaN()}, "Crab", "Source flux"),
	}

	for _, col := range cols {
		if err := tbl.AddColumn(col); err != nil {
			t.Fatalf("Failed to add column: %v", err)
		}
	}

	return tbl
}

type jsonDoc struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Columns []struct {
		Name   string     `json:"name"`
		Unit   string     `json:"unit"`
		Type   string     `json:"type"`
		Values []*float64 `json:"values"`
	} `json:"columns"`
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	if err := WriteJSON(sampleTable(t), path, true); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Error("Expected output to end with a newline")
	}

	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if doc.Name != "TeVCat" {
		t.Errorf("Expected name 'TeVCat', got %q", doc.Name)
	}

	if doc.Version != "3.400" {
		t.Errorf("Expected version '3.400', got %q", doc.Version)
	}

	if len(doc.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(doc.Columns))
	}

	flux := doc.Columns[2]
	if flux.Name != "flux" {
		t.Errorf("Expected third column 'flux', got %q", flux.Name)
	}

	if flux.Values[0] == nil || *flux.Values[0] != 1 {
		t.Errorf("Expected flux[0] = 1, got %v", flux.Values[0])
	}

	if flux.Values[1] != nil {
		t.Errorf("Expected missing flux[1] encoded as null, got %v", *flux.Values[1])
	}
}

func TestWriteJSONCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	if err := WriteJSON(sampleTable(t), path, false); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if strings.Contains(string(data), "\n  ") {
		t.Error("Expected compact output without indentation")
	}

	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
}

func TestWriteJSONCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.json")

	if err := WriteJSON(sampleTable(t), path, false); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected output file to exist: %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	if err := WriteCSV(sampleTable(t), path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "canonical_name" || header[1] != "coord_ra" || header[2] != "flux" {
		t.Errorf("Unexpected header: %v", header)
	}

	if records[1][0] != "TeV J0534+220" {
		t.Errorf("Expected canonical name in first row, got %q", records[1][0])
	}

	if records[1][1] != "83.63" {
		t.Errorf("Expected coord_ra '83.63', got %q", records[1][1])
	}

	if records[2][2] != "" {
		t.Errorf("Expected missing flux as empty cell, got %q", records[2][2])
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	if err := WriteSQLite(sampleTable(t), path, ""); err != nil {
		t.Fatalf("WriteSQLite failed: %v", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT canonical_name, coord_ra, flux FROM sources ORDER BY rowid`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	type record struct {
		name string
		ra   float64
		flux sql.NullFloat64
	}

	var got []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.name, &r.ra, &r.flux); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		got = append(got, r)
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}

	if got[0].name != "TeV J0534+220" {
		t.Errorf("Expected first row name 'TeV J0534+220', got %q", got[0].name)
	}

	if !got[0].flux.Valid || got[0].flux.Float64 != 1 {
		t.Errorf("Expected first row flux 1, got %+v", got[0].flux)
	}

	if got[1].flux.Valid {
		t.Errorf("Expected missing flux stored as NULL, got %v", got[1].flux.Float64)
	}

	var version string
	err = conn.QueryRow(`SELECT value FROM metadata WHERE key = 'version'`).Scan(&version)
	if err != nil {
		t.Fatalf("Metadata query failed: %v", err)
	}

	if version != "3.400" {
		t.Errorf("Expected metadata version '3.400', got %q", version)
	}
}

func TestWriteSQLiteCustomTableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	opts := Options{
		Path:      path,
		Format:    FormatSQLite,
		TableName: "gamma_sources",
	}

	if err := Write(sampleTable(t), opts); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM gamma_sources`).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 rows, got %d", count)
	}
}

func TestWriteSQLiteInvalidTableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	err := WriteSQLite(sampleTable(t), path, "bad name; DROP TABLE")
	if err == nil {
		t.Fatal("Expected error for invalid table name, got nil")
	}

	if !errors.Is(err, ErrInvalidTableName) {
		t.Errorf("Expected ErrInvalidTableName, got %v", err)
	}
}

func TestWriteSQLiteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	if err := WriteSQLite(sampleTable(t), path, ""); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	small := table.New("TeVCat", "3.500")
	col := table.NewStringColumn("canonical_name", []string{"TeV J1104+382"}, "")
	if err := small.AddColumn(col); err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}

	if err := WriteSQLite(small, path, ""); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected table replaced with 1 row, got %d", count)
	}

	var version string
	err = conn.QueryRow(`SELECT value FROM metadata WHERE key = 'version'`).Scan(&version)
	if err != nil {
		t.Fatalf("Metadata query failed: %v", err)
	}

	if version != "3.500" {
		t.Errorf("Expected metadata updated to '3.500', got %q", version)
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	opts := Options{
		Path:   filepath.Join(t.TempDir(), "catalog.xml"),
		Format: "xml",
	}

	err := Write(sampleTable(t), opts)
	if err == nil {
		t.Fatal("Expected error for unsupported format, got nil")
	}

	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteNilTable(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatCSV, FormatSQLite} {
		opts := Options{
			Path:   filepath.Join(t.TempDir(), "out"),
			Format: format,
		}

		if err := Write(nil, opts); !errors.Is(err, ErrNilTable) {
			t.Errorf("Expected ErrNilTable for format %s, got %v", format, err)
		}
	}
}
