package export

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cdeil/astroquery/pkg/table"
)

// WriteSQLite writes the table into an SQLite database file. The data lands
// in tableName (default "sources") with TEXT and REAL columns; missing float
// values become NULL. A companion "metadata" table records the catalog name
// and version.
func WriteSQLite(t *table.Table, path, tableName string) error {
	if t == nil {
		return ErrNilTable
	}

	if tableName == "" {
		tableName = defaultTableName
	}

	if !tableNamePattern.MatchString(tableName) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, tableName)
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	// SQLite only supports one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := createSchema(conn, t, tableName); err != nil {
		return err
	}

	if err := insertRows(conn, t, tableName); err != nil {
		return err
	}

	return writeMetadata(conn, t)
}

func createSchema(conn *sql.DB, t *table.Table, tableName string) error {
	cols := t.Columns()

	defs := make([]string, len(cols))
	for i, col := range cols {
		affinity := "REAL"
		if col.Kind() == table.String {
			affinity = "TEXT"
		}
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col.Name()), affinity)
	}

	statements := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName)),
		fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", ")),
		`CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

func insertRows(conn *sql.DB, t *table.Table, tableName string) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return nil
	}

	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		names[i] = quoteIdent(col.Name())
		marks[i] = "?"
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(names, ", "), strings.Join(marks, ", "),
	))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(cols))

	for row := 0; row < t.Len(); row++ {
		for i, col := range cols {
			args[i] = cellValue(col, row)
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func writeMetadata(conn *sql.DB, t *table.Table) error {
	entries := map[string]string{
		"name":    t.Name,
		"version": t.Version,
	}

	for key, value := range entries {
		_, err := conn.Exec(
			"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
			key, value,
		)
		if err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
	}

	return nil
}

func cellValue(col *table.Column, row int) interface{} {
	if col.Kind() == table.String {
		return col.Strings()[row]
	}

	v := col.Floats()[row]
	if math.IsNaN(v) {
		return nil
	}

	return v
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
