// Package export writes assembled catalog tables to disk in several formats.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bytedance/sonic"

	"github.com/cdeil/astroquery/pkg/table"
)

// Supported output formats.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

const defaultTableName = "sources"

// Export errors.
var (
	ErrNilTable          = errors.New("nil table")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidTableName  = errors.New("invalid database table name")
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options control where and how a table is written.
type Options struct {
	// Path is the output file path. Parent directories are created.
	Path string

	// Format is one of the Format constants.
	Format string

	// TableName is the database table name for the sqlite format.
	// Empty selects "sources".
	TableName string

	// PrettyPrint indents JSON output.
	PrettyPrint bool
}

// Write writes the table to opts.Path in the requested format.
func Write(t *table.Table, opts Options) error {
	if t == nil {
		return ErrNilTable
	}

	switch opts.Format {
	case FormatJSON:
		return WriteJSON(t, opts.Path, opts.PrettyPrint)
	case FormatCSV:
		return WriteCSV(t, opts.Path)
	case FormatSQLite:
		return WriteSQLite(t, opts.Path, opts.TableName)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
}

// WriteJSON writes the table as a single JSON document. Missing float values
// are encoded as null.
func WriteJSON(t *table.Table, path string, pretty bool) error {
	if t == nil {
		return ErrNilTable
	}

	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = sonic.MarshalIndent(t, "", "  ")
	} else {
		data, err = sonic.Marshal(t)
	}

	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	data = append(data, '\n')

	if err := ensureParentDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}
