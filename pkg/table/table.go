// Package table provides the typed column store returned by catalog queries.
//
// A Table holds fixed-length columns of a single semantic kind each. Missing
// values are stored in-band: string columns use "" and float columns use NaN,
// so no separate validity mask is needed. Integer-valued data is stored as
// Float for the same reason.
package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the semantic type of a column.
type Kind int

const (
	// String columns fill missing values with "".
	String Kind = iota
	// Float columns fill missing values with NaN.
	Float
)

// String returns the lower-case kind name used in serialized output.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Float:
		return "float"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Table errors.
var (
	ErrDuplicateColumn = errors.New("column name already present in table")
	ErrLengthMismatch  = errors.New("column length does not match table length")
)

// Column is a fixed-length array of one semantic type with an optional unit
// and a human-readable description. Index i of every column in a table refers
// to the same source record.
type Column struct {
	name        string
	unit        string
	description string
	kind        Kind
	strs        []string
	vals        []float64
}

// NewStringColumn creates a string column. The description may be empty.
func NewStringColumn(name string, values []string, description string) *Column {
	return &Column{
		name:        name,
		description: description,
		kind:        String,
		strs:        values,
	}
}

// NewFloatColumn creates a float column. Unit and description may be empty.
func NewFloatColumn(name string, values []float64, unit, description string) *Column {
	return &Column{
		name:        name,
		unit:        unit,
		description: description,
		kind:        Float,
		vals:        values,
	}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Unit returns the unit string, or "" for dimensionless columns.
func (c *Column) Unit() string { return c.unit }

// Description returns the human-readable column description.
func (c *Column) Description() string { return c.description }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.kind == String {
		return len(c.strs)
	}

	return len(c.vals)
}

// Strings returns the backing string slice, or nil for float columns.
// The slice is shared, not copied.
func (c *Column) Strings() []string { return c.strs }

// Floats returns the backing float slice, or nil for string columns.
// The slice is shared, not copied.
func (c *Column) Floats() []float64 { return c.vals }

// MarshalJSON serializes the column as an object with name, optional unit and
// description, kind and values. NaN has no JSON literal, so missing float
// entries are written as null.
func (c *Column) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"name":`)
	writeQuoted(&buf, c.name)

	if c.unit != "" {
		buf.WriteString(`,"unit":`)
		writeQuoted(&buf, c.unit)
	}

	if c.description != "" {
		buf.WriteString(`,"description":`)
		writeQuoted(&buf, c.description)
	}

	buf.WriteString(`,"type":`)
	writeQuoted(&buf, c.kind.String())

	buf.WriteString(`,"values":[`)

	switch c.kind {
	case String:
		for i, s := range c.strs {
			if i > 0 {
				buf.WriteByte(',')
			}

			writeQuoted(&buf, s)
		}
	case Float:
		var tmp []byte

		for i, v := range c.vals {
			if i > 0 {
				buf.WriteByte(',')
			}

			if math.IsNaN(v) {
				buf.WriteString("null")

				continue
			}

			tmp = strconv.AppendFloat(tmp[:0], v, 'g', -1, 64)
			buf.Write(tmp)
		}
	}

	buf.WriteString("]}")

	return buf.Bytes(), nil
}

func writeQuoted(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshaling a string cannot fail; keep the column well-formed anyway.
		buf.WriteString(`""`)

		return
	}

	buf.Write(b)
}

// Table is an ordered collection of named columns plus catalog metadata.
// It is constructed once and not mutated afterwards.
type Table struct {
	Name    string
	Version string

	cols  []*Column
	index map[string]int
}

// New creates an empty table carrying the catalog name and version.
func New(name, version string) *Table {
	return &Table{
		Name:    name,
		Version: version,
		index:   make(map[string]int),
	}
}

// AddColumn appends a column. Column names must be unique and every column
// must have the same length as the ones already present.
func (t *Table) AddColumn(c *Column) error {
	if _, ok := t.index[c.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name())
	}

	if len(t.cols) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("%w: %s has %d rows, table has %d", ErrLengthMismatch, c.Name(), c.Len(), t.Len())
	}

	t.index[c.Name()] = len(t.cols)
	t.cols = append(t.cols, c)

	return nil
}

// Column returns the named column, or false if it is not present.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}

	return t.cols[i], true
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}

	return names
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// Len returns the number of rows, zero for an empty table.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}

	return t.cols[0].Len()
}

// MarshalJSON serializes the table metadata and all columns.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := struct {
		Name    string    `json:"name"`
		Version string    `json:"version"`
		Columns []*Column `json:"columns"`
	}{
		Name:    t.Name,
		Version: t.Version,
		Columns: t.cols,
	}

	return json.Marshal(out)
}

// Ensure Column and Table implement json.Marshaler.
var (
	_ json.Marshaler = (*Column)(nil)
	_ json.Marshaler = (*Table)(nil)
)
