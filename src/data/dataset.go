// Package data holds the tabular model shared by the store, merge engine and
// renderer: a Dataset is a named table of typed cells, immutable once built.
package data

import "math"

var nan = math.NaN()

// Value is a single table cell. Concrete types are float64 (number) and
// string (text); nil marks a missing value.
type Value interface{}

// Number reports v as a float64 when the cell holds a number.
func Number(v Value) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// IsMissing reports whether the cell holds no value.
func IsMissing(v Value) bool { return v == nil }

// Dataset is a named table with ordered columns and row-major cells.
// Datasets are treated as immutable after construction; operations that
// reshape data (merges) always build a new Dataset.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// New builds a dataset from columns and rows. Short rows are padded with
// missing cells so every row matches the column count.
func New(name string, columns []string, rows [][]Value) *Dataset {
	for i, r := range rows {
		for len(r) < len(columns) {
			r = append(r, nil)
		}
		rows[i] = r[:len(columns)]
	}
	return &Dataset{Name: name, Columns: columns, Rows: rows}
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil {
		return -1
	}
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool { return d.ColumnIndex(name) >= 0 }

// Column returns the cells of the named column in row order.
func (d *Dataset) Column(name string) ([]Value, bool) {
	ix := d.ColumnIndex(name)
	if ix < 0 {
		return nil, false
	}
	out := make([]Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[ix]
	}
	return out, true
}

// FloatColumn returns the named column as float64s. Missing and textual
// cells become NaN so callers can filter with math.IsNaN, mirroring how the
// rest of the codebase treats absent measurements.
func (d *Dataset) FloatColumn(name string) []float64 {
	ix := d.ColumnIndex(name)
	if ix < 0 {
		return nil
	}
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		if f, ok := Number(r[ix]); ok {
			out[i] = f
		} else {
			out[i] = nan
		}
	}
	return out
}

// NumericColumns lists columns whose non-missing cells are all numbers and
// which carry at least one number, in column order.
func (d *Dataset) NumericColumns() []string {
	if d == nil {
		return nil
	}
	var out []string
	for ix, name := range d.Columns {
		numeric := false
		ok := true
		for _, r := range d.Rows {
			v := r[ix]
			if IsMissing(v) {
				continue
			}
			if _, isNum := Number(v); !isNum {
				ok = false
				break
			}
			numeric = true
		}
		if ok && numeric {
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a deep copy under a new name.
func (d *Dataset) Clone(name string) *Dataset {
	if d == nil {
		return nil
	}
	cols := append([]string(nil), d.Columns...)
	rows := make([][]Value, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = append([]Value(nil), r...)
	}
	return &Dataset{Name: name, Columns: cols, Rows: rows}
}
