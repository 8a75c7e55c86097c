package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// LoadError reports unparseable or unreadable source content.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var errEmptySource = errors.New("no rows found")

// ParseCSV reads delimited content into a Dataset. The first record is the
// header; every cell is numerically inferred, empty cells become missing.
// Any structural failure is returned as a *LoadError.
func ParseCSV(r io.Reader, name string) (*Dataset, error) {
	defer TimeTrack(time.Now(), "parse "+name)
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			err = errEmptySource
		}
		return nil, &LoadError{Source: name, Err: err}
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]Value
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: name, Err: err}
		}
		if len(rec) > len(columns) {
			return nil, &LoadError{Source: name, Err: fmt.Errorf("record on line %d: wrong number of fields", len(rows)+2)}
		}
		row := make([]Value, len(columns))
		for i := range columns {
			if i < len(rec) {
				row[i] = inferCell(rec[i])
			}
		}
		rows = append(rows, row)
	}
	Debugf("parsed %s: %d columns, %d rows", name, len(columns), len(rows))
	return New(name, columns, rows), nil
}

// inferCell maps raw text to a typed cell: empty → missing, parseable
// number → float64, anything else stays text.
func inferCell(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		if math.IsNaN(f) {
			return nil
		}
		return f
	}
	return t
}
