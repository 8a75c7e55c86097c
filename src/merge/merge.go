// Package merge combines an ordered list of datasets into a single table
// under one of five strategies.
package merge

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hellyhoken/helly-plot/src/data"
)

// Strategy selects how datasets are combined.
type Strategy int

const (
	RowConcat Strategy = iota
	ColumnConcat
	InnerJoin
	OuterJoin
	LeftJoin
)

// MergedName is the name assigned to every merge result.
const MergedName = "merged"

var strategyNames = map[Strategy]string{
	RowConcat:    "Concatenate (Stack Rows)",
	ColumnConcat: "Concatenate (Side by Side)",
	InnerJoin:    "Inner Join",
	OuterJoin:    "Outer Join",
	LeftJoin:     "Left Join",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// RequiresKey reports whether the strategy joins on a key column.
func (s Strategy) RequiresKey() bool {
	return s == InnerJoin || s == OuterJoin || s == LeftJoin
}

// ParseStrategy maps a display label back to its Strategy.
func ParseStrategy(label string) (Strategy, bool) {
	for s, n := range strategyNames {
		if n == label {
			return s, true
		}
	}
	return 0, false
}

// Strategies lists all strategies in display order.
func Strategies() []Strategy {
	return []Strategy{RowConcat, ColumnConcat, InnerJoin, OuterJoin, LeftJoin}
}

var (
	// ErrNoData is returned when there is nothing to merge.
	ErrNoData = errors.New("no data loaded")
	// ErrInvalidRequest is returned for an unknown strategy or a join
	// without a key column.
	ErrInvalidRequest = errors.New("invalid merge request")
)

// Merge combines the datasets in order under the given strategy. Join
// strategies require a non-empty key column. Source datasets are never
// mutated.
func Merge(sets []*data.Dataset, strategy Strategy, key string) (*data.Dataset, error) {
	defer data.TimeTrack(time.Now(), "merge")
	if len(sets) == 0 {
		return nil, ErrNoData
	}
	switch strategy {
	case RowConcat:
		return rowConcat(sets), nil
	case ColumnConcat:
		return columnConcat(sets), nil
	case InnerJoin, OuterJoin, LeftJoin:
		if key == "" {
			return nil, fmt.Errorf("%w: %s requires a key column", ErrInvalidRequest, strategy)
		}
		return joinAll(sets, strategy, key), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %d", ErrInvalidRequest, int(strategy))
	}
}

// rowConcat stacks rows; the column set is the union across sources in
// first-seen order, and rows are re-indexed 0..n-1.
func rowConcat(sets []*data.Dataset) *data.Dataset {
	var columns []string
	colIx := map[string]int{}
	for _, ds := range sets {
		for _, c := range ds.Columns {
			if _, ok := colIx[c]; !ok {
				colIx[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}
	var rows [][]data.Value
	for _, ds := range sets {
		for _, r := range ds.Rows {
			out := make([]data.Value, len(columns))
			for i, c := range ds.Columns {
				out[colIx[c]] = r[i]
			}
			rows = append(rows, out)
		}
	}
	return data.New(MergedName, columns, rows)
}

// columnConcat places columns side by side, aligned by row position.
// Duplicate column names stay distinct and shorter sources are padded with
// missing cells.
func columnConcat(sets []*data.Dataset) *data.Dataset {
	var columns []string
	nRows := 0
	for _, ds := range sets {
		columns = append(columns, ds.Columns...)
		if ds.NumRows() > nRows {
			nRows = ds.NumRows()
		}
	}
	rows := make([][]data.Value, nRows)
	for i := range rows {
		out := make([]data.Value, 0, len(columns))
		for _, ds := range sets {
			if i < ds.NumRows() {
				out = append(out, ds.Rows[i]...)
			} else {
				out = append(out, make([]data.Value, ds.NumColumns())...)
			}
		}
		rows[i] = out
	}
	return data.New(MergedName, columns, rows)
}

// joinAll reduces the list left to right. A dataset whose side is missing
// the key column is skipped and the running result passes through
// unchanged; existing merge results depend on this pass-through, so it is
// logged rather than treated as an error.
func joinAll(sets []*data.Dataset, kind Strategy, key string) *data.Dataset {
	result := sets[0]
	for _, ds := range sets[1:] {
		if !result.HasColumn(key) || !ds.HasColumn(key) {
			data.Warnf("join: key column %q missing in %q or running result; dataset skipped", key, ds.Name)
			continue
		}
		result = join(result, ds, kind, key)
	}
	return result.Clone(MergedName)
}

// join combines two datasets on equal key values. Duplicate key matches
// multiply out, matching the usual relational semantics. Missing keys never
// match but still appear on their own side for outer and left joins.
func join(left, right *data.Dataset, kind Strategy, key string) *data.Dataset {
	leftKey := left.ColumnIndex(key)
	rightKey := right.ColumnIndex(key)

	// Result columns: all of the left, then the right minus its key column.
	columns := append([]string(nil), left.Columns...)
	rightCols := make([]int, 0, right.NumColumns()-1)
	for i, c := range right.Columns {
		if i == rightKey {
			continue
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	rightIndex := map[data.Value][]int{}
	for i, r := range right.Rows {
		k := r[rightKey]
		if data.IsMissing(k) {
			continue
		}
		rightIndex[k] = append(rightIndex[k], i)
	}

	matched := make([]bool, right.NumRows())
	var rows [][]data.Value
	for _, lr := range left.Rows {
		k := lr[leftKey]
		var hits []int
		if !data.IsMissing(k) {
			hits = rightIndex[k]
		}
		if len(hits) == 0 {
			if kind == InnerJoin {
				continue
			}
			out := make([]data.Value, 0, len(columns))
			out = append(out, lr...)
			out = append(out, make([]data.Value, len(rightCols))...)
			rows = append(rows, out)
			continue
		}
		for _, ri := range hits {
			matched[ri] = true
			out := make([]data.Value, 0, len(columns))
			out = append(out, lr...)
			for _, ci := range rightCols {
				out = append(out, right.Rows[ri][ci])
			}
			rows = append(rows, out)
		}
	}
	if kind == OuterJoin {
		for ri, rr := range right.Rows {
			if matched[ri] {
				continue
			}
			out := make([]data.Value, len(columns))
			out[leftKey] = rr[rightKey]
			for j, ci := range rightCols {
				out[left.NumColumns()+j] = rr[ci]
			}
			rows = append(rows, out)
		}
	}
	return data.New(MergedName, columns, rows)
}
