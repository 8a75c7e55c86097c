// Package store owns the set of loaded datasets and the single derived
// merge result.
package store

import (
	"fmt"
	"io"
	"sort"

	"github.com/Hellyhoken/helly-plot/src/data"
	"github.com/Hellyhoken/helly-plot/src/merge"
)

// Store maps assigned names to datasets in insertion order plus at most one
// merged result. The merged result is derived state: it is replaced
// wholesale by Merge and goes stale when the source set changes; callers
// re-merge after removals.
type Store struct {
	order  []string
	sets   map[string]*data.Dataset
	merged *data.Dataset
}

// New returns an empty store.
func New() *Store {
	return &Store{sets: map[string]*data.Dataset{}}
}

// Load parses CSV content and registers it under a collision-free name
// derived from sourceName. It returns the dataset and the assigned name.
func (s *Store) Load(r io.Reader, sourceName string) (*data.Dataset, string, error) {
	name := s.uniqueName(sourceName)
	ds, err := data.ParseCSV(r, name)
	if err != nil {
		return nil, "", err
	}
	s.sets[name] = ds
	s.order = append(s.order, name)
	data.Infof("loaded %q: %d rows, %d columns", name, ds.NumRows(), ds.NumColumns())
	return ds, name, nil
}

// uniqueName appends _1, _2, … to base until the name is free.
func (s *Store) uniqueName(base string) string {
	if _, taken := s.sets[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if _, taken := s.sets[name]; !taken {
			return name
		}
	}
}

// Remove drops the named dataset. The merged result is left untouched; the
// caller decides when to re-merge.
func (s *Store) Remove(name string) bool {
	if _, ok := s.sets[name]; !ok {
		return false
	}
	delete(s.sets, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the named dataset.
func (s *Store) Get(name string) (*data.Dataset, bool) {
	ds, ok := s.sets[name]
	return ds, ok
}

// Len returns the number of loaded datasets.
func (s *Store) Len() int { return len(s.order) }

// Names lists assigned names in insertion order.
func (s *Store) Names() []string { return append([]string(nil), s.order...) }

// ColumnUnion returns the sorted union of column names across all loaded
// datasets, for populating a "merge on" selector.
func (s *Store) ColumnUnion() []string {
	set := map[string]struct{}{}
	for _, n := range s.order {
		for _, c := range s.sets[n].Columns {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Merge combines all loaded datasets in insertion order and stores the
// result. On success it returns a human-readable summary; on failure the
// previous merged result is left untouched. A single loaded dataset is
// copied as-is regardless of the requested strategy.
func (s *Store) Merge(strategy merge.Strategy, key string) (string, error) {
	if len(s.order) == 0 {
		return "", merge.ErrNoData
	}
	if len(s.order) == 1 {
		s.merged = s.sets[s.order[0]].Clone(merge.MergedName)
		return "Single file loaded, no merge needed", nil
	}
	sets := make([]*data.Dataset, len(s.order))
	for i, n := range s.order {
		sets[i] = s.sets[n]
	}
	out, err := merge.Merge(sets, strategy, key)
	if err != nil {
		data.Errorf("merge failed: %v", err)
		return "", err
	}
	s.merged = out
	return fmt.Sprintf("Merged %d datasets using %s", len(sets), strategy), nil
}

// Merged returns the current merged result, or nil when absent.
func (s *Store) Merged() *data.Dataset { return s.merged }

// MergedColumns lists the merged result's columns, or nil when absent.
func (s *Store) MergedColumns() []string {
	if s.merged == nil {
		return nil
	}
	return append([]string(nil), s.merged.Columns...)
}

// MergedNumericColumns lists the merged result's numeric columns, for the
// Y-column selector.
func (s *Store) MergedNumericColumns() []string {
	if s.merged == nil {
		return nil
	}
	return s.merged.NumericColumns()
}
