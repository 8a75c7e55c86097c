package data

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseCSVTypesAndMissing(t *testing.T) {
	in := "id,name,score\n1,alice,10\n2,bob,\n3,,7.5\n"
	ds, err := ParseCSV(strings.NewReader(in), "people.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if got, want := ds.NumColumns(), 3; got != want {
		t.Fatalf("columns = %d, want %d", got, want)
	}
	if got, want := ds.NumRows(), 3; got != want {
		t.Fatalf("rows = %d, want %d", got, want)
	}
	if v, _ := Number(ds.Rows[0][0]); v != 1 {
		t.Errorf("id[0] = %v, want 1", ds.Rows[0][0])
	}
	if ds.Rows[0][1] != "alice" {
		t.Errorf("name[0] = %v, want alice", ds.Rows[0][1])
	}
	if !IsMissing(ds.Rows[1][2]) {
		t.Errorf("score[1] = %v, want missing", ds.Rows[1][2])
	}
	if !IsMissing(ds.Rows[2][1]) {
		t.Errorf("name[2] = %v, want missing", ds.Rows[2][1])
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), "empty.csv")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if le.Source != "empty.csv" {
		t.Errorf("source = %q, want empty.csv", le.Source)
	}
}

func TestParseCSVTooManyFields(t *testing.T) {
	in := "a,b\n1,2,3\n"
	_, err := ParseCSV(strings.NewReader(in), "bad.csv")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestParseCSVShortRowsArePadded(t *testing.T) {
	in := "a,b,c\n1,2\n"
	ds, err := ParseCSV(strings.NewReader(in), "short.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if !IsMissing(ds.Rows[0][2]) {
		t.Errorf("c[0] = %v, want missing", ds.Rows[0][2])
	}
}

func TestNumericColumns(t *testing.T) {
	in := "id,name,score,empty\n1,alice,10,\n2,bob,,\n"
	ds, err := ParseCSV(strings.NewReader(in), "t.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	got := ds.NumericColumns()
	want := []string{"id", "score"}
	if len(got) != len(want) {
		t.Fatalf("NumericColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NumericColumns = %v, want %v", got, want)
		}
	}
}

func TestFloatColumn(t *testing.T) {
	ds := New("t", []string{"v"}, [][]Value{{1.5}, {nil}, {"text"}})
	vals := ds.FloatColumn("v")
	if vals[0] != 1.5 {
		t.Errorf("vals[0] = %v, want 1.5", vals[0])
	}
	if !math.IsNaN(vals[1]) || !math.IsNaN(vals[2]) {
		t.Errorf("missing and textual cells should map to NaN, got %v", vals)
	}
	if ds.FloatColumn("nope") != nil {
		t.Error("unknown column should return nil")
	}
}

func TestCloneIsDeep(t *testing.T) {
	ds := New("orig", []string{"a"}, [][]Value{{1.0}})
	cp := ds.Clone("copy")
	cp.Rows[0][0] = 2.0
	if v, _ := Number(ds.Rows[0][0]); v != 1 {
		t.Errorf("clone mutation leaked into source: %v", ds.Rows[0][0])
	}
	if cp.Name != "copy" {
		t.Errorf("clone name = %q", cp.Name)
	}
}
