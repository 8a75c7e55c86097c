package uihelpers

import "testing"

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct{ in, wantW, wantH int }{
		{100, 640, 480},
		{640, 640, 480},
		{1000, 1000, 750},
		{5000, 1600, 1200},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW || h != c.wantH {
			t.Errorf("ComputeChartDimensions(%d) = %d,%d want %d,%d", c.in, w, h, c.wantW, c.wantH)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("/short/path.csv", 60); got != "/short/path.csv" {
		t.Errorf("short path changed: %q", got)
	}
	long := "/a/very/long/directory/structure/that/keeps/going/data.csv"
	got := TruncatePath(long, 24)
	if len(got) > 24+4 {
		t.Errorf("truncated path too long: %q", got)
	}
	if got[len(got)-len("data.csv"):] != "data.csv" {
		t.Errorf("base name lost: %q", got)
	}
}

func TestFormatShape(t *testing.T) {
	if got := FormatShape(4, 3); got != "Rows: 4, Columns: 3" {
		t.Errorf("FormatShape = %q", got)
	}
}
