package plot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hellyhoken/helly-plot/src/data"
)

// seqDataset builds n rows of columns x (0..n-1), a (x*2) and b (x*x).
func seqDataset(n int) *data.Dataset {
	rows := make([][]data.Value, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		rows[i] = []data.Value{x, x * 2, x * x}
	}
	return data.New("seq", []string{"x", "a", "b"}, rows)
}

func TestRenderNoData(t *testing.T) {
	r := NewRenderer()
	r.Render(nil, Config{Kind: Line, YColumns: []string{"a"}})
	if r.note != "No data to display" {
		t.Errorf("note = %q, want no-data placeholder", r.note)
	}
	if r.Image() == nil {
		t.Fatal("surface image is nil")
	}

	empty := data.New("empty", []string{"a"}, nil)
	r.Render(empty, Config{Kind: Line, YColumns: []string{"a"}})
	if r.note != "No data to display" {
		t.Errorf("note = %q, want no-data placeholder", r.note)
	}
}

func TestRenderNoYColumns(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(5), Config{Kind: Line})
	if r.note != "Please select Y column(s)" {
		t.Errorf("note = %q, want select-Y placeholder", r.note)
	}
}

func TestRenderLine(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(10), Config{
		Kind:     Line,
		XColumn:  "x",
		YColumns: []string{"a", "b"},
		Title:    "demo",
		Grid:     true,
		Legend:   true,
		Marker:   MarkerCircle,
		Opacity:  0.8,
	})
	if r.note != "" {
		t.Fatalf("unexpected placeholder: %q", r.note)
	}
	if r.ch == nil {
		t.Fatal("no chart retained after successful render")
	}
	b := r.Image().Bounds()
	if b.Dx() != baseWidth || b.Dy() != baseHeight {
		t.Errorf("surface = %dx%d, want %dx%d", b.Dx(), b.Dy(), baseWidth, baseHeight)
	}
}

func TestRenderScatterAndArea(t *testing.T) {
	for _, kind := range []Kind{Scatter, Area} {
		r := NewRenderer()
		r.Render(seqDataset(10), Config{Kind: kind, YColumns: []string{"a"}, Opacity: 0.5})
		if r.note != "" {
			t.Errorf("%v: unexpected placeholder %q", kind, r.note)
		}
	}
}

func TestRenderUnknownYColumnsSkipped(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(10), Config{Kind: Line, YColumns: []string{"missing", "a"}})
	if r.note != "" {
		t.Fatalf("unexpected placeholder: %q", r.note)
	}
	if got := len(r.ch.Series); got != 1 {
		t.Errorf("series = %d, want 1 (unknown column skipped)", got)
	}
}

func TestBarTruncatesToFifty(t *testing.T) {
	ds := seqDataset(60)
	ch, err := buildChart(ds, Config{Kind: Bar, XColumn: "x", YColumns: []string{"a"}, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if got := len(ch.XAxis.Ticks); got != maxBars {
		t.Errorf("ticks = %d, want %d", got, maxBars)
	}
	bs := ch.Series[0].(barSeries)
	if bs.Len() != maxBars {
		t.Errorf("bars = %d, want %d", bs.Len(), maxBars)
	}

	ch, err = buildChart(seqDataset(30), Config{Kind: Bar, YColumns: []string{"a"}, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if got := len(ch.XAxis.Ticks); got != 30 {
		t.Errorf("ticks = %d, want all 30", got)
	}
}

func TestBarGroupWidthAndLabels(t *testing.T) {
	rows := [][]data.Value{
		{"a-very-long-category-label", 1.0, 2.0},
		{"short", 3.0, 4.0},
	}
	ds := data.New("cats", []string{"cat", "a", "b"}, rows)
	ch, err := buildChart(ds, Config{Kind: Bar, XColumn: "cat", YColumns: []string{"a", "b"}, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	bs := ch.Series[0].(barSeries)
	if want := 0.8 / 2; math.Abs(bs.width-want) > 1e-9 {
		t.Errorf("bar width = %v, want %v", bs.width, want)
	}
	if ch.XAxis.TickStyle.TextRotationDegrees != 45 {
		t.Errorf("tick rotation = %v, want 45", ch.XAxis.TickStyle.TextRotationDegrees)
	}
	for _, tick := range ch.XAxis.Ticks {
		if n := len([]rune(tick.Label)); n > tickLabelRunes {
			t.Errorf("tick label %q has %d runes, want <= %d", tick.Label, n, tickLabelRunes)
		}
	}
}

func TestBarRenders(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(20), Config{Kind: Bar, YColumns: []string{"a", "b"}, Grid: true, Legend: true, Opacity: 0.7})
	if r.note != "" {
		t.Fatalf("unexpected placeholder: %q", r.note)
	}
}

func TestHistogramBinsAndMissing(t *testing.T) {
	rows := make([][]data.Value, 100)
	for i := range rows {
		rows[i] = []data.Value{float64(i % 17), nil}
	}
	ds := data.New("h", []string{"v", "allnull"}, rows)

	ch, err := buildChart(ds, Config{Kind: Histogram, YColumns: []string{"v", "allnull"}, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if got := len(ch.Series); got != 1 {
		t.Fatalf("series = %d, want 1 (all-missing column dropped)", got)
	}
	bs := ch.Series[0].(barSeries)
	if bs.Len() != histogramBins {
		t.Errorf("bins = %d, want %d", bs.Len(), histogramBins)
	}
	total := 0.0
	for _, c := range bs.ys {
		total += c
	}
	if total != 100 {
		t.Errorf("binned count = %v, want 100", total)
	}
}

func TestHistogramAllMissingDoesNotPanic(t *testing.T) {
	rows := [][]data.Value{{nil}, {nil}, {nil}}
	ds := data.New("h", []string{"v"}, rows)
	r := NewRenderer()
	r.Render(ds, Config{Kind: Histogram, YColumns: []string{"v"}})
	// Nothing to bin: the renderer degrades to a visible message instead
	// of failing outward.
	if r.ch != nil {
		t.Error("expected no chart for all-missing histogram input")
	}
	if r.note == "" {
		t.Error("expected a visible placeholder message")
	}
}

func TestBoxLegendSuppressed(t *testing.T) {
	ds := seqDataset(30)
	ch, err := buildChart(ds, Config{Kind: Box, YColumns: []string{"a", "b"}, Legend: true, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if len(ch.Elements) != 0 {
		t.Error("box charts must suppress the legend even when requested")
	}
	if got := len(ch.XAxis.Ticks); got != 2 {
		t.Errorf("category ticks = %d, want 2 column labels", got)
	}
}

func TestBoxRenders(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(50), Config{Kind: Box, YColumns: []string{"a", "b"}, Legend: true})
	if r.note != "" {
		t.Fatalf("unexpected placeholder: %q", r.note)
	}
}

func TestGridStyleAlpha(t *testing.T) {
	ds := seqDataset(10)
	ch, err := buildChart(ds, Config{Kind: Line, YColumns: []string{"a"}, Grid: true, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if got := ch.XAxis.GridMajorStyle.StrokeColor.A; got != alphaByte(gridAlpha) {
		t.Errorf("grid alpha = %d, want %d", got, alphaByte(gridAlpha))
	}
	if ch.YAxis.GridMajorStyle.Hidden {
		t.Error("grid requested but hidden")
	}

	ch, err = buildChart(ds, Config{Kind: Line, YColumns: []string{"a"}, Opacity: 1}, baseWidth, baseHeight)
	if err != nil {
		t.Fatalf("buildChart: %v", err)
	}
	if !ch.XAxis.GridMajorStyle.Hidden {
		t.Error("grid not requested but drawn")
	}
}

func TestBoxStatsQuartiles(t *testing.T) {
	g := newBoxStats(1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if math.Abs(g.median-5) > 1e-9 {
		t.Errorf("median = %v, want 5", g.median)
	}
	if g.q1 <= 1 || g.q1 >= g.median {
		t.Errorf("q1 = %v, want inside (1, 5)", g.q1)
	}
	if g.q3 <= g.median || g.q3 >= 9 {
		t.Errorf("q3 = %v, want inside (5, 9)", g.q3)
	}
	if len(g.outliers) != 0 {
		t.Errorf("outliers = %v, want none for a uniform sample", g.outliers)
	}
	if g.loWhisker != 1 || g.hiWhisker != 9 {
		t.Errorf("whiskers = [%v, %v], want [1, 9]", g.loWhisker, g.hiWhisker)
	}
}

func TestBoxStatsWhiskersAndOutliers(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
	g := newBoxStats(1, vals)
	if g.q1 >= g.q3 {
		t.Fatalf("q1 = %v, q3 = %v", g.q1, g.q3)
	}
	if g.median < g.q1 || g.median > g.q3 {
		t.Errorf("median %v outside box [%v, %v]", g.median, g.q1, g.q3)
	}
	if len(g.outliers) == 0 {
		t.Error("100 should be flagged as an outlier")
	}
	if g.hiWhisker == 100 {
		t.Error("whisker must not extend to the outlier")
	}
}

func TestRenderErrorContained(t *testing.T) {
	// A single-row line chart cannot produce a valid axis range; the
	// failure must surface as a red message, never as a panic.
	ds := seqDataset(1)
	r := NewRenderer()
	r.Render(ds, Config{Kind: Line, YColumns: []string{"a"}})
	if !strings.HasPrefix(r.note, "Error: ") {
		t.Errorf("note = %q, want contained error message", r.note)
	}
	if r.ch != nil {
		t.Error("failed render must not retain a chart")
	}
}

func TestClear(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(10), Config{Kind: Line, YColumns: []string{"a"}})
	r.Clear()
	if r.ch != nil || r.note != "" {
		t.Error("Clear must reset chart and placeholder state")
	}
	if r.Image() == nil {
		t.Error("Clear must leave an empty surface, not a nil image")
	}
}

func TestNormalizeOpacity(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 1.0},
		{0.05, 0.1},
		{0.5, 0.5},
		{2, 1.0},
	}
	for _, c := range cases {
		if got := (Config{Opacity: c.in}).Normalize().Opacity; got != c.want {
			t.Errorf("Normalize(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExportPNGAndSVG(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer()
	r.Render(seqDataset(10), Config{Kind: Line, YColumns: []string{"a"}})

	for _, name := range []string{"chart.png", "chart.svg"} {
		path := filepath.Join(dir, name)
		if err := r.Export(path, 150); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestExportPlaceholderSurface(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer()
	r.Render(nil, Config{})

	for _, name := range []string{"empty.png", "empty.svg"} {
		if err := r.Export(filepath.Join(dir, name), 0); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
	}
	raw, err := os.ReadFile(filepath.Join(dir, "empty.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "No data to display") {
		t.Error("placeholder SVG should carry the surface message")
	}
}

func TestExportErrors(t *testing.T) {
	r := NewRenderer()
	r.Render(seqDataset(10), Config{Kind: Line, YColumns: []string{"a"}})

	var ee *ExportError
	err := r.Export(filepath.Join("nonexistent-dir-91", "chart.png"), 150)
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *ExportError", err)
	}

	err = r.Export(filepath.Join(t.TempDir(), "chart.bmp"), 150)
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *ExportError for unsupported extension", err)
	}
}

func TestCellString(t *testing.T) {
	cases := []struct {
		in   data.Value
		want string
	}{
		{nil, ""},
		{1.5, "1.5"},
		{3.0, "3"},
		{"abc", "abc"},
	}
	for _, c := range cases {
		if got := cellString(c.in); got != c.want {
			t.Errorf("cellString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := truncLabel("abcdefghijkl", 10); got != "abcdefghij" {
		t.Errorf("truncLabel = %q", got)
	}
}
