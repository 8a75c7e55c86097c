package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Hellyhoken/helly-plot/src/data"
)

const (
	baseWidth  = 800
	baseHeight = 600
	baseDPI    = 100

	// maxBars caps how many categories a bar chart shows.
	maxBars = 50
	// histogramBins is the fixed bin count per histogram series.
	histogramBins = 30
	// tickLabelRunes caps bar category tick labels.
	tickLabelRunes = 10
	// gridAlpha is the fixed gridline transparency.
	gridAlpha = 0.3
)

var errorTextColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}

// alphaByte maps an opacity in [0, 1] to an 8-bit alpha channel value.
func alphaByte(opacity float64) uint8 {
	return uint8(opacity * 255)
}

// Renderer owns the drawable surface. Render never fails outward: any
// drawing problem is converted into a visible message on the surface, so a
// bad configuration degrades the chart, not the session.
type Renderer struct {
	width, height int
	img           image.Image
	ch            *chart.Chart // last successfully built chart; nil while a placeholder is shown
	note          string       // placeholder text on the surface, "" when a chart is shown
	noteColor     color.Color
}

// NewRenderer returns a renderer with an empty surface at the default size
// (the equivalent of an 8x6 inch figure at 100 dpi).
func NewRenderer() *Renderer {
	return &Renderer{width: baseWidth, height: baseHeight, img: blank(baseWidth, baseHeight)}
}

// Image returns the current surface contents for the UI to embed.
func (r *Renderer) Image() image.Image { return r.img }

// Size returns the current surface dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Resize changes the surface dimensions used by subsequent renders.
func (r *Renderer) Resize(width, height int) {
	if width < 100 || height < 100 {
		return
	}
	r.width, r.height = width, height
}

// Clear resets the surface to an empty state without drawing a placeholder.
func (r *Renderer) Clear() {
	r.ch = nil
	r.note = ""
	r.noteColor = nil
	r.img = blank(r.width, r.height)
}

// Render redraws the full surface from the dataset and configuration. It is
// guaranteed not to panic or return an error; failures are drawn as a red
// message on the surface.
func (r *Renderer) Render(ds *data.Dataset, cfg Config) {
	if ds.NumRows() == 0 {
		r.placeholder("No data to display", color.Black)
		return
	}
	cfg = cfg.Normalize()
	if len(cfg.YColumns) == 0 {
		r.placeholder("Please select Y column(s)", color.Black)
		return
	}
	if err := r.renderChart(ds, cfg); err != nil {
		data.Warnf("render failed: %v", err)
		r.placeholder("Error: "+err.Error(), errorTextColor)
	}
}

// placeholder clears the surface and draws a single centered message.
func (r *Renderer) placeholder(text string, col color.Color) {
	r.ch = nil
	r.note = text
	r.noteColor = col
	r.img = centeredText(r.width, r.height, text, col)
}

// renderChart builds and rasterizes the chart, keeping the built chart for
// export re-rendering. Panics from the chart backend are contained here.
func (r *Renderer) renderChart(ds *data.Dataset, cfg Config) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("chart backend: %v", p)
		}
	}()
	ch, err := buildChart(ds, cfg, r.width, r.height)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return err
	}
	r.ch = ch
	r.note = ""
	r.noteColor = nil
	r.img = img
	return nil
}

var errNothingToPlot = errors.New("no plottable series for the current selection")

// buildChart maps the configuration and dataset to a chart. Y columns absent
// from the dataset are skipped; series that end up empty are dropped.
func buildChart(ds *data.Dataset, cfg Config, width, height int) (*chart.Chart, error) {
	ch := &chart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      chart.XAxis{Name: cfg.XLabel},
		YAxis:      chart.YAxis{Name: cfg.YLabel},
	}

	var err error
	switch cfg.Kind {
	case Bar:
		err = buildBarChart(ch, ds, cfg)
	case Histogram:
		err = buildHistogramChart(ch, ds, cfg)
	case Box:
		err = buildBoxChart(ch, ds, cfg)
	case Area:
		err = buildAreaChart(ch, ds, cfg)
	default:
		err = buildPointChart(ch, ds, cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(ch.Series) == 0 {
		return nil, errNothingToPlot
	}

	gridStyle := chart.Style{Hidden: true}
	if cfg.Grid {
		gridStyle = chart.Style{
			StrokeColor: chart.ColorLightGray.WithAlpha(alphaByte(gridAlpha)),
			StrokeWidth: 1.0,
		}
	}
	ch.XAxis.GridMajorStyle = gridStyle
	ch.YAxis.GridMajorStyle = gridStyle

	// The legend is always suppressed for box charts.
	if cfg.Legend && cfg.Kind != Box {
		ch.Elements = []chart.Renderable{chart.Legend(ch)}
	}
	return ch, nil
}

// xValues resolves the X data: the configured column when present, the
// ordinal row index otherwise.
func xValues(ds *data.Dataset, cfg Config) []data.Value {
	if cfg.XColumn != "" {
		if vals, ok := ds.Column(cfg.XColumn); ok {
			return vals
		}
	}
	out := make([]data.Value, ds.NumRows())
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// numericX converts resolved X values to floats. Textual columns fall back
// to ordinal positions with the string form as tick labels, the same way
// the run-tag axis works elsewhere in go-chart viewers.
func numericX(xvals []data.Value) ([]float64, []chart.Tick) {
	numeric := true
	for _, v := range xvals {
		if data.IsMissing(v) {
			continue
		}
		if _, ok := data.Number(v); !ok {
			numeric = false
			break
		}
	}
	xs := make([]float64, len(xvals))
	if numeric {
		for i, v := range xvals {
			if f, ok := data.Number(v); ok {
				xs[i] = f
			} else {
				xs[i] = math.NaN()
			}
		}
		return xs, nil
	}
	step := (len(xvals) + 11) / 12 // keep categorical axes readable
	if step < 1 {
		step = 1
	}
	var ticks []chart.Tick
	for i, v := range xvals {
		xs[i] = float64(i)
		if i%step == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: truncLabel(cellString(v), tickLabelRunes)})
		}
	}
	return xs, ticks
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// buildPointChart covers the Line and Scatter kinds.
func buildPointChart(ch *chart.Chart, ds *data.Dataset, cfg Config) error {
	xs, ticks := numericX(xValues(ds, cfg))
	if ticks != nil {
		ch.XAxis.Ticks = ticks
	}
	alpha := alphaByte(cfg.Opacity)
	for i, name := range cfg.YColumns {
		if !ds.HasColumn(name) {
			continue
		}
		ys := ds.FloatColumn(name)
		px, py := dropNaNPairs(xs, ys)
		if len(px) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i).WithAlpha(alpha)
		var st chart.Style
		if cfg.Kind == Scatter {
			st = pointStyle(col)
		} else {
			st = chart.Style{
				StrokeColor:     col,
				StrokeWidth:     2.0,
				StrokeDashArray: cfg.LineStyle.dashArray(),
			}
			if cfg.LineStyle == LineNone {
				st.StrokeWidth = 0
			}
			if cfg.Marker != MarkerNone {
				st.DotColor = col
				st.DotWidth = 4
			}
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    name,
			XValues: px,
			YValues: py,
			Style:   st,
		})
	}
	return nil
}

// buildAreaChart fills the region under each series plotted against its
// ordinal position. Series are drawn independently, not stacked.
func buildAreaChart(ch *chart.Chart, ds *data.Dataset, cfg Config) error {
	alpha := alphaByte(cfg.Opacity)
	for i, name := range cfg.YColumns {
		if !ds.HasColumn(name) {
			continue
		}
		ys := ds.FloatColumn(name)
		xs := make([]float64, len(ys))
		for j := range xs {
			xs[j] = float64(j)
		}
		px, py := dropNaNPairs(xs, ys)
		if len(px) == 0 {
			continue
		}
		col := chart.GetDefaultColor(i)
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    name,
			XValues: px,
			YValues: py,
			Style: chart.Style{
				StrokeColor: col.WithAlpha(alpha),
				StrokeWidth: 1.0,
				FillColor:   col.WithAlpha(alpha),
			},
		})
	}
	return nil
}

// buildBarChart renders grouped bars over the first maxBars categories.
// Category tick labels are the x values' string form truncated and rotated.
func buildBarChart(ch *chart.Chart, ds *data.Dataset, cfg Config) error {
	xvals := xValues(ds, cfg)
	n := len(xvals)
	if n > maxBars {
		n = maxBars
		xvals = xvals[:n]
	}
	if n == 0 {
		return nil
	}
	// Bars for different series sit side by side within each category slot.
	groupWidth := 0.8 / float64(len(cfg.YColumns))
	alpha := alphaByte(cfg.Opacity)

	minY, maxY := 0.0, -math.MaxFloat64
	rendered := 0
	for i, name := range cfg.YColumns {
		if !ds.HasColumn(name) {
			continue
		}
		ys := ds.FloatColumn(name)
		if len(ys) > n {
			ys = ys[:n]
		}
		xs := make([]float64, len(ys))
		offset := (float64(i) - float64(len(cfg.YColumns)-1)/2) * groupWidth
		for j := range xs {
			xs[j] = float64(j)
		}
		for _, y := range ys {
			if math.IsNaN(y) {
				continue
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
		col := chart.GetDefaultColor(i)
		ch.Series = append(ch.Series, barSeries{
			name:   name,
			xs:     xs,
			ys:     ys,
			offset: offset,
			width:  groupWidth,
			style: chart.Style{
				FillColor:   col.WithAlpha(alpha),
				StrokeColor: col,
				StrokeWidth: 1.0,
			},
		})
		rendered++
	}
	if rendered == 0 {
		return nil
	}
	if maxY == -math.MaxFloat64 {
		maxY = 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	ticks := make([]chart.Tick, n)
	for i := 0; i < n; i++ {
		ticks[i] = chart.Tick{Value: float64(i), Label: truncLabel(cellString(xvals[i]), tickLabelRunes)}
	}
	ch.XAxis.Ticks = ticks
	ch.XAxis.TickStyle = chart.Style{TextRotationDegrees: 45}
	ch.XAxis.Range = &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5}
	ch.YAxis.Range = &chart.ContinuousRange{Min: minY, Max: maxY + 0.05*(maxY-minY)}
	return nil
}

// buildHistogramChart bins each series into histogramBins fixed-width bins.
// Missing values are dropped before binning; all-missing series are skipped.
func buildHistogramChart(ch *chart.Chart, ds *data.Dataset, cfg Config) error {
	alpha := alphaByte(cfg.Opacity)
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	maxCount := 0.0
	for i, name := range cfg.YColumns {
		if !ds.HasColumn(name) {
			continue
		}
		vals := finiteValues(ds.FloatColumn(name))
		if len(vals) == 0 {
			continue
		}
		lo, binWidth, counts := histogram(vals, histogramBins)
		xs := make([]float64, len(counts))
		for b := range counts {
			xs[b] = lo + (float64(b)+0.5)*binWidth
			if counts[b] > maxCount {
				maxCount = counts[b]
			}
		}
		if lo < minX {
			minX = lo
		}
		if hi := lo + binWidth*float64(len(counts)); hi > maxX {
			maxX = hi
		}
		col := chart.GetDefaultColor(i)
		ch.Series = append(ch.Series, barSeries{
			name:  name,
			xs:    xs,
			ys:    counts,
			width: binWidth,
			style: chart.Style{
				FillColor:   col.WithAlpha(alpha),
				StrokeColor: col,
				StrokeWidth: 1.0,
			},
		})
	}
	if len(ch.Series) == 0 {
		return nil
	}
	ch.XAxis.Range = &chart.ContinuousRange{Min: minX, Max: maxX}
	ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxCount * 1.05}
	return nil
}

// buildBoxChart draws one box-and-whisker group per selected column, with
// whiskers at 1.5 IQR and points beyond them drawn as outliers.
func buildBoxChart(ch *chart.Chart, ds *data.Dataset, cfg Config) error {
	var groups []boxStats
	var ticks []chart.Tick
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, name := range cfg.YColumns {
		if !ds.HasColumn(name) {
			continue
		}
		vals := finiteValues(ds.FloatColumn(name))
		if len(vals) == 0 {
			continue
		}
		g := newBoxStats(float64(len(groups)+1), vals)
		groups = append(groups, g)
		ticks = append(ticks, chart.Tick{Value: g.x, Label: name})
		if g.lo() < lo {
			lo = g.lo()
		}
		if g.hi() > hi {
			hi = g.hi()
		}
	}
	if len(groups) == 0 {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	pad := 0.05 * (hi - lo)
	ch.Series = append(ch.Series, boxPlotSeries{
		groups: groups,
		style:  chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.0},
	})
	ch.XAxis.Ticks = ticks
	ch.XAxis.Range = &chart.ContinuousRange{Min: 0.5, Max: float64(len(groups)) + 0.5}
	ch.YAxis.Range = &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	return nil
}

// newBoxStats computes quartiles, 1.5 IQR whiskers and outliers for one
// column at category position x.
func newBoxStats(x float64, vals []float64) boxStats {
	s := stats.Sample{Xs: vals}
	q1 := s.Quantile(0.25)
	med := s.Quantile(0.5)
	q3 := s.Quantile(0.75)
	iqr := q3 - q1
	loLimit := q1 - 1.5*iqr
	hiLimit := q3 + 1.5*iqr

	loWhisker, hiWhisker := q1, q3
	first := true
	var outliers []float64
	for _, v := range vals {
		if v < loLimit || v > hiLimit {
			outliers = append(outliers, v)
			continue
		}
		if first {
			loWhisker, hiWhisker = v, v
			first = false
			continue
		}
		if v < loWhisker {
			loWhisker = v
		}
		if v > hiWhisker {
			hiWhisker = v
		}
	}
	return boxStats{
		x:         x,
		q1:        q1,
		median:    med,
		q3:        q3,
		loWhisker: loWhisker,
		hiWhisker: hiWhisker,
		outliers:  outliers,
	}
}

// dropNaNPairs filters out points whose x or y is NaN.
func dropNaNPairs(xs, ys []float64) ([]float64, []float64) {
	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	return px, py
}

// finiteValues drops NaN entries.
func finiteValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// histogram bins vals into the given number of fixed-width bins.
func histogram(vals []float64, bins int) (lo, binWidth float64, counts []float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		// Degenerate spread: one unit-wide bin centered on the value.
		return lo - 0.5, 1, []float64{float64(len(vals))}
	}
	binWidth = (hi - lo) / float64(bins)
	counts = make([]float64, bins)
	for _, v := range vals {
		b := int((v - lo) / binWidth)
		if b >= bins {
			b = bins - 1 // the max value falls into the last bin
		}
		counts[b]++
	}
	return lo, binWidth, counts
}

// cellString renders a cell the way it should appear on a category axis.
func cellString(v data.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// truncLabel caps a label at n runes.
func truncLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
