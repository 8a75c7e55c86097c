package plot

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// barSeries draws vertical bars of a fixed width in x units at category
// positions, optionally shifted by a group offset so several series share a
// category slot. It backs both the Bar and Histogram kinds.
type barSeries struct {
	name   string
	xs     []float64 // bar centers before the group offset
	ys     []float64 // bar heights; NaN entries draw nothing
	offset float64
	width  float64
	style  chart.Style
}

func (bs barSeries) GetName() string           { return bs.name }
func (bs barSeries) GetStyle() chart.Style     { return bs.style }
func (bs barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

// Len and GetValues let the chart derive data ranges when none are set.
func (bs barSeries) Len() int { return len(bs.xs) }
func (bs barSeries) GetValues(i int) (float64, float64) {
	return bs.xs[i] + bs.offset, bs.ys[i]
}

func (bs barSeries) Validate() error {
	if len(bs.xs) != len(bs.ys) {
		return fmt.Errorf("bar series %q: x/y length mismatch", bs.name)
	}
	if len(bs.xs) == 0 {
		return fmt.Errorf("bar series %q: no values", bs.name)
	}
	return nil
}

func (bs barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := bs.style.InheritFrom(defaults)
	baseline := canvasBox.Bottom - yrange.Translate(0)
	if baseline > canvasBox.Bottom {
		baseline = canvasBox.Bottom
	}
	if baseline < canvasBox.Top {
		baseline = canvasBox.Top
	}
	for i := range bs.xs {
		if math.IsNaN(bs.ys[i]) {
			continue
		}
		cx := bs.xs[i] + bs.offset
		left := canvasBox.Left + xrange.Translate(cx-bs.width/2)
		right := canvasBox.Left + xrange.Translate(cx+bs.width/2)
		if right <= left {
			right = left + 1
		}
		y := canvasBox.Bottom - yrange.Translate(bs.ys[i])
		top, bottom := y, baseline
		if top > bottom {
			top, bottom = bottom, top
		}
		chart.Draw.Box(r, chart.Box{Left: left, Right: right, Top: top, Bottom: bottom}, style)
	}
}

// boxStats is one box-and-whisker group at category position x.
type boxStats struct {
	x         float64
	q1        float64
	median    float64
	q3        float64
	loWhisker float64
	hiWhisker float64
	outliers  []float64
}

// lo returns the lowest value the group draws (whisker or outlier).
func (g boxStats) lo() float64 {
	lo := g.loWhisker
	for _, v := range g.outliers {
		if v < lo {
			lo = v
		}
	}
	return lo
}

// hi returns the highest value the group draws.
func (g boxStats) hi() float64 {
	hi := g.hiWhisker
	for _, v := range g.outliers {
		if v > hi {
			hi = v
		}
	}
	return hi
}

// boxPlotSeries draws one box-and-whisker glyph per group. It reports no
// name, so it never contributes a legend entry.
type boxPlotSeries struct {
	groups []boxStats
	style  chart.Style
}

func (s boxPlotSeries) GetName() string           { return "" }
func (s boxPlotSeries) GetStyle() chart.Style     { return s.style }
func (s boxPlotSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

// Len and GetValues expose each group's extremes for range derivation.
func (s boxPlotSeries) Len() int { return 2 * len(s.groups) }
func (s boxPlotSeries) GetValues(i int) (float64, float64) {
	g := s.groups[i/2]
	if i%2 == 0 {
		return g.x, g.lo()
	}
	return g.x, g.hi()
}

func (s boxPlotSeries) Validate() error {
	if len(s.groups) == 0 {
		return fmt.Errorf("box series: no groups")
	}
	return nil
}

const (
	boxHalfWidth = 0.25
	capHalfWidth = 0.125
)

func (s boxPlotSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.style.InheritFrom(defaults)
	stroke := style.GetStrokeColor()
	width := style.GetStrokeWidth()

	px := func(v float64) int { return canvasBox.Left + xrange.Translate(v) }
	py := func(v float64) int { return canvasBox.Bottom - yrange.Translate(v) }
	line := func(x0, y0, x1, y1 int) {
		r.SetStrokeColor(stroke)
		r.SetStrokeWidth(width)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y1)
		r.Stroke()
	}

	for _, g := range s.groups {
		left := px(g.x - boxHalfWidth)
		right := px(g.x + boxHalfWidth)
		center := px(g.x)

		// Box between the quartiles.
		yQ1 := py(g.q1)
		yQ3 := py(g.q3)
		line(left, yQ1, right, yQ1)
		line(left, yQ3, right, yQ3)
		line(left, yQ3, left, yQ1)
		line(right, yQ3, right, yQ1)

		// Median line.
		yMed := py(g.median)
		line(left, yMed, right, yMed)

		// Whiskers with caps.
		yLo := py(g.loWhisker)
		yHi := py(g.hiWhisker)
		line(center, yQ1, center, yLo)
		line(center, yQ3, center, yHi)
		capL := px(g.x - capHalfWidth)
		capR := px(g.x + capHalfWidth)
		line(capL, yLo, capR, yLo)
		line(capL, yHi, capR, yHi)

		// Outliers beyond the whiskers.
		for _, v := range g.outliers {
			r.SetStrokeColor(stroke)
			r.SetStrokeWidth(width)
			r.Circle(2.5, center, py(v))
			r.Stroke()
		}
	}
}
