// Package plot renders a dataset onto a reusable drawable surface under an
// immutable plot configuration, and exports the surface as PNG or SVG.
package plot

// Kind selects the chart type.
type Kind int

const (
	Line Kind = iota
	Scatter
	Bar
	Histogram
	Area
	Box
)

var kindNames = map[Kind]string{
	Line:      "Line",
	Scatter:   "Scatter",
	Bar:       "Bar",
	Histogram: "Histogram",
	Area:      "Area",
	Box:       "Box",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Line"
}

// ParseKind maps a display label back to its Kind.
func ParseKind(label string) (Kind, bool) {
	for k, n := range kindNames {
		if n == label {
			return k, true
		}
	}
	return Line, false
}

// Kinds lists all chart kinds in display order.
func Kinds() []Kind { return []Kind{Line, Scatter, Bar, Histogram, Area, Box} }

// Marker selects the point symbol for line series. The chart backend draws
// round markers; the enum records user intent and toggles point drawing.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerCircle
	MarkerSquare
	MarkerDiamond
)

var markerNames = map[Marker]string{
	MarkerNone:    "None",
	MarkerCircle:  "Circle",
	MarkerSquare:  "Square",
	MarkerDiamond: "Diamond",
}

func (m Marker) String() string {
	if n, ok := markerNames[m]; ok {
		return n
	}
	return "None"
}

// ParseMarker maps a display label back to its Marker.
func ParseMarker(label string) (Marker, bool) {
	for m, n := range markerNames {
		if n == label {
			return m, true
		}
	}
	return MarkerNone, false
}

// Markers lists all markers in display order.
func Markers() []Marker {
	return []Marker{MarkerNone, MarkerCircle, MarkerSquare, MarkerDiamond}
}

// LineStyle selects the stroke pattern for line series.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDashDot
	LineDotted
	LineNone
)

var lineStyleNames = map[LineStyle]string{
	LineSolid:   "Solid",
	LineDashed:  "Dashed",
	LineDashDot: "Dash-Dot",
	LineDotted:  "Dotted",
	LineNone:    "None",
}

func (l LineStyle) String() string {
	if n, ok := lineStyleNames[l]; ok {
		return n
	}
	return "Solid"
}

// ParseLineStyle maps a display label back to its LineStyle.
func ParseLineStyle(label string) (LineStyle, bool) {
	for l, n := range lineStyleNames {
		if n == label {
			return l, true
		}
	}
	return LineSolid, false
}

// LineStyles lists all line styles in display order.
func LineStyles() []LineStyle {
	return []LineStyle{LineSolid, LineDashed, LineDashDot, LineDotted, LineNone}
}

// dashArray returns the stroke dash pattern, nil for a solid line.
func (l LineStyle) dashArray() []float64 {
	switch l {
	case LineDashed:
		return []float64{5, 5}
	case LineDashDot:
		return []float64{5, 3, 1, 3}
	case LineDotted:
		return []float64{1, 3}
	default:
		return nil
	}
}

// Config is an immutable snapshot of rendering intent. The renderer only
// reads it; the UI produces a fresh snapshot on every edit.
type Config struct {
	Kind      Kind
	XColumn   string // empty means the ordinal row index
	YColumns  []string
	Title     string
	XLabel    string
	YLabel    string
	Grid      bool
	Legend    bool
	Marker    Marker
	LineStyle LineStyle
	Opacity   float64 // clamped to [0.1, 1.0]; zero means 1.0
}

// Normalize returns a copy with the opacity clamped into [0.1, 1.0]. A zero
// value (unset) becomes fully opaque.
func (c Config) Normalize() Config {
	switch {
	case c.Opacity == 0:
		c.Opacity = 1.0
	case c.Opacity < 0.1:
		c.Opacity = 0.1
	case c.Opacity > 1.0:
		c.Opacity = 1.0
	}
	return c
}
