package model

// ChartKind represents the type of chart to render
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// Orientation is the direction bars extend in
type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

// BarMode controls how multiple bar traces share a category
type BarMode string

const (
	BarModeGroup    BarMode = "group"
	BarModeStack    BarMode = "stack"
	BarModeRelative BarMode = "relative"
)

// ChartSpec declares how a query result is drawn
type ChartSpec struct {
	Kind        ChartKind
	X           string
	Y           string
	Color       string // optional grouping column, one trace per value
	Orientation Orientation
	Title       string
	MarkerColor string // optional fixed color for every trace
	BarMode     BarMode
	ValueSuffix string // appended to value-axis ticks, e.g. "%"
}

// MetricSpec declares how a scalar query result is shown as a tile
type MetricSpec struct {
	Title     string
	Column    string
	Precision int // decimal places; 0 renders a grouped integer
}

// Figure is a renderable chart: traces plus layout, in the shape a
// browser-side plotting library consumes directly
type Figure struct {
	Data   []Trace      `json:"data"`
	Layout FigureLayout `json:"layout"`
}

// Trace is one data series of a figure
type Trace struct {
	Type        string  `json:"type"`
	Mode        string  `json:"mode,omitempty"`
	Name        string  `json:"name,omitempty"`
	X           []any   `json:"x"`
	Y           []any   `json:"y"`
	Orientation string  `json:"orientation,omitempty"`
	Marker      *Marker `json:"marker,omitempty"`
}

// Marker styles a trace
type Marker struct {
	Color string `json:"color,omitempty"`
}

// FigureLayout carries figure-level presentation
type FigureLayout struct {
	Title      Text    `json:"title"`
	BarMode    BarMode `json:"barmode,omitempty"`
	ShowLegend bool    `json:"showlegend"`
	XAxis      Axis    `json:"xaxis"`
	YAxis      Axis    `json:"yaxis"`
}

// Axis configures one axis
type Axis struct {
	Title      Text   `json:"title"`
	TickSuffix string `json:"ticksuffix,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Text is a titled label
type Text struct {
	Text string `json:"text"`
}

// Metric is a rendered scalar tile
type Metric struct {
	Title string  `json:"title"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}
