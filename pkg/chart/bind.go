package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// noneLabel names the trace for rows whose color column is NULL
const noneLabel = "(none)"

var printer = message.NewPrinter(language.English)

// Bind maps a query result to a renderable figure. It is deterministic:
// the same result and spec always produce the same figure. Zero rows yield
// a titled figure without traces.
func Bind(spec *model.ChartSpec, result *model.QueryResult) (*model.Figure, error) {
	if spec == nil {
		return nil, goerr.New("chart spec is nil")
	}
	if result == nil {
		return nil, goerr.New("query result is nil", goerr.V("title", spec.Title))
	}

	for _, field := range []string{spec.X, spec.Y, spec.Color} {
		if field == "" {
			continue
		}
		if !result.HasColumn(field) {
			return nil, goerr.New("chart field is not in result",
				goerr.V("title", spec.Title), goerr.V("field", field))
		}
	}

	fig := &model.Figure{
		Data:   []model.Trace{},
		Layout: bindLayout(spec),
	}

	if len(result.Rows) == 0 {
		return fig, nil
	}

	if spec.Color == "" {
		fig.Data = append(fig.Data, newTrace(spec, ""))
		for _, row := range result.Rows {
			appendPoint(&fig.Data[0], spec, row)
		}
		return fig, nil
	}

	// One trace per distinct color value, in first-appearance order
	groups := make(map[string]int)
	for _, row := range result.Rows {
		key := label(row[spec.Color])
		idx, ok := groups[key]
		if !ok {
			idx = len(fig.Data)
			groups[key] = idx
			fig.Data = append(fig.Data, newTrace(spec, key))
		}
		appendPoint(&fig.Data[idx], spec, row)
	}
	fig.Layout.ShowLegend = true

	return fig, nil
}

func bindLayout(spec *model.ChartSpec) model.FigureLayout {
	layout := model.FigureLayout{
		Title: model.Text{Text: spec.Title},
		XAxis: model.Axis{Title: model.Text{Text: spec.X}},
		YAxis: model.Axis{Title: model.Text{Text: spec.Y}},
	}

	if spec.Kind == model.ChartBar {
		layout.BarMode = spec.BarMode
		if layout.BarMode == "" && spec.Color != "" {
			layout.BarMode = model.BarModeRelative
		}
	}

	// the value axis is x for horizontal bars, y otherwise
	if spec.Orientation == model.Horizontal {
		layout.XAxis.TickSuffix = spec.ValueSuffix
		layout.YAxis.Type = "category"
	} else {
		layout.YAxis.TickSuffix = spec.ValueSuffix
	}

	return layout
}

func newTrace(spec *model.ChartSpec, name string) model.Trace {
	tr := model.Trace{
		Name: name,
		X:    []any{},
		Y:    []any{},
	}

	switch spec.Kind {
	case model.ChartLine:
		tr.Type = "scatter"
		tr.Mode = "lines"
	default:
		tr.Type = "bar"
		tr.Orientation = string(spec.Orientation)
	}

	if spec.MarkerColor != "" {
		tr.Marker = &model.Marker{Color: spec.MarkerColor}
	}
	return tr
}

func appendPoint(tr *model.Trace, spec *model.ChartSpec, row model.Row) {
	tr.X = append(tr.X, cell(row[spec.X]))
	tr.Y = append(tr.Y, cell(row[spec.Y]))
}

// cell converts a scanned value into its JSON form. Dates become
// YYYY-MM-DD, NULL and non-finite numbers become null.
func cell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(model.DateLayout)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	default:
		return val
	}
}

func label(v any) string {
	switch val := v.(type) {
	case nil:
		return noneLabel
	case string:
		if val == "" {
			return noneLabel
		}
		return val
	case time.Time:
		return val.Format(model.DateLayout)
	default:
		return fmt.Sprint(val)
	}
}

// BindMetric reads the first column of the first row as a scalar tile.
// Missing rows and NULL read as zero.
func BindMetric(spec *model.MetricSpec, result *model.QueryResult) (*model.Metric, error) {
	if spec == nil {
		return nil, goerr.New("metric spec is nil")
	}
	if result == nil {
		return nil, goerr.New("query result is nil", goerr.V("title", spec.Title))
	}
	if !result.HasColumn(spec.Column) {
		return nil, goerr.New("metric column is not in result",
			goerr.V("title", spec.Title), goerr.V("column", spec.Column))
	}

	var raw float64
	if len(result.Rows) > 0 {
		raw = result.Rows[0].Float(spec.Column)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = 0
	}

	return &model.Metric{
		Title: spec.Title,
		Value: FormatValue(raw, spec.Precision),
		Raw:   raw,
	}, nil
}

// FormatValue renders a number with thousands separators. Precision 0
// rounds to an integer.
func FormatValue(v float64, precision int) string {
	if precision <= 0 {
		return printer.Sprintf("%d", int64(math.Round(v)))
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), v)
}
