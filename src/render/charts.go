package render

import (
	"fmt"
	"image"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/types"
)

func padding(o Options) chart.Style {
	bottom := 28
	if o.Hints {
		bottom += 18
	}
	return chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: bottom}}
}

func finish(img image.Image, o Options, hint string) image.Image {
	if o.Hints {
		return drawHint(img, hint)
	}
	return img
}

// Bar draws per-category averages as vertical bars.
func Bar(d charts.BarData, o Options) image.Image {
	w, h := o.size()
	if len(d.Values) == 0 {
		return blank(w, h)
	}
	bars := make([]chart.Value, len(d.Values))
	col := MetricColor(d.Metric)
	for i, v := range d.Values {
		bars[i] = chart.Value{
			Label: d.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: col.WithAlpha(200), StrokeColor: col, StrokeWidth: 1},
		}
	}
	yr, ticks, _ := axis(6, resolution(d.Metric), append([]float64{0}, d.Values...))
	barW := (w - 120) / (2 * len(bars))
	if barW > 60 {
		barW = 60
	}
	if barW < 4 {
		barW = 4
	}
	bc := chart.BarChart{
		Title:      d.Title,
		Width:      w,
		Height:     h,
		BarWidth:   barW,
		Background: padding(o),
		YAxis:      chart.YAxis{Name: d.Metric.Unit(), Range: yr, Ticks: ticks},
		Bars:       bars,
	}
	img := encode("bar", bc, w, h)
	return finish(img, o, "Hint: average "+string(d.Metric)+" per equipment type, one decimal.")
}

// Trend draws the multi-series line chart. Gaps (NaN) split a series into segments so
// missing readings leave a hole instead of a bogus line.
func Trend(d charts.TrendData, o Options) image.Image {
	w, h := o.size()
	if len(d.Index) == 0 || len(d.Series) == 0 {
		return blank(w, h)
	}
	xs := make([]float64, len(d.Index))
	for i, v := range d.Index {
		xs[i] = float64(v)
	}
	// with nothing on the primary axis every series moves there
	hasPrimary := false
	for _, s := range d.Series {
		if !s.Secondary && len(segments(xs, s.Values)) > 0 {
			hasPrimary = true
		}
	}
	var series, named []chart.Series
	var primary, secondary [][]float64
	var primaryM, secondaryM []types.Metric
	for _, s := range d.Series {
		col := MetricColor(s.Metric)
		st := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if s.Filled {
			st.FillColor = col.WithAlpha(60)
		}
		axisSel := chart.YAxisPrimary
		if s.Secondary && hasPrimary {
			axisSel = chart.YAxisSecondary
			secondary = append(secondary, s.Values)
			secondaryM = append(secondaryM, s.Metric)
		} else {
			primary = append(primary, s.Values)
			primaryM = append(primaryM, s.Metric)
		}
		segs := segments(xs, s.Values)
		for i, seg := range segs {
			cs := chart.ContinuousSeries{Style: st, YAxis: axisSel, XValues: seg[0], YValues: seg[1]}
			if len(seg[0]) == 1 {
				// a single point still needs two samples; draw it as a dot
				cs.XValues = []float64{seg[0][0], seg[0][0] + 0.0001}
				cs.YValues = []float64{seg[1][0], seg[1][0]}
				cs.Style = pointStyle(col)
			}
			if i == 0 {
				cs.Name = s.Label
				named = append(named, cs)
			}
			series = append(series, cs)
		}
	}
	if len(series) == 0 {
		return blank(w, h)
	}
	xr := &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]}
	if xr.Max <= xr.Min {
		xr.Max = xr.Min + 1
	}
	ch := chart.Chart{
		Title:      d.Title,
		Width:      w,
		Height:     h,
		Background: padding(o),
		XAxis:      chart.XAxis{Name: "Reading #", Range: xr, ValueFormatter: intFormatter},
		Series:     series,
	}
	if r, t, ok := axis(6, resolution(primaryM...), primary...); ok {
		ch.YAxis = chart.YAxis{Range: r, Ticks: t}
	}
	if r, t, ok := axis(6, resolution(secondaryM...), secondary...); ok {
		ch.YAxisSecondary = chart.YAxis{Range: r, Ticks: t}
	}
	legendSrc := ch
	legendSrc.Series = named
	ch.Elements = []chart.Renderable{chart.Legend(&legendSrc)}
	img := encode("trend", ch, w, h)
	return finish(img, o, "Hint: readings in upload order; pressure uses the right-hand axis.")
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return fmt.Sprintf("%v", v)
}

// segments splits (xs, ys) into runs without NaN.
func segments(xs, ys []float64) [][2][]float64 {
	var out [][2][]float64
	var cx, cy []float64
	flush := func() {
		if len(cx) > 0 {
			out = append(out, [2][]float64{cx, cy})
		}
		cx, cy = nil, nil
	}
	for i, y := range ys {
		if math.IsNaN(y) {
			flush()
			continue
		}
		cx = append(cx, xs[i])
		cy = append(cy, y)
	}
	flush()
	return out
}

// Scatter draws one dot per correlation point.
func Scatter(d charts.CorrelationData, o Options) image.Image {
	w, h := o.size()
	if len(d.Points) == 0 {
		return blank(w, h)
	}
	xs := make([]float64, len(d.Points))
	ys := make([]float64, len(d.Points))
	for i, p := range d.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	xr, xt, _ := axis(6, resolution(d.X), xs)
	yr, yt, _ := axis(6, resolution(d.Y), ys)
	st := pointStyle(colorPoint)
	st.DotWidth = 5
	ch := chart.Chart{
		Title:      d.Title,
		Width:      w,
		Height:     h,
		Background: padding(o),
		XAxis:      chart.XAxis{Name: fmt.Sprintf("%s (%s)", d.X.Label(), d.X.Unit()), Range: xr, Ticks: xt},
		YAxis:      chart.YAxis{Name: fmt.Sprintf("%s (%s)", d.Y.Label(), d.Y.Unit()), Range: yr, Ticks: yt},
		Series:     []chart.Series{chart.ContinuousSeries{Name: "Readings", Style: st, XValues: xs, YValues: ys}},
	}
	img := encode("scatter", ch, w, h)
	hint := "Hint: one dot per reading."
	if d.Skipped > 0 {
		hint = fmt.Sprintf("Hint: one dot per reading; %d without both values omitted.", d.Skipped)
	}
	return finish(img, o, hint)
}

// Donut draws the equipment type distribution with the total in the middle.
func Donut(d charts.DistributionData, o Options) image.Image {
	w, h := o.size()
	if d.Total <= 0 || len(d.Slices) == 0 {
		return blank(w, h)
	}
	values := make([]chart.Value, 0, len(d.Slices))
	for i, s := range d.Slices {
		if s.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %d%%", s.Label, s.Percent),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: SliceColor(i), StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	dc := chart.DonutChart{
		Title:      d.Title,
		Width:      w,
		Height:     h,
		Background: padding(o),
		Values:     values,
	}
	img := encode("donut", dc, w, h)
	img = drawCenterLabel(img, strconv.Itoa(d.Total), "Total")
	return finish(img, o, "Hint: share of readings per equipment type.")
}
