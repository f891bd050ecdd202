// Package charts turns records, aggregation results and statistics into renderer-neutral
// series. Every adapter is a pure function that builds fresh slices on each call; the
// fyne viewer, the web dashboard and the CLI all draw from these values.
package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/types"
)

// BarData holds parallel label/value arrays for a per-category bar chart.
type BarData struct {
	Metric types.Metric
	Title  string
	Labels []string
	Values []float64
}

// Bar converts an aggregation result into bar series. Labels are sorted ascending so the
// output does not depend on map iteration order.
func Bar(result analysis.AggregationResult, metric types.Metric) BarData {
	labels := make([]string, 0, len(result))
	for k := range result {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = result[l]
	}
	return BarData{
		Metric: metric,
		Title:  fmt.Sprintf("Average %s by Equipment", metric.Label()),
		Labels: labels,
		Values: values,
	}
}

// Schema is the ordered set of metrics a trend chart plots.
type Schema []types.Metric

// Has reports whether m is part of the schema.
func (s Schema) Has(m types.Metric) bool {
	for _, x := range s {
		if x == m {
			return true
		}
	}
	return false
}

// ResolveSchema returns every metric present on at least one record, in canonical order.
func ResolveSchema(records []types.SensorReading) Schema {
	var seen [3]bool
	for _, r := range records {
		for i, m := range types.AllMetrics {
			if _, ok := r.Value(m); ok {
				seen[i] = true
			}
		}
	}
	out := Schema{}
	for i, m := range types.AllMetrics {
		if seen[i] {
			out = append(out, m)
		}
	}
	return out
}

// TrendSeries is one metric plotted against record position. Values holds NaN wherever a
// record lacks the metric; Missing counts those gaps.
type TrendSeries struct {
	Metric    types.Metric
	Label     string
	Values    []float64
	Filled    bool
	Secondary bool
	Missing   int
}

// TrendData is the multi-series line chart over the implicit time axis.
type TrendData struct {
	Title  string
	Index  []int
	Series []TrendSeries
}

// Trend builds one series per schema metric. When only is non-empty the output is
// restricted to those metrics (still in schema order). Flowrate is a filled area on the
// primary axis, pressure a line on the secondary axis, temperature a line on the primary.
func Trend(records []types.SensorReading, schema Schema, only ...types.Metric) TrendData {
	td := TrendData{Title: "Process Trends", Index: make([]int, len(records))}
	for i := range records {
		td.Index[i] = i + 1
	}
	for _, m := range schema {
		if len(only) > 0 && !Schema(only).Has(m) {
			continue
		}
		s := TrendSeries{
			Metric:    m,
			Label:     fmt.Sprintf("%s (%s)", m.Label(), m.Unit()),
			Values:    make([]float64, len(records)),
			Filled:    m == types.Flowrate,
			Secondary: m == types.Pressure,
		}
		for i, r := range records {
			v, ok := r.Value(m)
			if !ok {
				v = math.NaN()
				s.Missing++
			}
			s.Values[i] = v
		}
		td.Series = append(td.Series, s)
	}
	if len(only) == 1 {
		td.Title = only[0].Label() + " Trend"
	}
	return td
}

// Point is one scatter point.
type Point struct {
	X, Y float64
}

// CorrelationData is a scatter of one metric against another, one point per record.
type CorrelationData struct {
	Title   string
	X, Y    types.Metric
	Points  []Point
	Skipped int
}

// Correlation pairs metric x with metric y per record, preserving record order. Records
// lacking either metric are skipped and counted.
func Correlation(records []types.SensorReading, x, y types.Metric) CorrelationData {
	cd := CorrelationData{
		Title:  fmt.Sprintf("%s vs %s", x.Label(), y.Label()),
		X:      x,
		Y:      y,
		Points: make([]Point, 0, len(records)),
	}
	for _, r := range records {
		xv, okx := r.Value(x)
		yv, oky := r.Value(y)
		if !okx || !oky {
			cd.Skipped++
			continue
		}
		cd.Points = append(cd.Points, Point{X: xv, Y: yv})
	}
	return cd
}

// Slice is one category of the distribution chart.
type Slice struct {
	Label   string
	Count   int
	Percent int
}

// DistributionData is the donut chart of equipment types with its center total.
type DistributionData struct {
	Title  string
	Slices []Slice
	Total  int
}

// Distribution converts the type distribution into donut slices sorted by label.
func Distribution(dist map[string]int) DistributionData {
	dd := DistributionData{Title: "Equipment Types", Total: analysis.DistributionTotal(dist)}
	labels := make([]string, 0, len(dist))
	for k := range dist {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	dd.Slices = make([]Slice, len(labels))
	for i, l := range labels {
		dd.Slices[i] = Slice{Label: l, Count: dist[l], Percent: analysis.Proportion(dist[l], dd.Total)}
	}
	return dd
}
