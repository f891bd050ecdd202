package webview

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/chemviz/chemviz/src/analysis"
	ca "github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

const (
	chartWidth      = "760px"
	chartHeight     = "360px"
	chartTextColor  = "#1e293b"
	chartBackground = "#ffffff"
)

var metricColors = map[types.Metric]string{
	types.Flowrate:    "#0d9488",
	types.Pressure:    "#f59e0b",
	types.Temperature: "#f43f5e",
}

var sliceColors = []string{"#0f766e", "#0d9488", "#14b8a6", "#2dd4bf", "#5eead4", "#99f6e4"}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: chartBackground,
	})
}

func titleOpts(title string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		TitleStyle: &opts.TextStyle{Color: chartTextColor},
	})
}

func buildBarChart(d ca.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		titleOpts(d.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.Metric.Unit()}),
	)
	data := make([]opts.BarData, len(d.Values))
	for i, v := range d.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(d.Labels).AddSeries(d.Metric.Label(), data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: metricColors[d.Metric]}))
	return bar
}

func buildTrendChart(d ca.TrendData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		titleOpts(d.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Reading #", AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)}}),
	)
	hasSecondary := false
	for _, s := range d.Series {
		if s.Secondary {
			hasSecondary = true
		}
	}
	if hasSecondary {
		line.ExtendYAxis(opts.YAxis{Name: types.Pressure.Unit(), Position: "right"})
	}
	line.SetXAxis(d.Index)
	for _, s := range d.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			if math.IsNaN(v) {
				data[i] = opts.LineData{Value: nil}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		lc := opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}
		if s.Secondary {
			lc.YAxisIndex = 1
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(lc),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: metricColors[s.Metric]}),
		}
		if s.Filled {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.25)}))
		}
		line.AddSeries(s.Label, data, seriesOpts...)
	}
	return line
}

func buildScatterChart(d ca.CorrelationData) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		initOpts(),
		titleOpts(d.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: fmt.Sprintf("%s (%s)", d.X.Label(), d.X.Unit())}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: fmt.Sprintf("%s (%s)", d.Y.Label(), d.Y.Unit())}),
	)
	data := make([]opts.ScatterData, len(d.Points))
	for i, p := range d.Points {
		data[i] = opts.ScatterData{Value: []float64{p.X, p.Y}, SymbolSize: 10}
	}
	sc.AddSeries("Readings", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(13, 148, 136, 0.6)"}))
	return sc
}

func buildDistributionChart(d ca.DistributionData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:      d.Title,
			Subtitle:   fmt.Sprintf("Total %d", d.Total),
			TitleStyle: &opts.TextStyle{Color: chartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10", Orient: "vertical"}),
	)
	data := make([]opts.PieData, len(d.Slices))
	for i, s := range d.Slices {
		data[i] = opts.PieData{
			Name:      s.Label,
			Value:     s.Count,
			ItemStyle: &opts.ItemStyle{Color: sliceColors[i%len(sliceColors)]},
		}
	}
	pie.AddSeries("Equipment", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"55%", "75%"},
				Center: []string{"40%", "55%"},
			}),
		)
	return pie
}

// buildPanel runs the adapter behind p and wraps it in an echarts chart.
func buildPanel(p view.Panel, stats types.DatasetStats, records []types.SensorReading) components.Charter {
	switch p.Kind {
	case view.PanelBar:
		return buildBarChart(ca.Bar(analysis.Aggregate(records, p.Metric), p.Metric))
	case view.PanelTrend:
		schema := ca.ResolveSchema(records)
		if p.Metric != "" {
			return buildTrendChart(ca.Trend(records, schema, p.Metric))
		}
		return buildTrendChart(ca.Trend(records, schema))
	case view.PanelCorrelation:
		return buildScatterChart(ca.Correlation(records, p.X, p.Y))
	default:
		return buildDistributionChart(ca.Distribution(stats.TypeDistribution))
	}
}

// chartsPage assembles every panel of s into one go-echarts page.
func chartsPage(s view.ViewState, stats types.DatasetStats, records []types.SensorReading) *components.Page {
	page := components.NewPage()
	page.PageTitle = "ChemViz " + s.Mode.Title()
	for _, p := range view.Panels(s) {
		page.AddCharts(buildPanel(p, stats, records))
	}
	return page
}
