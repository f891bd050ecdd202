// Package termview renders dataset summaries for a terminal: KPI cards, bar rows,
// sparkline trends and the type distribution.
package termview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

var (
	colorTeal     = lipgloss.Color("#0d9488")
	colorAmber    = lipgloss.Color("#f59e0b")
	colorRose     = lipgloss.Color("#f43f5e")
	colorSurface1 = lipgloss.Color("#475569")
	colorText     = lipgloss.Color("#e2e8f0")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	labelStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle   = lipgloss.NewStyle().Foreground(colorSurface1)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	hotStyle = lipgloss.NewStyle().Foreground(colorRose).Bold(true)
)

var sliceColors = []lipgloss.Color{"#0f766e", "#0d9488", "#14b8a6", "#2dd4bf", "#5eead4", "#99f6e4"}

func metricColor(m types.Metric) lipgloss.Color {
	switch m {
	case types.Pressure:
		return colorAmber
	case types.Temperature:
		return colorRose
	}
	return colorTeal
}

// RenderKPIs lays the cards out side by side.
func RenderKPIs(kpis []charts.KPI) string {
	cards := make([]string, len(kpis))
	for i, k := range kpis {
		value := titleStyle.Render(k.Value)
		if k.Unit != "" {
			value += " " + dimStyle.Render(k.Unit)
		}
		cards[i] = cardStyle.Render(dimStyle.Render(k.Title) + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func hbar(value, max float64, w int, col lipgloss.Color) string {
	if max <= 0 {
		max = 1
	}
	n := int(value / max * float64(w))
	if n < 1 && value > 0 {
		n = 1
	}
	if n > w {
		n = w
	}
	if n < 0 {
		n = 0
	}
	return lipgloss.NewStyle().Foreground(col).Render(strings.Repeat("█", n)) +
		lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", w-n))
}

func fitLabel(label string, w int) string {
	if r := []rune(label); len(r) > w {
		label = string(r[:w-1]) + "…"
	}
	return labelStyle.Width(w).Render(label)
}

// RenderBar draws one horizontal bar per category.
func RenderBar(d charts.BarData, barW, labelW int) string {
	var lines []string
	lines = append(lines, titleStyle.Render(d.Title))
	if len(d.Values) == 0 {
		return strings.Join(append(lines, dimStyle.Render("  No data available")), "\n")
	}
	max := 0.0
	for _, v := range d.Values {
		max = math.Max(max, v)
	}
	col := metricColor(d.Metric)
	for i, v := range d.Values {
		lines = append(lines, fmt.Sprintf("  %s %s  %s", fitLabel(d.Labels[i], labelW), hbar(v, max, barW, col),
			lipgloss.NewStyle().Foreground(col).Bold(true).Render(fmt.Sprintf("%.1f %s", v, d.Metric.Unit()))))
	}
	return strings.Join(lines, "\n")
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline compresses values into w block characters. NaN points render as spaces.
func Sparkline(values []float64, w int) string {
	if len(values) == 0 || w < 1 {
		return ""
	}
	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := 0; i < w; i++ {
			idx := int(float64(i) * step)
			if idx >= len(values) {
				idx = len(values) - 1
			}
			sampled[i] = values[idx]
		}
		values = sampled
	}
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng == 0 || math.IsInf(rng, 0) || math.IsNaN(rng) {
		rng = 1
	}
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}

// RenderTrend prints one sparkline per series.
func RenderTrend(d charts.TrendData, w, labelW int) string {
	lines := []string{titleStyle.Render(d.Title)}
	if len(d.Series) == 0 {
		return strings.Join(append(lines, dimStyle.Render("  No data available")), "\n")
	}
	for _, s := range d.Series {
		line := fmt.Sprintf("  %s %s", fitLabel(s.Label, labelW),
			lipgloss.NewStyle().Foreground(metricColor(s.Metric)).Render(Sparkline(s.Values, w)))
		if s.Missing > 0 {
			line += dimStyle.Render(fmt.Sprintf("  (%d missing)", s.Missing))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderCorrelation summarizes a scatter as point count, ranges and Pearson r.
func RenderCorrelation(d charts.CorrelationData) string {
	lines := []string{titleStyle.Render(d.Title)}
	if len(d.Points) == 0 {
		return strings.Join(append(lines, dimStyle.Render("  No data available")), "\n")
	}
	xs := make([]float64, len(d.Points))
	ys := make([]float64, len(d.Points))
	for i, p := range d.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	lines = append(lines, fmt.Sprintf("  %d points, %s %s, %s %s", len(d.Points),
		d.X.Label(), span(xs), d.Y.Label(), span(ys)))
	if r, ok := pearson(xs, ys); ok {
		lines = append(lines, fmt.Sprintf("  r = %.2f", r))
	}
	if d.Skipped > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  %d readings without both values", d.Skipped)))
	}
	return strings.Join(lines, "\n")
}

func span(vs []float64) string {
	lo, hi := vs[0], vs[0]
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return fmt.Sprintf("%.1f..%.1f", lo, hi)
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, false
	}
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/n, sy/n
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return cov / math.Sqrt(vx*vy), true
}

// RenderDistribution draws one proportional bar per equipment type plus the total.
func RenderDistribution(d charts.DistributionData, barW, labelW int) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("%s (total %d)", d.Title, d.Total))}
	if d.Total == 0 {
		return strings.Join(append(lines, dimStyle.Render("  No data available")), "\n")
	}
	for i, s := range d.Slices {
		col := sliceColors[i%len(sliceColors)]
		lines = append(lines, fmt.Sprintf("  %s %s  %d (%d%%)", fitLabel(s.Label, labelW),
			hbar(float64(s.Count), float64(d.Total), barW, col), s.Count, s.Percent))
	}
	return strings.Join(lines, "\n")
}

// RenderTable prints the records table with the high temperature flag.
func RenderTable(rows []charts.Row, limit int) string {
	header := fmt.Sprintf("  %-16s %-14s %9s %9s %11s", "Equipment", "Type", "Flowrate", "Pressure", "Temperature")
	lines := []string{titleStyle.Render("Readings"), dimStyle.Render(header)}
	for i, r := range rows {
		if limit > 0 && i >= limit {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more", len(rows)-limit)))
			break
		}
		temp := fmt.Sprintf("%11s", r.Temperature)
		if r.HighTemp {
			temp = hotStyle.Render(temp)
		}
		lines = append(lines, fmt.Sprintf("  %-16s %-14s %9s %9s %s", truncate(r.Name, 16), truncate(r.Type, 14), r.Flowrate, r.Pressure, temp))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// Options sizes the terminal layout.
type Options struct {
	BarWidth   int
	LabelWidth int
	// TableRows caps the records table; zero prints every row.
	TableRows int
}

// DefaultOptions fit a 100-column terminal.
func DefaultOptions() Options {
	return Options{BarWidth: 40, LabelWidth: 16, TableRows: 20}
}

// Render prints the whole dashboard for state s: KPI cards, every panel, then the table.
func Render(s view.ViewState, stats types.DatasetStats, records []types.SensorReading, o Options) string {
	parts := []string{RenderKPIs(charts.KPIs(stats))}
	for _, p := range view.Panels(s) {
		switch p.Kind {
		case view.PanelBar:
			parts = append(parts, RenderBar(charts.Bar(analysis.Aggregate(records, p.Metric), p.Metric), o.BarWidth, o.LabelWidth))
		case view.PanelTrend:
			schema := charts.ResolveSchema(records)
			td := charts.Trend(records, schema)
			if p.Metric != "" {
				td = charts.Trend(records, schema, p.Metric)
			}
			parts = append(parts, RenderTrend(td, o.BarWidth+10, o.LabelWidth+4))
		case view.PanelCorrelation:
			parts = append(parts, RenderCorrelation(charts.Correlation(records, p.X, p.Y)))
		case view.PanelDistribution:
			parts = append(parts, RenderDistribution(charts.Distribution(stats.TypeDistribution), o.BarWidth, o.LabelWidth))
		}
	}
	parts = append(parts, RenderTable(charts.Table(records), o.TableRows))
	return strings.Join(parts, "\n\n") + "\n"
}
