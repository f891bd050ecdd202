package view

import (
	"net/url"

	"github.com/chemviz/chemviz/src/types"
)

// PanelKind names the adapter a panel is rendered with.
type PanelKind string

const (
	PanelBar          PanelKind = "bar"
	PanelTrend        PanelKind = "trend"
	PanelCorrelation  PanelKind = "correlation"
	PanelDistribution PanelKind = "distribution"
)

// Panel is one adapter invocation. Metric is used by bar and single-metric trend panels
// (empty for the combined trend); X and Y by correlation panels.
type Panel struct {
	Kind   PanelKind
	Metric types.Metric
	X, Y   types.Metric
}

// Panels lists the charts shown for s in display order. KPI cards and the records table
// are always shown and are not part of the list.
func Panels(s ViewState) []Panel {
	switch s.Mode {
	case Trends:
		out := make([]Panel, 0, len(types.AllMetrics))
		for _, m := range types.AllMetrics {
			out = append(out, Panel{Kind: PanelTrend, Metric: m})
		}
		return out
	case Equipment:
		out := make([]Panel, 0, len(types.AllMetrics)+1)
		for _, m := range types.AllMetrics {
			out = append(out, Panel{Kind: PanelBar, Metric: m})
		}
		return append(out, Panel{Kind: PanelDistribution})
	case Correlations:
		return []Panel{
			{Kind: PanelCorrelation, X: types.Pressure, Y: types.Temperature},
			{Kind: PanelCorrelation, X: types.Flowrate, Y: types.Pressure},
			{Kind: PanelCorrelation, X: types.Flowrate, Y: types.Temperature},
		}
	default:
		return []Panel{
			{Kind: PanelBar, Metric: s.BarMetric},
			{Kind: PanelDistribution},
			{Kind: PanelTrend},
			{Kind: PanelCorrelation, X: s.CorrelationX, Y: s.CorrelationY},
		}
	}
}

// Query encodes s as URL query parameters.
func Query(s ViewState) url.Values {
	q := url.Values{}
	q.Set("mode", string(s.Mode))
	q.Set("bar", string(s.BarMetric))
	q.Set("x", string(s.CorrelationX))
	q.Set("y", string(s.CorrelationY))
	return q
}

// FromQuery decodes a state from query parameters. Missing or invalid values fall back to
// the Initial() field individually.
func FromQuery(q url.Values) ViewState {
	s := Initial()
	if m, err := ParseMode(q.Get("mode")); err == nil {
		s.Mode = m
	}
	if m, err := types.ParseMetric(q.Get("bar")); err == nil {
		s.BarMetric = m
	}
	if m, err := types.ParseMetric(q.Get("x")); err == nil {
		s.CorrelationX = m
	}
	if m, err := types.ParseMetric(q.Get("y")); err == nil {
		s.CorrelationY = m
	}
	return s
}
