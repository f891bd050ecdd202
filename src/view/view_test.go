package view

import (
	"errors"
	"testing"

	"github.com/chemviz/chemviz/src/types"
)

func TestInitial(t *testing.T) {
	s := Initial()
	if s.Mode != Overview || s.BarMetric != types.Flowrate || s.CorrelationX != types.Pressure || s.CorrelationY != types.Temperature {
		t.Fatalf("unexpected initial state: %+v", s)
	}
}

func TestModeRoundTripKeepsMetrics(t *testing.T) {
	s := Initial()
	s, err := SetBarMetric(s, types.Pressure)
	if err != nil {
		t.Fatalf("SetBarMetric: %v", err)
	}
	s, err = SetCorrelationAxes(s, types.Flowrate, types.Flowrate)
	if err != nil {
		t.Fatalf("SetCorrelationAxes: %v", err)
	}
	before := s
	if s, err = SetMode(s, Trends); err != nil {
		t.Fatalf("SetMode trends: %v", err)
	}
	if s, err = SetMode(s, Overview); err != nil {
		t.Fatalf("SetMode overview: %v", err)
	}
	if s != before {
		t.Fatalf("metric selections lost across modes: %+v vs %+v", s, before)
	}
}

func TestUnknownInputsRejected(t *testing.T) {
	s := Initial()
	got, err := SetMode(s, Mode("bogus"))
	if !errors.Is(err, ErrUnknownMode) || got != s {
		t.Fatalf("expected ErrUnknownMode and unchanged state, got %v %+v", err, got)
	}
	got, err = SetBarMetric(s, types.Metric("humidity"))
	if !errors.Is(err, ErrUnknownMetric) || got != s {
		t.Fatalf("expected ErrUnknownMetric, got %v %+v", err, got)
	}
	got, err = SetCorrelationAxes(s, types.Pressure, types.Metric(""))
	if !errors.Is(err, ErrUnknownMetric) || got != s {
		t.Fatalf("expected ErrUnknownMetric for y, got %v %+v", err, got)
	}
	if _, err := ParseMode("Equipment"); err != nil {
		t.Fatalf("ParseMode case-insensitive: %v", err)
	}
}

func TestControllerNotifiesAndResets(t *testing.T) {
	c := NewController()
	var seen []ViewState
	c.OnChange(func(s ViewState) { seen = append(seen, s) })
	if _, err := c.SetMode(Equipment); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if _, err := c.SetMode(Equipment); err != nil {
		t.Fatalf("SetMode again: %v", err)
	}
	if _, err := c.SetMode("nope"); err == nil {
		t.Fatalf("expected error")
	}
	if len(seen) != 1 {
		t.Fatalf("expected 1 notification got %d", len(seen))
	}
	if c.State().Mode != Equipment {
		t.Fatalf("state = %+v", c.State())
	}
	if s := c.Reset(); s != Initial() || len(seen) != 2 {
		t.Fatalf("reset = %+v notifications=%d", s, len(seen))
	}
	if _, err := c.Replace(ViewState{Mode: Trends, BarMetric: "x"}); err == nil || c.State() != Initial() {
		t.Fatalf("invalid replace must be rejected without change")
	}
}

func TestPanels(t *testing.T) {
	s := Initial()
	s.BarMetric = types.Temperature
	p := Panels(s)
	if len(p) != 4 || p[0].Kind != PanelBar || p[0].Metric != types.Temperature || p[3].X != types.Pressure || p[3].Y != types.Temperature {
		t.Fatalf("overview panels = %+v", p)
	}
	s.Mode = Trends
	if p := Panels(s); len(p) != 3 || p[2].Kind != PanelTrend || p[2].Metric != types.Temperature {
		t.Fatalf("trend panels = %+v", p)
	}
	s.Mode = Equipment
	if p := Panels(s); len(p) != 4 || p[3].Kind != PanelDistribution {
		t.Fatalf("equipment panels = %+v", p)
	}
	s.Mode = Correlations
	p = Panels(s)
	if len(p) != 3 || p[1].X != types.Flowrate || p[1].Y != types.Pressure {
		t.Fatalf("correlation panels = %+v", p)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	s := ViewState{Mode: Correlations, BarMetric: types.Pressure, CorrelationX: types.Temperature, CorrelationY: types.Flowrate}
	if got := FromQuery(Query(s)); got != s {
		t.Fatalf("round trip = %+v", got)
	}
	q := Query(s)
	q.Set("mode", "bogus")
	if got := FromQuery(q); got.Mode != Overview || got.BarMetric != types.Pressure {
		t.Fatalf("invalid mode should fall back individually: %+v", got)
	}
}
