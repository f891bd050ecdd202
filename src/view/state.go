// Package view holds the dashboard's view-mode state. ViewState is an immutable value;
// every transition returns a new state or an error with the input untouched.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chemviz/chemviz/src/types"
)

var (
	ErrUnknownMode   = errors.New("unknown view mode")
	ErrUnknownMetric = errors.New("unknown metric")
)

// Mode selects which panels the dashboard shows.
type Mode string

const (
	Overview     Mode = "overview"
	Trends       Mode = "trends"
	Equipment    Mode = "equipment"
	Correlations Mode = "correlations"
)

// AllModes lists modes in tab order.
var AllModes = []Mode{Overview, Trends, Equipment, Correlations}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, x := range AllModes {
		if m == x {
			return true
		}
	}
	return false
}

// Title is the tab label.
func (m Mode) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// ViewState is the full selection the panels are derived from.
type ViewState struct {
	Mode         Mode
	BarMetric    types.Metric
	CorrelationX types.Metric
	CorrelationY types.Metric
}

// Initial returns the state a freshly opened dataset starts in.
func Initial() ViewState {
	return ViewState{
		Mode:         Overview,
		BarMetric:    types.Flowrate,
		CorrelationX: types.Pressure,
		CorrelationY: types.Temperature,
	}
}

// SetMode switches mode. Metric selections carry over unchanged.
func SetMode(s ViewState, m Mode) (ViewState, error) {
	if !m.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	s.Mode = m
	return s, nil
}

// SetBarMetric changes the metric of the overview bar chart.
func SetBarMetric(s ViewState, m types.Metric) (ViewState, error) {
	if !m.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}
	s.BarMetric = m
	return s, nil
}

// SetCorrelationAxes changes both axes of the overview scatter. x == y is allowed.
func SetCorrelationAxes(s ViewState, x, y types.Metric) (ViewState, error) {
	if !x.Valid() {
		return s, fmt.Errorf("%w: x axis %q", ErrUnknownMetric, x)
	}
	if !y.Valid() {
		return s, fmt.Errorf("%w: y axis %q", ErrUnknownMetric, y)
	}
	s.CorrelationX, s.CorrelationY = x, y
	return s, nil
}
