// Package types holds the data model shared by the chemviz packages: sensor readings as
// delivered by the dataset API, the server-side statistics block and the opaque report payload.
package types

import (
	"fmt"
	"strings"
)

// Metric names one numeric reading carried by every sensor record.
type Metric string

const (
	Flowrate    Metric = "flowrate"
	Pressure    Metric = "pressure"
	Temperature Metric = "temperature"
)

// AllMetrics lists the metrics in canonical display order.
var AllMetrics = []Metric{Flowrate, Pressure, Temperature}

// ParseMetric accepts the metric key case-insensitively ("Flowrate", "flowrate").
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case Flowrate:
		return Flowrate, nil
	case Pressure:
		return Pressure, nil
	case Temperature:
		return Temperature, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Valid reports whether m is one of AllMetrics.
func (m Metric) Valid() bool {
	switch m {
	case Flowrate, Pressure, Temperature:
		return true
	}
	return false
}

// Label returns the capitalized metric name used in titles.
func (m Metric) Label() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case Flowrate:
		return "L/min"
	case Pressure:
		return "PSI"
	case Temperature:
		return "°C"
	}
	return ""
}

// SensorReading is one row of an uploaded dataset. Metric fields are pointers so that a
// record missing a column (or carrying null) stays distinguishable from a zero reading.
type SensorReading struct {
	ID            int      `json:"id"`
	EquipmentName string   `json:"equipment_name"`
	EquipmentType string   `json:"equipment_type"`
	Flowrate      *float64 `json:"flowrate,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
}

// Value returns the reading for m and whether the record carries it.
func (r SensorReading) Value(m Metric) (float64, bool) {
	var p *float64
	switch m {
	case Flowrate:
		p = r.Flowrate
	case Pressure:
		p = r.Pressure
	case Temperature:
		p = r.Temperature
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// F returns a pointer to v; handy when building readings by hand.
func F(v float64) *float64 { return &v }

// DatasetStats is the statistics block computed by the dataset service.
type DatasetStats struct {
	TotalCount         int            `json:"total_count"`
	AverageFlowrate    float64        `json:"average_flowrate"`
	AveragePressure    float64        `json:"average_pressure"`
	AverageTemperature float64        `json:"average_temperature"`
	TypeDistribution   map[string]int `json:"type_distribution"`
}

// Average returns the server-side mean for m.
func (s DatasetStats) Average(m Metric) float64 {
	switch m {
	case Flowrate:
		return s.AverageFlowrate
	case Pressure:
		return s.AveragePressure
	case Temperature:
		return s.AverageTemperature
	}
	return 0
}

// Report is the generated report as an uninterpreted byte payload plus the transport
// headers that describe it.
type Report struct {
	Data               []byte
	ContentDisposition string
	ContentType        string
}
