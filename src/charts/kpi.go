package charts

import (
	"strconv"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/types"
)

// KPI is one headline card.
type KPI struct {
	Title string
	Value string
	Unit  string
}

// KPIs returns the total row count followed by the three averages at one decimal.
func KPIs(stats types.DatasetStats) []KPI {
	out := []KPI{{Title: "Total Rows", Value: strconv.Itoa(stats.TotalCount)}}
	for _, m := range types.AllMetrics {
		out = append(out, KPI{
			Title: "Avg " + m.Label(),
			Value: format1(stats.Average(m)),
			Unit:  m.Unit(),
		})
	}
	return out
}

// Row is one formatted line of the records table.
type Row struct {
	Name         string
	Type         string
	Flowrate     string
	Pressure     string
	Temperature  string
	HighTemp     bool
	FlowGaugePct float64
}

// FlowGaugeMax is the flowrate at which the table gauge is full.
const FlowGaugeMax = 400.0

// Table formats records for the logs table. Missing metrics render as "-".
func Table(records []types.SensorReading) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		row := Row{
			Name:        r.EquipmentName,
			Type:        r.EquipmentType,
			Flowrate:    cell(r, types.Flowrate),
			Pressure:    cell(r, types.Pressure),
			Temperature: cell(r, types.Temperature),
			HighTemp:    analysis.HighTemperature(r),
		}
		if v, ok := r.Value(types.Flowrate); ok && v > 0 {
			row.FlowGaugePct = v / FlowGaugeMax * 100
			if row.FlowGaugePct > 100 {
				row.FlowGaugePct = 100
			}
		}
		rows[i] = row
	}
	return rows
}

func cell(r types.SensorReading, m types.Metric) string {
	v, ok := r.Value(m)
	if !ok {
		return "-"
	}
	return format1(v)
}

func format1(v float64) string {
	return strconv.FormatFloat(analysis.Round1(v), 'f', 1, 64)
}
