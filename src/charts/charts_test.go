package charts

import (
	"math"
	"reflect"
	"testing"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/types"
)

func sample() []types.SensorReading {
	return []types.SensorReading{
		{EquipmentName: "P-1", EquipmentType: "Pump", Flowrate: types.F(120), Pressure: types.F(5.2), Temperature: types.F(110)},
		{EquipmentName: "V-1", EquipmentType: "Valve", Flowrate: types.F(60), Pressure: types.F(4.1), Temperature: types.F(80)},
		{EquipmentName: "P-2", EquipmentType: "Pump", Flowrate: types.F(140), Pressure: types.F(6.0), Temperature: types.F(95)},
	}
}

func TestBar_SortedParallelArrays(t *testing.T) {
	bd := Bar(analysis.AggregationResult{"Valve": 60, "Compressor": 10, "Pump": 130}, types.Flowrate)
	if !reflect.DeepEqual(bd.Labels, []string{"Compressor", "Pump", "Valve"}) {
		t.Fatalf("labels not sorted: %v", bd.Labels)
	}
	if !reflect.DeepEqual(bd.Values, []float64{10, 130, 60}) {
		t.Fatalf("values not aligned with labels: %v", bd.Values)
	}
	if bd.Title != "Average Flowrate by Equipment" {
		t.Fatalf("title = %q", bd.Title)
	}
	empty := Bar(analysis.AggregationResult{}, types.Pressure)
	if len(empty.Labels) != 0 || len(empty.Values) != 0 {
		t.Fatalf("expected empty bar data: %+v", empty)
	}
}

func TestResolveSchema_Superset(t *testing.T) {
	recs := []types.SensorReading{
		{Flowrate: types.F(1)},
		{Temperature: types.F(50)},
	}
	got := ResolveSchema(recs)
	if !reflect.DeepEqual(got, Schema{types.Flowrate, types.Temperature}) {
		t.Fatalf("schema = %v", got)
	}
	if len(ResolveSchema(nil)) != 0 {
		t.Fatalf("empty records should give empty schema")
	}
}

func TestTrend_AxisMappingAndIndex(t *testing.T) {
	recs := sample()
	td := Trend(recs, ResolveSchema(recs))
	if !reflect.DeepEqual(td.Index, []int{1, 2, 3}) {
		t.Fatalf("index = %v", td.Index)
	}
	if len(td.Series) != 3 {
		t.Fatalf("expected 3 series got %d", len(td.Series))
	}
	flow, press, temp := td.Series[0], td.Series[1], td.Series[2]
	if !flow.Filled || flow.Secondary {
		t.Fatalf("flowrate must be a filled primary series: %+v", flow)
	}
	if press.Filled || !press.Secondary {
		t.Fatalf("pressure must be a secondary line: %+v", press)
	}
	if temp.Filled || temp.Secondary {
		t.Fatalf("temperature must be a primary line: %+v", temp)
	}
	if temp.Label != "Temperature (°C)" {
		t.Fatalf("label = %q", temp.Label)
	}
	if !reflect.DeepEqual(flow.Values, []float64{120, 60, 140}) {
		t.Fatalf("flow values = %v", flow.Values)
	}
}

func TestTrend_MissingValuesAreGaps(t *testing.T) {
	recs := []types.SensorReading{
		{Flowrate: types.F(1), Pressure: types.F(2)},
		{Flowrate: types.F(3)},
	}
	td := Trend(recs, ResolveSchema(recs))
	press := td.Series[1]
	if press.Metric != types.Pressure || press.Missing != 1 || !math.IsNaN(press.Values[1]) {
		t.Fatalf("expected one NaN gap in pressure: %+v", press)
	}
}

func TestTrend_Only(t *testing.T) {
	recs := sample()
	td := Trend(recs, ResolveSchema(recs), types.Temperature)
	if len(td.Series) != 1 || td.Series[0].Metric != types.Temperature {
		t.Fatalf("expected temperature only: %+v", td.Series)
	}
	if td.Title != "Temperature Trend" {
		t.Fatalf("title = %q", td.Title)
	}
	none := Trend(recs, Schema{types.Flowrate}, types.Pressure)
	if len(none.Series) != 0 {
		t.Fatalf("metric outside schema must not be plotted")
	}
}

func TestCorrelation_OrderAndSkips(t *testing.T) {
	recs := append(sample(), types.SensorReading{Pressure: types.F(1)})
	cd := Correlation(recs, types.Pressure, types.Temperature)
	want := []Point{{5.2, 110}, {4.1, 80}, {6.0, 95}}
	if !reflect.DeepEqual(cd.Points, want) {
		t.Fatalf("points = %v", cd.Points)
	}
	if cd.Skipped != 1 {
		t.Fatalf("skipped = %d", cd.Skipped)
	}
	if cd.Title != "Pressure vs Temperature" {
		t.Fatalf("title = %q", cd.Title)
	}
}

func TestDistribution(t *testing.T) {
	dd := Distribution(map[string]int{"Valve": 2, "Pump": 3})
	if dd.Total != 5 {
		t.Fatalf("total = %d", dd.Total)
	}
	want := []Slice{{"Pump", 3, 60}, {"Valve", 2, 40}}
	if !reflect.DeepEqual(dd.Slices, want) {
		t.Fatalf("slices = %+v", dd.Slices)
	}
	empty := Distribution(nil)
	if empty.Total != 0 || len(empty.Slices) != 0 {
		t.Fatalf("expected empty distribution: %+v", empty)
	}
}

func TestKPIs(t *testing.T) {
	k := KPIs(types.DatasetStats{TotalCount: 12, AverageFlowrate: 101.25, AveragePressure: 5, AverageTemperature: 99.94})
	if len(k) != 4 {
		t.Fatalf("expected 4 cards got %d", len(k))
	}
	if k[0].Value != "12" || k[1].Value != "101.3" || k[2].Value != "5.0" || k[3].Value != "99.9" {
		t.Fatalf("unexpected card values: %+v", k)
	}
	if k[1].Unit != "L/min" || k[2].Unit != "PSI" || k[3].Unit != "°C" {
		t.Fatalf("unexpected units: %+v", k)
	}
}

func TestTable(t *testing.T) {
	rows := Table([]types.SensorReading{
		{EquipmentName: "P-1", EquipmentType: "Pump", Flowrate: types.F(200), Pressure: types.F(5.25), Temperature: types.F(101)},
		{EquipmentName: "P-2", EquipmentType: "Pump", Flowrate: types.F(800)},
	})
	if rows[0].FlowGaugePct != 50 || !rows[0].HighTemp || rows[0].Pressure != "5.3" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].FlowGaugePct != 100 || rows[1].HighTemp || rows[1].Temperature != "-" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}
