package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/types"
)

const sampleCSV = `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump-1,Pump,120.5,5.2,110
Valve-1,Valve,60,4.1,
Pump-2,Pump,140,n/a,95
`

func TestParseCSV(t *testing.T) {
	recs, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records got %d", len(recs))
	}
	if recs[0].ID != 1 || recs[0].EquipmentName != "Pump-1" || recs[0].EquipmentType != "Pump" {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if v, ok := recs[0].Value(types.Flowrate); !ok || v != 120.5 {
		t.Fatalf("flowrate = %v %v", v, ok)
	}
	if recs[1].Temperature != nil {
		t.Fatalf("empty temperature should be missing")
	}
	if recs[2].Pressure != nil {
		t.Fatalf("non-numeric pressure should be missing")
	}
}

func TestParseCSV_RequiresNameAndType(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("Flowrate,Pressure\n1,2\n")); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestCSVSource_StatsConsistentWithRecords(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "12.csv"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewCSVSource(dir)
	recs, err := src.Records(context.Background(), "12")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	st, err := src.Stats(context.Background(), "12")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalCount != len(recs) || analysis.DistributionTotal(st.TypeDistribution) != st.TotalCount {
		t.Fatalf("inconsistent stats: %+v", st)
	}
	if st.TypeDistribution["Pump"] != 2 {
		t.Fatalf("distribution = %v", st.TypeDistribution)
	}
	recs[0].EquipmentName = "mutated"
	again, _ := src.Records(context.Background(), "12")
	if again[0].EquipmentName != "Pump-1" {
		t.Fatalf("cache shared with caller")
	}
	if _, err := src.Records(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if _, err := src.Records(context.Background(), "../12"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("path traversal should be rejected, got %v", err)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	recs, _ := ParseCSV(strings.NewReader(sampleCSV))
	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ParseCSV(&buf)
	if err != nil || len(back) != len(recs) {
		t.Fatalf("reparse: %v %d", err, len(back))
	}
	if back[1].Temperature != nil || *back[0].Flowrate != 120.5 {
		t.Fatalf("values changed: %+v", back)
	}
}

func TestParseCSV_NonFiniteCellsAreMissing(t *testing.T) {
	body := "Equipment Name,Type,Flowrate,Pressure,Temperature\n" +
		"P1,Pump,NaN,5,+Inf\n" +
		"P2,Pump,10,-inf,20\n"
	recs, err := ParseCSV(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records got %d", len(recs))
	}
	if recs[0].Flowrate != nil || recs[0].Temperature != nil || recs[1].Pressure != nil {
		t.Fatalf("non-finite cells kept as readings: %+v %+v", recs[0], recs[1])
	}
	if got := analysis.Aggregate(recs, types.Flowrate); got["Pump"] != 10 {
		t.Fatalf("aggregate = %v want Pump:10", got)
	}
	st := analysis.Summarize(recs)
	if st.AverageTemperature != 20 || st.AveragePressure != 5 {
		t.Fatalf("summary poisoned by non-finite cells: %+v", st)
	}
}
