package analysis

import (
	"math"

	"github.com/chemviz/chemviz/src/types"
)

// CategoryKey selects which record field readings are grouped by.
type CategoryKey string

const (
	CategoryEquipmentType CategoryKey = "equipment_type"
	CategoryEquipmentName CategoryKey = "equipment_name"
)

// AggregationResult maps a category to the 1-decimal average of one metric over that
// category's readings. Every call builds a fresh map; callers may keep or modify it freely.
type AggregationResult map[string]float64

func categoryOf(r types.SensorReading, key CategoryKey) string {
	if key == CategoryEquipmentName {
		return r.EquipmentName
	}
	return r.EquipmentType
}

// GroupAverage computes per-category averages of metric in a single pass. Only categories
// with at least one reading carrying metric appear in the result; records lacking the
// metric do not count towards the denominator.
func GroupAverage(records []types.SensorReading, key CategoryKey, metric types.Metric) AggregationResult {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		c := categoryOf(r, key)
		sums[c] += v
		counts[c]++
	}
	out := make(AggregationResult, len(sums))
	for c, sum := range sums {
		out[c] = Round1(sum / float64(counts[c]))
	}
	return out
}

// Aggregate averages metric per equipment type.
func Aggregate(records []types.SensorReading, metric types.Metric) AggregationResult {
	return GroupAverage(records, CategoryEquipmentType, metric)
}

// Round1 rounds to one decimal, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Proportion returns round(100*count/total) and 0 for an empty total.
func Proportion(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

// HighTempThreshold is the temperature above which a reading is flagged in the logs table.
const HighTempThreshold = 100.0

// HighTemperature reports whether the reading exceeds HighTempThreshold.
func HighTemperature(r types.SensorReading) bool {
	v, ok := r.Value(types.Temperature)
	return ok && v > HighTempThreshold
}
