package analysis

import "github.com/chemviz/chemviz/src/types"

// Summarize derives the statistics block from raw records on the client. Means are plain
// (unrounded) averages over the records carrying each metric, matching what the dataset
// service returns; TotalCount always equals the sum of TypeDistribution.
func Summarize(records []types.SensorReading) types.DatasetStats {
	st := types.DatasetStats{
		TotalCount:       len(records),
		TypeDistribution: make(map[string]int),
	}
	var sums [3]float64
	var counts [3]int
	for _, r := range records {
		st.TypeDistribution[r.EquipmentType]++
		for i, m := range types.AllMetrics {
			if v, ok := r.Value(m); ok {
				sums[i] += v
				counts[i]++
			}
		}
	}
	avg := func(i int) float64 {
		if counts[i] == 0 {
			return 0
		}
		return sums[i] / float64(counts[i])
	}
	st.AverageFlowrate = avg(0)
	st.AveragePressure = avg(1)
	st.AverageTemperature = avg(2)
	return st
}

// DistributionTotal sums the category counts of a type distribution.
func DistributionTotal(dist map[string]int) int {
	total := 0
	for _, v := range dist {
		total += v
	}
	return total
}
