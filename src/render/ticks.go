package render

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/chemviz/chemviz/src/types"
)

// resolution is the finest tick step worth labelling for readings of ms. Unknown metrics
// impose no limit, and a shared axis takes the finest of its metrics.
func resolution(ms ...types.Metric) float64 {
	r := math.Inf(1)
	for _, m := range ms {
		switch m {
		case types.Flowrate:
			r = math.Min(r, 1)
		case types.Temperature:
			r = math.Min(r, 0.5)
		case types.Pressure:
			r = math.Min(r, 0.1)
		default:
			r = 0
		}
	}
	if math.IsInf(r, 1) {
		return 0
	}
	return r
}

// tickScale is a linear axis cut into count+1 evenly spaced ticks starting at lo.
type tickScale struct {
	lo, hi, step float64
	count        int
}

var stepMultipliers = []float64{1, 2, 2.5, 5, 10}

// newScale fits about n ticks over [lo,hi] with a 5% margin, never stepping finer than
// minStep. Data that is all non-negative keeps the axis from dipping below zero.
func newScale(lo, hi float64, n int, minStep float64) (tickScale, bool) {
	if n < 2 || math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return tickScale{}, false
	}
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		lo, hi = lo-pad, hi+pad
	}
	margin := (hi - lo) * 0.05
	if lo >= 0 {
		lo = math.Max(0, lo-margin)
	} else {
		lo -= margin
	}
	hi += margin

	raw := (hi - lo) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, c := range stepMultipliers {
		if c*mag >= raw {
			step = c * mag
			break
		}
	}
	if step < minStep {
		step = minStep
	}
	s := tickScale{step: step}
	s.lo = math.Floor(lo/step) * step
	s.hi = math.Ceil(hi/step) * step
	s.count = int(math.Round((s.hi - s.lo) / step))
	return s, true
}

// values lists the tick positions, cleaned of accumulated float error.
func (s tickScale) values() []float64 {
	p := math.Pow(10, float64(decimals(s.step)))
	out := make([]float64, 0, s.count+1)
	for i := 0; i <= s.count; i++ {
		v := s.lo + float64(i)*s.step
		out = append(out, math.Round(v*p)/p)
	}
	return out
}

// label prints v with exactly the precision the step needs, so every tick on an axis
// reads alike. Axes stepping in whole thousands switch to a k suffix.
func (s tickScale) label(v float64) string {
	if v == 0 {
		return "0"
	}
	if s.step >= 1000 && math.Mod(s.step, 1000) == 0 {
		return strconv.FormatFloat(v/1000, 'f', decimals(s.step/1000), 64) + "k"
	}
	return strconv.FormatFloat(v, 'f', decimals(s.step), 64)
}

// decimals reports how many fractional digits step carries, up to six.
func decimals(step float64) int {
	d := 0
	for p := 1.0; d < 6; d, p = d+1, p*10 {
		if x := step * p; math.Abs(x-math.Round(x)) < 1e-9 {
			break
		}
	}
	return d
}

// axis returns a range and labelled ticks covering the finite values in vs, stepping no
// finer than res. ok is false when vs has no finite value.
func axis(n int, res float64, vs ...[]float64) (*chart.ContinuousRange, []chart.Tick, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range vs {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	s, ok := newScale(lo, hi, n, res)
	if !ok {
		return nil, nil, false
	}
	vals := s.values()
	ticks := make([]chart.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = chart.Tick{Value: v, Label: s.label(v)}
	}
	return &chart.ContinuousRange{Min: vals[0], Max: vals[len(vals)-1]}, ticks, true
}
