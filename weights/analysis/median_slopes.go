package analysis

import (
	"math"
	"slices"

	"github.com/inference-sim/benchweight/weights"
)

type point struct {
	x uint32
	y uint64
}

// paramFit is the single-parameter fit of parameter i while every other
// parameter is held at its most common setting.
type paramFit struct {
	others []uint32
	points []point
	offset float64
	slope  float64
}

// mostCommonOthers returns the most frequent assignment of all parameters
// but i (whose value is zeroed). Ties resolve to the greatest assignment.
func mostCommonOthers(r []weights.BenchmarkResult, i int) []uint32 {
	counts := make(map[string]int)
	var settings [][]uint32
	for k := range r {
		p := r[k].ComponentValues()
		p[i] = 0
		key := paramsKey(p)
		if counts[key] == 0 {
			settings = append(settings, p)
		}
		counts[key]++
	}
	slices.SortFunc(settings, func(a, b []uint32) int {
		return slices.Compare(a, b)
	})
	best := settings[0]
	for _, s := range settings[1:] {
		if counts[paramsKey(s)] >= counts[paramsKey(best)] {
			best = s
		}
	}
	return best
}

// medianOf sorts values and returns the upper median, or 0 when empty.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	slices.Sort(values)
	return values[len(values)/2]
}

func fitParam(r []weights.BenchmarkResult, selector weights.Selector, i int) paramFit {
	fit := paramFit{others: mostCommonOthers(r, i)}
	for k := range r {
		matches := true
		for j, c := range r[k].Components {
			if j != i && c.Value != fit.others[j] {
				matches = false
				break
			}
		}
		if matches {
			fit.points = append(fit.points, point{x: r[k].Components[i].Value, y: selector.Value(&r[k])})
		}
	}

	var slopes []float64
	for a, p1 := range fit.points {
		for _, p2 := range fit.points[a+1:] {
			if p1.x != p2.x {
				slopes = append(slopes, (float64(p1.y)-float64(p2.y))/(float64(p1.x)-float64(p2.x)))
			}
		}
	}
	fit.slope = medianOf(slopes)

	offsets := make([]float64, len(fit.points))
	for k, p := range fit.points {
		offsets[k] = float64(p.y) - fit.slope*float64(p.x)
	}
	fit.offset = medianOf(offsets)
	return fit
}

// MedianSlopes fits each parameter separately as the median of pairwise
// slopes between runs that differ only in that parameter. The base removes
// the other parameters' contribution at their most common setting.
// Negative values clamp to zero and fractions truncate.
func MedianSlopes(r []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	if len(r) == 0 {
		return nil, false
	}
	if len(r[0].Components) == 0 {
		return MedianValue(r, selector)
	}

	names := parameterNames(&r[0])
	fits := make([]paramFit, len(names))
	for i := range names {
		fits[i] = fitParam(r, selector, i)
	}

	slopes := make([]uint64, len(fits))
	bases := make([]float64, len(fits))
	for i, fit := range fits {
		var over float64
		for j, v := range fit.others {
			if j != i {
				over += fits[j].slope * float64(v)
			}
		}
		bases[i] = fit.offset - over
		slopes[i] = weights.FloatToUint(math.Max(fit.slope, 0))
	}

	return &weights.RegressionResult{
		Base:   weights.FloatToUint(math.Max(bases[0], 0)),
		Slopes: slopes,
		Names:  names,
	}, true
}
