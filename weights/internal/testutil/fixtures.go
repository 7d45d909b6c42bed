// Package testutil provides shared test fixtures for the weights packages.
// It builds synthetic benchmark batches with known linear costs and a fixed
// oracle for tests that must not depend on a regression strategy.
package testutil

import (
	"math"
	"testing"

	"github.com/inference-sim/benchweight/weights"
)

// LinearBatch builds a batch of five runs where param takes the values 0..4
// and a second parameter "z" stays at 0. Time, reads and writes measure
// base + slope*i; proof size measures (i+1)*1024.
func LinearBatch(pallet, benchmark, param string, base, slope uint32) weights.BenchmarkBatch {
	results := make([]weights.BenchmarkResult, 0, 5)
	for i := uint32(0); i < 5; i++ {
		v := base + slope*i
		results = append(results, weights.BenchmarkResult{
			Components: []weights.ComponentValue{
				{Name: param, Value: i},
				{Name: "z", Value: 0},
			},
			ExtrinsicTime: uint64(v),
			Reads:         v,
			Writes:        v,
			ProofSize:     (i + 1) * 1024,
		})
	}
	return weights.BenchmarkBatch{
		Pallet:      pallet,
		Instance:    "instance",
		Benchmark:   benchmark,
		TimeResults: results,
		DBResults:   cloneResults(results),
	}
}

// WithKeys returns a copy of results where run i touches keys[i].
// Runs beyond len(keys) touch nothing.
func WithKeys(results []weights.BenchmarkResult, keys ...[]weights.KeyAccess) []weights.BenchmarkResult {
	out := cloneResults(results)
	for i := range out {
		out[i].Keys = nil
		if i < len(keys) {
			out[i].Keys = keys[i]
		}
	}
	return out
}

func cloneResults(results []weights.BenchmarkResult) []weights.BenchmarkResult {
	out := make([]weights.BenchmarkResult, len(results))
	copy(out, results)
	return out
}

// Uint32Ptr returns a pointer to v.
func Uint32Ptr(v uint32) *uint32 { return &v }

// FixedOracle returns preset regression results per selector, whatever the samples.
// A selector without a preset result reports ok=false. Not safe for concurrent use.
type FixedOracle struct {
	Results map[weights.Selector]*weights.RegressionResult
	Calls   []weights.Selector
}

// Analyze implements weights.RegressionOracle.
func (o *FixedOracle) Analyze(_ []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	o.Calls = append(o.Calls, selector)
	res, ok := o.Results[selector]
	return res, ok
}

// UniformOracle returns a FixedOracle that reports the same result for all four selectors.
func UniformOracle(res *weights.RegressionResult) *FixedOracle {
	o := &FixedOracle{Results: make(map[weights.Selector]*weights.RegressionResult)}
	for _, sel := range weights.Selectors {
		o.Results[sel] = res
	}
	return o
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
