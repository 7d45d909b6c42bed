// Package analysis provides the regression strategies behind
// weights.RegressionOracle: least squares over the inter-quartile samples,
// median of pairwise slopes, and the element-wise maximum of both.
package analysis

import (
	"fmt"
	"slices"

	"github.com/inference-sim/benchweight/weights"
)

// Oracle fits benchmark samples with one strategy.
type Oracle struct {
	Choice weights.AnalysisChoice
}

// Analyze implements weights.RegressionOracle.
func (o *Oracle) Analyze(results []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	switch o.Choice {
	case weights.MinSquares:
		return MinSquaresIQR(results, selector)
	case weights.MedianSlopes:
		return MedianSlopes(results, selector)
	case weights.Max:
		return Max(results, selector)
	default:
		panic(fmt.Sprintf("unhandled analysis choice %q", o.Choice))
	}
}

// NewOracle creates the oracle for choice.
// Returns an error for choices outside the closed set of strategies.
func NewOracle(choice weights.AnalysisChoice) (weights.RegressionOracle, error) {
	switch choice {
	case weights.MinSquares, weights.MedianSlopes, weights.Max:
		return &Oracle{Choice: choice}, nil
	default:
		return nil, fmt.Errorf("unknown analysis choice %q", choice)
	}
}

// MedianValue ignores parameters and reports the median measurement as base.
// Used for benchmarks that declare no parameters.
func MedianValue(r []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	if len(r) == 0 {
		return nil, false
	}
	values := make([]uint64, len(r))
	for i := range r {
		values[i] = selector.Value(&r[i])
	}
	slices.Sort(values)
	return &weights.RegressionResult{
		Base:   values[len(values)/2],
		Slopes: []uint64{},
		Names:  []string{},
	}, true
}

func parameterNames(r *weights.BenchmarkResult) []string {
	names := make([]string, len(r.Components))
	for i, c := range r.Components {
		names[i] = c.Name
	}
	return names
}
