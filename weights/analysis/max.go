package analysis

import (
	"fmt"

	"github.com/inference-sim/benchweight/weights"
)

// Max combines MedianSlopes and MinSquaresIQR by taking the larger base and
// the larger slope of every parameter. The error model and value
// distributions come from the least squares fit.
func Max(r []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	medianSlopes, ok := MedianSlopes(r, selector)
	if !ok {
		return nil, false
	}
	minSquares, ok := MinSquaresIQR(r, selector)
	if !ok {
		return nil, false
	}

	if len(medianSlopes.Names) != len(minSquares.Names) {
		panic(fmt.Sprintf("benchmark results not in the same order: %v vs %v", medianSlopes.Names, minSquares.Names))
	}
	for i := range medianSlopes.Names {
		if medianSlopes.Names[i] != minSquares.Names[i] {
			panic(fmt.Sprintf("benchmark results not in the same order: %v vs %v", medianSlopes.Names, minSquares.Names))
		}
	}

	slopes := make([]uint64, len(medianSlopes.Slopes))
	for i := range slopes {
		slopes[i] = max(medianSlopes.Slopes[i], minSquares.Slopes[i])
	}

	return &weights.RegressionResult{
		Base:       max(medianSlopes.Base, minSquares.Base),
		Slopes:     slopes,
		Names:      medianSlopes.Names,
		ValueDists: minSquares.ValueDists,
		Model:      minSquares.Model,
	}, true
}
