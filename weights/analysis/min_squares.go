package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/benchweight/weights"
)

// rankTolerance is the relative singular value cutoff below which a design
// matrix direction is treated as absent (e.g. a parameter that never varies).
const rankTolerance = 1e-9

// sampleGroup collects the measurements taken at one parameter assignment.
type sampleGroup struct {
	params []uint32
	values []uint64
}

// groupByParams buckets the selected measurement of every run by its
// parameter values. Groups are returned in ascending lexicographic order.
func groupByParams(r []weights.BenchmarkResult, selector weights.Selector) []*sampleGroup {
	byKey := make(map[string]*sampleGroup)
	var groups []*sampleGroup
	for i := range r {
		params := r[i].ComponentValues()
		key := paramsKey(params)
		g, ok := byKey[key]
		if !ok {
			g = &sampleGroup{params: params}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.values = append(g.values, selector.Value(&r[i]))
	}
	slices.SortFunc(groups, func(a, b *sampleGroup) int {
		return slices.Compare(a.params, b.params)
	})
	return groups
}

func paramsKey(params []uint32) string {
	key := make([]byte, 0, 4*len(params))
	for _, p := range params {
		key = append(key, byte(p>>24), byte(p>>16), byte(p>>8), byte(p))
	}
	return string(key)
}

// trimQuartiles sorts values and drops the lowest and highest quarter.
func trimQuartiles(values []uint64) []uint64 {
	slices.Sort(values)
	ql := len(values) / 4
	return values[ql : len(values)-ql]
}

func valueDist(params []uint32, values []uint64) weights.ValueDist {
	if len(values) == 0 {
		return weights.ValueDist{Params: params}
	}
	var total uint64
	for _, v := range values {
		total += v
	}
	mean := total / uint64(len(values))
	var sumSqDiff float64
	for _, v := range values {
		d := float64(max(mean, v) - min(mean, v))
		sumSqDiff += d * d
	}
	return weights.ValueDist{
		Params: params,
		Mean:   mean,
		Stddev: weights.FloatToUint(math.Sqrt(sumSqDiff / float64(len(values)))),
	}
}

// MinSquaresIQR fits an ordinary least squares model with intercept over the
// inter-quartile samples of every parameter assignment. Coefficients are
// rounded to the nearest integer; negative coefficients clamp to zero.
// Parameters whose column is rank deficient receive the minimum-norm
// solution, which is zero for a parameter that never varies.
func MinSquaresIQR(r []weights.BenchmarkResult, selector weights.Selector) (*weights.RegressionResult, bool) {
	if len(r) == 0 {
		return nil, false
	}
	if len(r[0].Components) == 0 {
		return MedianValue(r, selector)
	}

	names := parameterNames(&r[0])
	groups := groupByParams(r, selector)

	dists := make([]weights.ValueDist, len(groups))
	var ys []float64
	var rows [][]uint32
	for i, g := range groups {
		g.values = trimQuartiles(g.values)
		dists[i] = valueDist(g.params, g.values)
		for _, v := range g.values {
			ys = append(ys, float64(v))
			rows = append(rows, g.params)
		}
	}

	n, p := len(ys), len(names)
	if n == 0 {
		return nil, false
	}
	x := mat.NewDense(n, p+1, nil)
	for i, params := range rows {
		x.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			x.Set(i, j+1, float64(params[j]))
		}
	}
	y := mat.NewVecDense(n, ys)

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, false
	}
	rank := svd.Rank(rankTolerance)
	var beta mat.VecDense
	svd.SolveVecTo(&beta, y, rank)

	slopes := make([]uint64, p)
	for j := 0; j < p; j++ {
		slopes[j] = weights.FloatToUint(beta.AtVec(j+1) + 0.5)
	}

	return &weights.RegressionResult{
		Base:       weights.FloatToUint(beta.AtVec(0) + 0.5),
		Slopes:     slopes,
		Names:      names,
		ValueDists: dists,
		Model:      &weights.RegressionModel{StdErrors: standardErrors(x, y, &beta, &svd, rank)},
	}, true
}

// standardErrors returns the standard error of every slope coefficient
// (the intercept excluded), computed from the residual variance and the
// pseudo-inverse of XᵀX. Without residual degrees of freedom all errors are 0.
func standardErrors(x *mat.Dense, y *mat.VecDense, beta *mat.VecDense, svd *mat.SVD, rank int) []float64 {
	n, cols := x.Dims()
	errs := make([]float64, cols-1)
	dof := n - rank
	if dof <= 0 {
		return errs
	}

	var fitted mat.VecDense
	fitted.MulVec(x, beta)
	residuals := make([]float64, n)
	floats.SubTo(residuals, y.RawVector().Data, fitted.RawVector().Data)
	sigma2 := floats.Dot(residuals, residuals) / float64(dof)

	var v mat.Dense
	svd.VTo(&v)
	sv := svd.Values(nil)
	for j := 1; j < cols; j++ {
		var variance float64
		for k := 0; k < rank; k++ {
			vjk := v.At(j, k)
			variance += vjk * vjk / (sv[k] * sv[k])
		}
		errs[j-1] = math.Sqrt(sigma2 * variance)
	}
	return errs
}
