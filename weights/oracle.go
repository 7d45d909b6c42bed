package weights

import "fmt"

// RegressionModel carries the error model of a fitted regression.
// StdErrors holds one standard error per parameter, in parameter order.
type RegressionModel struct {
	StdErrors []float64
}

// ValueDist summarizes the samples measured at one parameter assignment.
type ValueDist struct {
	Params []uint32
	Mean   uint64
	Stddev uint64
}

// RegressionResult is the outcome of fitting one selector of one benchmark.
// Slopes and Names are parallel and follow the benchmark's parameter order.
type RegressionResult struct {
	Base       uint64
	Slopes     []uint64
	Names      []string
	ValueDists []ValueDist // nil unless the strategy computes them
	Model      *RegressionModel
}

// Errors returns the per-parameter error of the result, truncated to whole
// units. Without a model every parameter reports zero error.
func (r *RegressionResult) Errors() []uint64 {
	errs := make([]uint64, len(r.Slopes))
	if r.Model == nil {
		return errs
	}
	for i := range errs {
		if i < len(r.Model.StdErrors) {
			errs[i] = FloatToUint(r.Model.StdErrors[i])
		}
	}
	return errs
}

// RegressionOracle fits a linear model over a sample set for one selector.
// ok is false when the samples cannot be analyzed (for example none given).
type RegressionOracle interface {
	Analyze(results []BenchmarkResult, selector Selector) (result *RegressionResult, ok bool)
}

// AnalysisChoice names one of the interchangeable regression strategies.
type AnalysisChoice string

const (
	MinSquares   AnalysisChoice = "min-squares"
	MedianSlopes AnalysisChoice = "median-slopes"
	Max          AnalysisChoice = "max"
)

// analysisAliases maps accepted spellings to their canonical choice.
// The empty string selects the default strategy.
var analysisAliases = map[string]AnalysisChoice{
	"":              MinSquares,
	"min-squares":   MinSquares,
	"min_squares":   MinSquares,
	"median-slopes": MedianSlopes,
	"median_slopes": MedianSlopes,
	"max":           Max,
}

// ParseAnalysisChoice resolves a user-supplied strategy name.
func ParseAnalysisChoice(name string) (AnalysisChoice, error) {
	choice, ok := analysisAliases[name]
	if !ok {
		return "", fmt.Errorf("invalid analysis choice %q; valid: min-squares, median-slopes, max", name)
	}
	return choice, nil
}

// IsValidAnalysisChoice returns true if name is an accepted strategy spelling.
func IsValidAnalysisChoice(name string) bool {
	_, ok := analysisAliases[name]
	return ok
}

// NewOracleFunc creates the RegressionOracle for a strategy.
// Set by weights/analysis's init(); production code imports that package.
var NewOracleFunc func(choice AnalysisChoice) (RegressionOracle, error)

// NewOracle creates the oracle registered for choice.
func NewOracle(choice AnalysisChoice) (RegressionOracle, error) {
	if NewOracleFunc == nil {
		panic("NewOracleFunc not registered: import weights/analysis to register it")
	}
	return NewOracleFunc(choice)
}
