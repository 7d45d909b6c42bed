// register.go wires the analysis constructor into the weights package's
// registration variable (NewOracleFunc). This init() runs when any package
// imports weights/analysis, breaking the import cycle between weights/
// (interface owner) and weights/analysis/ (implementation).
package analysis

import "github.com/inference-sim/benchweight/weights"

func init() {
	weights.NewOracleFunc = NewOracle
}
