package weights

import "slices"

// Component is a benchmark parameter and whether any cost formula uses it.
type Component struct {
	Name   string `json:"name" yaml:"name"`
	IsUsed bool   `json:"is_used" yaml:"is_used"`
}

// ComponentSlope is the marginal cost of one used parameter in one dimension.
type ComponentSlope struct {
	Name  string `json:"name" yaml:"name"`
	Slope uint64 `json:"slope" yaml:"slope"`
	Error uint64 `json:"error" yaml:"error"`
}

// ComponentUsage is the outcome of resolving the four regressions of a benchmark.
type ComponentUsage struct {
	Components []Component
	Weight     []ComponentSlope
	Reads      []ComponentSlope
	Writes     []ComponentSlope
	ProofSize  []ComponentSlope
}

// ResolveComponents filters zero slopes out of the four regressions and marks
// every parameter that survives in at least one of them as used.
// results is indexed by Selector. declared lists the benchmark's parameters;
// those named by no regression are appended after the regressions' own
// parameters. Time slopes and errors are scaled by TimeScale.
func ResolveComponents(results [len(Selectors)]*RegressionResult, declared []string) ComponentUsage {
	var usage ComponentUsage
	var used []string

	for _, sel := range Selectors {
		res := results[sel]
		errs := res.Errors()
		var list []ComponentSlope
		for i, slope := range res.Slopes {
			if slope == 0 {
				continue
			}
			name := res.Names[i]
			if !slices.Contains(used, name) {
				used = append(used, name)
			}
			cs := ComponentSlope{Name: name, Slope: slope, Error: errs[i]}
			if sel == ExtrinsicTime {
				cs.Slope = SaturatingMul(cs.Slope, TimeScale)
				cs.Error = SaturatingMul(cs.Error, TimeScale)
			}
			list = append(list, cs)
		}
		switch sel {
		case ExtrinsicTime:
			usage.Weight = list
		case Reads:
			usage.Reads = list
		case Writes:
			usage.Writes = list
		case ProofSize:
			usage.ProofSize = list
		}
	}

	// Component order: first appearance across the regressions' parameter
	// lists, then any declared parameter none of them named.
	var order []string
	for _, sel := range Selectors {
		for _, name := range results[sel].Names {
			if !slices.Contains(order, name) {
				order = append(order, name)
			}
		}
	}
	for _, name := range declared {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}

	usage.Components = make([]Component, len(order))
	for i, name := range order {
		usage.Components[i] = Component{Name: name, IsUsed: slices.Contains(used, name)}
	}
	return usage
}
