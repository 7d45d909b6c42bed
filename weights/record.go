package weights

// ComponentRange is externally supplied range metadata of one parameter.
type ComponentRange struct {
	Name string `json:"name" yaml:"name"`
	Min  uint32 `json:"min" yaml:"min"`
	Max  uint32 `json:"max" yaml:"max"`
}

// RangeKey identifies the component ranges of a (pallet, benchmark) pair.
type RangeKey struct {
	Pallet    string
	Benchmark string
}

// WeightRecord is the final linear cost model of one benchmark.
// Time values are in picoseconds; reads, writes and proof sizes are unscaled.
type WeightRecord struct {
	Name               string           `json:"name" yaml:"name"`
	Components         []Component      `json:"components" yaml:"components"`
	BaseWeight         uint64           `json:"base_weight" yaml:"base_weight"`
	BaseReads          uint64           `json:"base_reads" yaml:"base_reads"`
	BaseWrites         uint64           `json:"base_writes" yaml:"base_writes"`
	BaseProofSize      uint64           `json:"base_proof_size" yaml:"base_proof_size"`
	ComponentWeight    []ComponentSlope `json:"component_weight" yaml:"component_weight"`
	ComponentReads     []ComponentSlope `json:"component_reads" yaml:"component_reads"`
	ComponentWrites    []ComponentSlope `json:"component_writes" yaml:"component_writes"`
	ComponentProofSize []ComponentSlope `json:"component_proof_size" yaml:"component_proof_size"`
	WorstCaseProofSize uint64           `json:"worst_case_proof_size" yaml:"worst_case_proof_size"`
	ComponentRanges    []ComponentRange `json:"component_ranges,omitempty" yaml:"component_ranges,omitempty"`
	Comments           []string         `json:"comments" yaml:"comments"`
}

// BuildWeightRecord assembles a WeightRecord from the four regressions (indexed
// by Selector), the resolved component usage and the storage accounting.
func BuildWeightRecord(
	name string,
	results [len(Selectors)]*RegressionResult,
	usage ComponentUsage,
	worstCaseProofSize uint64,
	comments []string,
	ranges []ComponentRange,
) WeightRecord {
	return WeightRecord{
		Name:               name,
		Components:         usage.Components,
		BaseWeight:         SaturatingMul(results[ExtrinsicTime].Base, TimeScale),
		BaseReads:          results[Reads].Base,
		BaseWrites:         results[Writes].Base,
		BaseProofSize:      results[ProofSize].Base,
		ComponentWeight:    usage.Weight,
		ComponentReads:     usage.Reads,
		ComponentWrites:    usage.Writes,
		ComponentProofSize: usage.ProofSize,
		WorstCaseProofSize: worstCaseProofSize,
		ComponentRanges:    ranges,
		Comments:           comments,
	}
}
