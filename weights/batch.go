package weights

import (
	"fmt"
)

// ComponentValue is one parameter assignment of a single benchmark run.
type ComponentValue struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

// KeyAccess records how often one storage key was touched during a run.
// Whitelisted keys are excluded from proof-size accounting.
type KeyAccess struct {
	Key         []byte
	Reads       uint32
	Writes      uint32
	Whitelisted bool
}

// BenchmarkResult is the measurement of one benchmark run.
type BenchmarkResult struct {
	Components    []ComponentValue
	ExtrinsicTime uint64 // nanoseconds
	Reads         uint32
	Writes        uint32
	ProofSize     uint32 // bytes
	Keys          []KeyAccess
}

// ComponentValues returns the parameter values of the run in declared order.
func (r *BenchmarkResult) ComponentValues() []uint32 {
	values := make([]uint32, len(r.Components))
	for i, c := range r.Components {
		values[i] = c.Value
	}
	return values
}

// BenchmarkBatch holds every sample collected for one benchmark.
// TimeResults and DBResults share the same per-run parameter assignments;
// the former feed the time regression, the latter storage and proof size.
type BenchmarkBatch struct {
	Pallet      string
	Instance    string
	Benchmark   string
	TimeResults []BenchmarkResult
	DBResults   []BenchmarkResult
}

// IsEmpty reports whether the batch produced no timing measurements.
func (b *BenchmarkBatch) IsEmpty() bool {
	return len(b.TimeResults) == 0
}

// ParameterNames returns the declared parameter names of the benchmark,
// taken from the first timing sample. Empty batches have no parameters.
func (b *BenchmarkBatch) ParameterNames() []string {
	if b.IsEmpty() {
		return nil
	}
	names := make([]string, len(b.TimeResults[0].Components))
	for i, c := range b.TimeResults[0].Components {
		names[i] = c.Name
	}
	return names
}

// Validate checks that every run of the batch declares the same parameters in
// the same order, across both the time and the storage samples.
func (b *BenchmarkBatch) Validate() error {
	names := b.ParameterNames()
	check := func(set string, results []BenchmarkResult) error {
		for i := range results {
			got := results[i].Components
			if len(got) != len(names) {
				return fmt.Errorf("%s/%s: %s[%d] has %d parameters, want %d",
					b.Pallet, b.Benchmark, set, i, len(got), len(names))
			}
			for j, c := range got {
				if c.Name != names[j] {
					return fmt.Errorf("%s/%s: %s[%d] parameter %d is %q, want %q",
						b.Pallet, b.Benchmark, set, i, j, c.Name, names[j])
				}
			}
		}
		return nil
	}
	if err := check("time_results", b.TimeResults); err != nil {
		return err
	}
	return check("db_results", b.DBResults)
}
