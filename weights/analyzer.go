package weights

import (
	"fmt"
	"sync"

	"github.com/inference-sim/benchweight/weights/trace"
)

// PalletResults holds the weight records of one pallet instance.
type PalletResults struct {
	Pallet     string         `json:"pallet" yaml:"pallet"`
	Instance   string         `json:"instance" yaml:"instance"`
	Benchmarks []WeightRecord `json:"benchmarks" yaml:"benchmarks"`

	// Traces holds one accounting trace per benchmark when tracing is enabled.
	Traces []*trace.AccountingTrace `json:"-" yaml:"-"`
}

// Analyzer turns benchmark batches into weight records.
type Analyzer struct {
	Oracle     RegressionOracle
	Catalogue  *StorageCatalogue             // nil means sentinels only
	Ranges     map[RangeKey][]ComponentRange // may be nil
	Workers    int                           // pallet instances analyzed concurrently; <= 1 is sequential
	TraceLevel trace.TraceLevel
}

// Run groups batches by pallet instance and analyzes every benchmark.
// The output order is the first-seen order of the pallet instances regardless
// of Workers. A panic in any group is raised on the caller's goroutine.
func (a *Analyzer) Run(batches []BenchmarkBatch) ([]PalletResults, error) {
	groups, err := GroupBatches(batches)
	if err != nil {
		return nil, err
	}

	out := make([]PalletResults, len(groups))
	if a.Workers <= 1 {
		for i := range groups {
			out[i] = a.analyzeGroup(&groups[i])
		}
		return out, nil
	}

	sem := make(chan struct{}, a.Workers)
	var wg sync.WaitGroup
	var panicOnce sync.Once
	var workerPanic any
	for i := range groups {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { workerPanic = r })
				}
			}()
			out[i] = a.analyzeGroup(&groups[i])
		}()
	}
	wg.Wait()
	// Re-raise on the caller's goroutine so both modes fail the same way.
	if workerPanic != nil {
		panic(workerPanic)
	}
	return out, nil
}

func (a *Analyzer) analyzeGroup(g *BatchGroup) PalletResults {
	pr := PalletResults{
		Pallet:     g.Pallet,
		Instance:   g.Instance,
		Benchmarks: make([]WeightRecord, 0, len(g.Batches)),
	}
	for _, b := range g.Batches {
		record, tr := a.AnalyzeBenchmark(b)
		pr.Benchmarks = append(pr.Benchmarks, record)
		if tr != nil {
			pr.Traces = append(pr.Traces, tr)
		}
	}
	return pr
}

// AnalyzeBenchmark builds the weight record of a single non-empty batch.
// The returned trace is nil unless TraceLevel enables tracing.
// Panics if the oracle yields no result for a selector, which violates its
// contract for non-empty samples.
func (a *Analyzer) AnalyzeBenchmark(b *BenchmarkBatch) (WeightRecord, *trace.AccountingTrace) {
	var results [len(Selectors)]*RegressionResult
	for _, sel := range Selectors {
		samples := b.DBResults
		if sel == ExtrinsicTime {
			samples = b.TimeResults
		}
		res, ok := a.Oracle.Analyze(samples, sel)
		if !ok || res == nil {
			panic(fmt.Sprintf("analysis of %s/%s returned no %s result", b.Pallet, b.Benchmark, sel))
		}
		results[sel] = res
	}

	usage := ResolveComponents(results, b.ParameterNames())

	tr := trace.NewAccountingTrace(a.TraceLevel, b.Benchmark)
	worstCase, comments := ProcessStorageResults(b.DBResults, a.Catalogue, tr)

	var ranges []ComponentRange
	if a.Ranges != nil {
		ranges = a.Ranges[RangeKey{Pallet: b.Pallet, Benchmark: b.Benchmark}]
	}

	return BuildWeightRecord(b.Benchmark, results, usage, worstCase, comments, ranges), tr
}
