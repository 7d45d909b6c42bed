// Package weights turns repeated benchmark samples into linear weight records.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - batch.go: raw benchmark batches, per-run results and key access facts
//   - group.go: MapResults, the entry point that groups batches by pallet/instance
//   - components.go: which parameters carry a non-zero slope in any dimension
//   - storage.go: key/prefix deduplication and the worst-case proof size bound
//   - record.go: the WeightRecord handed to output collaborators
//
// # Architecture
//
// The weights package defines the RegressionOracle interface but does not fit
// any model itself. Implementations live in sub-packages:
//   - weights/analysis/: min-squares, median-slopes and max strategies
//   - weights/ingest/: decoding of (optionally compressed) batch dumps
//   - weights/trace/: decision trace of the storage accountant
//
// weights/analysis registers its constructor via init() by setting the
// package-level factory variable NewOracleFunc.
//
// Everything here is a synchronous, in-memory transformation. Groups of
// benchmarks may be analyzed concurrently (see Analyzer.Workers) and the
// output order is always the first-seen order of the input.
package weights
