// Package ingest decodes benchmark batch dumps into weights.BenchmarkBatch
// values. Dumps are JSON arrays, optionally compressed with gzip, zstd, s2 or
// lz4 (chosen by file extension). Storage keys are hex strings.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/inference-sim/benchweight/weights"
)

// BatchRecord is the on-disk form of one benchmark batch.
type BatchRecord struct {
	Pallet      string         `json:"pallet"`
	Instance    string         `json:"instance"`
	Benchmark   string         `json:"benchmark"`
	TimeResults []ResultRecord `json:"time_results"`
	DBResults   []ResultRecord `json:"db_results"`
}

// ResultRecord is the on-disk form of one benchmark run.
type ResultRecord struct {
	Components    []weights.ComponentValue `json:"components"`
	ExtrinsicTime uint64                   `json:"extrinsic_time"`
	Reads         uint32                   `json:"reads"`
	Writes        uint32                   `json:"writes"`
	ProofSize     uint32                   `json:"proof_size"`
	Keys          []KeyRecord              `json:"keys,omitempty"`
}

// KeyRecord is the on-disk form of one storage access fact.
type KeyRecord struct {
	Key         HexBytes `json:"key"`
	Reads       uint32   `json:"reads"`
	Writes      uint32   `json:"writes"`
	Whitelisted bool     `json:"whitelisted,omitempty"`
}

// LoadBatches reads a batch dump from path, decompressing by extension.
func LoadBatches(path string) ([]weights.BenchmarkBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, closeFn, err := Decompress(f, DetectCompression(path))
	if err != nil {
		return nil, fmt.Errorf("batch dump %s: %w", path, err)
	}
	defer func() { _ = closeFn() }()

	batches, err := DecodeBatches(r)
	if err != nil {
		return nil, fmt.Errorf("batch dump %s: %w", path, err)
	}
	return batches, nil
}

// DecodeBatches parses a JSON batch array. Unknown fields are rejected.
func DecodeBatches(r io.Reader) ([]weights.BenchmarkBatch, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var records []BatchRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing batches: %w", err)
	}
	batches := make([]weights.BenchmarkBatch, len(records))
	for i := range records {
		batches[i] = records[i].toBatch()
	}
	return batches, nil
}

func (b *BatchRecord) toBatch() weights.BenchmarkBatch {
	return weights.BenchmarkBatch{
		Pallet:      b.Pallet,
		Instance:    b.Instance,
		Benchmark:   b.Benchmark,
		TimeResults: toResults(b.TimeResults),
		DBResults:   toResults(b.DBResults),
	}
}

func toResults(records []ResultRecord) []weights.BenchmarkResult {
	results := make([]weights.BenchmarkResult, len(records))
	for i, rec := range records {
		keys := make([]weights.KeyAccess, len(rec.Keys))
		for k, kr := range rec.Keys {
			keys[k] = weights.KeyAccess{
				Key:         kr.Key,
				Reads:       kr.Reads,
				Writes:      kr.Writes,
				Whitelisted: kr.Whitelisted,
			}
		}
		results[i] = weights.BenchmarkResult{
			Components:    rec.Components,
			ExtrinsicTime: rec.ExtrinsicTime,
			Reads:         rec.Reads,
			Writes:        rec.Writes,
			ProofSize:     rec.ProofSize,
			Keys:          keys,
		}
	}
	return results
}
