package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/benchweight/weights"
	"github.com/inference-sim/benchweight/weights/ingest"
)

// BenchConfig is the structure of the --config YAML file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type BenchConfig struct {
	Analysis        string         `yaml:"analysis"`
	Workers         int            `yaml:"workers"`
	Storage         []StorageEntry `yaml:"storage"`
	ComponentRanges []RangeEntry   `yaml:"component_ranges"`
}

// StorageEntry declares one storage item of the runtime's metadata.
// Omitted bounds mean the item is unbounded in that dimension.
type StorageEntry struct {
	Pallet    string          `yaml:"pallet"`
	Storage   string          `yaml:"storage"`
	Prefix    ingest.HexBytes `yaml:"prefix"`
	MaxValues *uint32         `yaml:"max_values"`
	MaxSize   *uint32         `yaml:"max_size"`
}

// RangeEntry carries the component ranges of one benchmark.
type RangeEntry struct {
	Pallet     string                   `yaml:"pallet"`
	Benchmark  string                   `yaml:"benchmark"`
	Components []weights.ComponentRange `yaml:"components"`
}

// loadBenchConfig parses the YAML config at path with strict field checking.
// An empty file yields the zero config.
func loadBenchConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg BenchConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values that YAML typing cannot express.
func (c *BenchConfig) Validate() error {
	if !weights.IsValidAnalysisChoice(c.Analysis) {
		return fmt.Errorf("unknown analysis %q", c.Analysis)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	for i, s := range c.Storage {
		if len(s.Prefix) == 0 {
			return fmt.Errorf("storage[%d] (%s %s): empty prefix", i, s.Pallet, s.Storage)
		}
		if len(s.Prefix) > weights.PrefixLen {
			return fmt.Errorf("storage[%d] (%s %s): prefix is %d bytes, at most %d are matched",
				i, s.Pallet, s.Storage, len(s.Prefix), weights.PrefixLen)
		}
	}
	seen := make(map[weights.RangeKey]bool, len(c.ComponentRanges))
	for i, r := range c.ComponentRanges {
		key := weights.RangeKey{Pallet: r.Pallet, Benchmark: r.Benchmark}
		if seen[key] {
			return fmt.Errorf("component_ranges[%d]: duplicate entry for %s/%s", i, r.Pallet, r.Benchmark)
		}
		seen[key] = true
		for _, cr := range r.Components {
			if cr.Min > cr.Max {
				return fmt.Errorf("component_ranges[%d]: %s/%s component %s has min %d > max %d",
					i, r.Pallet, r.Benchmark, cr.Name, cr.Min, cr.Max)
			}
		}
	}
	return nil
}

// StorageInfos converts the storage section into catalogue declarations.
func (c *BenchConfig) StorageInfos() []weights.StorageInfo {
	infos := make([]weights.StorageInfo, len(c.Storage))
	for i, s := range c.Storage {
		infos[i] = weights.StorageInfo{
			PalletName:  s.Pallet,
			StorageName: s.Storage,
			Prefix:      s.Prefix,
			MaxValues:   s.MaxValues,
			MaxSize:     s.MaxSize,
		}
	}
	return infos
}

// RangeMap indexes the component_ranges section by (pallet, benchmark).
// Returns nil when the section is empty.
func (c *BenchConfig) RangeMap() map[weights.RangeKey][]weights.ComponentRange {
	if len(c.ComponentRanges) == 0 {
		return nil
	}
	ranges := make(map[weights.RangeKey][]weights.ComponentRange, len(c.ComponentRanges))
	for _, r := range c.ComponentRanges {
		ranges[weights.RangeKey{Pallet: r.Pallet, Benchmark: r.Benchmark}] = r.Components
	}
	return ranges
}
