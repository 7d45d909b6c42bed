package cmd

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/benchweight/weights"
	_ "github.com/inference-sim/benchweight/weights/analysis"
	"github.com/inference-sim/benchweight/weights/ingest"
	"github.com/inference-sim/benchweight/weights/trace"
)

var (
	// CLI flags for the analyze command
	batchesPath  string // Batch dump to analyze
	configPath   string // YAML file with storage metadata and component ranges
	analysisName string // Regression strategy
	workers      int    // Pallet instances analyzed concurrently
	outputFormat string // json or yaml
	outputDir    string // Directory for per-pallet files; stdout when empty
	traceLevel   string // Accounting trace verbosity
)

// analyzeCmd fits weight records for every benchmark in a batch dump
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fit weight records for every benchmark in a batch dump",
	Run: func(cmd *cobra.Command, args []string) {
		if batchesPath == "" {
			logrus.Fatalf("--batches not provided")
		}
		if !isValidFormat(outputFormat) {
			logrus.Fatalf("Invalid output format %q; valid: json, yaml", outputFormat)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, decisions", traceLevel)
		}

		cfg := &BenchConfig{}
		if configPath != "" {
			var err error
			cfg, err = loadBenchConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load config: %v", err)
			}
		}
		// Flags take precedence over the config file only when set explicitly.
		if cmd.Flags().Changed("analysis") {
			cfg.Analysis = analysisName
		}
		if cmd.Flags().Changed("workers") || configPath == "" {
			cfg.Workers = workers
		}
		if cfg.Workers < 0 {
			logrus.Fatalf("--workers must be >= 0, got %d", cfg.Workers)
		}

		choice, err := weights.ParseAnalysisChoice(cfg.Analysis)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		oracle, err := weights.NewOracle(choice)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		batches, err := ingest.LoadBatches(batchesPath)
		if err != nil {
			logrus.Fatalf("Failed to load batches: %v", err)
		}
		logrus.Infof("Loaded %d batches from %s", len(batches), batchesPath)

		analyzer := &weights.Analyzer{
			Oracle:     oracle,
			Catalogue:  weights.NewStorageCatalogue(cfg.StorageInfos()),
			Ranges:     cfg.RangeMap(),
			Workers:    cfg.Workers,
			TraceLevel: trace.TraceLevel(traceLevel),
		}
		start := time.Now()
		pallets, err := analyzer.Run(batches)
		if err != nil {
			logrus.Fatalf("Analysis failed: %v", err)
		}
		logPalletSummaries(pallets)

		report := newReport(choice, pallets)
		if outputDir == "" {
			if err := encodeReport(os.Stdout, report, outputFormat); err != nil {
				logrus.Fatalf("Failed to write report: %v", err)
			}
		} else {
			paths, err := writeReportFiles(outputDir, report, outputFormat)
			if err != nil {
				logrus.Fatalf("Failed to write report: %v", err)
			}
			for _, p := range paths {
				logrus.Infof("Wrote %s", p)
			}
		}
		logrus.Infof("Run %s: %d pallet instances analyzed with %s in %s",
			report.RunID, len(pallets), choice, time.Since(start).Round(time.Millisecond))
	},
}

// logPalletSummaries logs one line per pallet instance and, when traced, the
// storage accounting summary of every benchmark.
func logPalletSummaries(pallets []weights.PalletResults) {
	for _, p := range pallets {
		var largest uint64
		for _, b := range p.Benchmarks {
			largest = max(largest, b.WorstCaseProofSize)
		}
		logrus.Infof("%s (%s): %d benchmarks, largest worst-case proof size %s",
			p.Pallet, p.Instance, len(p.Benchmarks), humanize.IBytes(largest))

		for _, tr := range p.Traces {
			s := trace.Summarize(tr)
			logrus.Infof("  %s: %d accesses (%d new prefixes, %d new keys, %d duplicate, %d whitelisted), %d unknown prefixes, %d skipped, proof %s",
				tr.Benchmark, s.TotalAccesses,
				s.ClassCounts[trace.ClassNewPrefix], s.ClassCounts[trace.ClassNewKey],
				s.ClassCounts[trace.ClassDuplicate], s.ClassCounts[trace.ClassWhitelisted],
				s.UnknownPrefixes, s.SkippedKeys, humanize.IBytes(s.TotalContribution))
		}
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&batchesPath, "batches", "", "Path to the benchmark batch dump (.json, optionally .gz/.zst/.s2/.sz/.lz4)")
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config with storage metadata and component ranges")
	analyzeCmd.Flags().StringVar(&analysisName, "analysis", string(weights.MinSquares), "Regression strategy: min-squares, median-slopes, max")
	analyzeCmd.Flags().IntVar(&workers, "workers", 1, "Pallet instances analyzed concurrently")
	analyzeCmd.Flags().StringVar(&outputFormat, "format", formatJSON, "Output format: json, yaml")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "Write one file per pallet instance into this directory instead of stdout")
	analyzeCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Storage accounting trace: none, decisions")

	rootCmd.AddCommand(analyzeCmd)
}
