package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/benchweight/weights"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// Report is the envelope written for one analyze run.
type Report struct {
	RunID    string                  `json:"run_id" yaml:"run_id"`
	Analysis weights.AnalysisChoice  `json:"analysis" yaml:"analysis"`
	Pallets  []weights.PalletResults `json:"pallets" yaml:"pallets"`
}

func newReport(choice weights.AnalysisChoice, pallets []weights.PalletResults) Report {
	return Report{
		RunID:    uuid.NewString(),
		Analysis: choice,
		Pallets:  pallets,
	}
}

func isValidFormat(format string) bool {
	return format == formatJSON || format == formatYAML
}

// encodeReport writes r to w in format.
func encodeReport(w io.Writer, r Report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// outputFileNames names one file per pallet instance: "pallet.ext", or
// "pallet_instance.ext" (instance in snake case) when the pallet was
// benchmarked under several instances.
func outputFileNames(pallets []weights.PalletResults, ext string) []string {
	instances := make(map[string]int)
	for _, p := range pallets {
		instances[p.Pallet]++
	}
	names := make([]string, len(pallets))
	for i, p := range pallets {
		name := p.Pallet
		if instances[p.Pallet] > 1 {
			name += "_" + toSnakeCase(p.Instance)
		}
		names[i] = safeFileName(name) + "." + ext
	}
	return names
}

// safeFileName replaces path separators so a name cannot leave the output dir.
func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, name)
}

// writeReportFiles writes one envelope per pallet instance into dir and
// returns the paths written. All files share the run id of r.
func writeReportFiles(dir string, r Report, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	names := outputFileNames(r.Pallets, format)
	paths := make([]string, 0, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		single := Report{RunID: r.RunID, Analysis: r.Analysis, Pallets: r.Pallets[i : i+1]}
		if err := writeReportFile(path, single, format); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeReportFile(path string, r Report, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encodeReport(f, r, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// toSnakeCase lowercases s and separates words with underscores. A word
// starts at an upper-case letter following a lower-case letter or digit, or
// at the last capital of an acronym followed by a lower-case letter.
// Characters other than letters and digits act as separators.
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	pendingSep := false
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = b.Len() > 0
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				pendingSep = b.Len() > 0
			}
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
