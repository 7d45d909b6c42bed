package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/benchweight/weights"
)

const sampleDump = `[
  {
    "pallet": "balances",
    "instance": "Instance1",
    "benchmark": "transfer",
    "time_results": [
      {"components": [{"name": "n", "value": 1}], "extrinsic_time": 42, "reads": 2, "writes": 1, "proof_size": 0}
    ],
    "db_results": [
      {
        "components": [{"name": "n", "value": 1}],
        "extrinsic_time": 40, "reads": 2, "writes": 1, "proof_size": 128,
        "keys": [
          {"key": "0xaabb", "reads": 2, "writes": 1},
          {"key": "ccdd", "reads": 1, "writes": 0, "whitelisted": true}
        ]
      }
    ]
  }
]`

func TestDecodeBatches_ParsesDump(t *testing.T) {
	// GIVEN a dump with one batch and hex keys with and without 0x
	// WHEN decoded
	batches, err := DecodeBatches(strings.NewReader(sampleDump))

	// THEN every field lands in the domain type
	require.NoError(t, err)
	require.Len(t, batches, 1)
	b := batches[0]
	assert.Equal(t, "balances", b.Pallet)
	assert.Equal(t, "Instance1", b.Instance)
	assert.Equal(t, "transfer", b.Benchmark)
	require.Len(t, b.TimeResults, 1)
	assert.Equal(t, uint64(42), b.TimeResults[0].ExtrinsicTime)
	assert.Equal(t, []weights.ComponentValue{{Name: "n", Value: 1}}, b.TimeResults[0].Components)
	assert.Empty(t, b.TimeResults[0].Keys)

	require.Len(t, b.DBResults, 1)
	assert.Equal(t, uint32(128), b.DBResults[0].ProofSize)
	assert.Equal(t, []weights.KeyAccess{
		{Key: []byte{0xaa, 0xbb}, Reads: 2, Writes: 1},
		{Key: []byte{0xcc, 0xdd}, Reads: 1, Whitelisted: true},
	}, b.DBResults[0].Keys)
}

func TestDecodeBatches_RejectsUnknownField(t *testing.T) {
	_, err := DecodeBatches(strings.NewReader(`[{"pallet": "p", "palett": "typo"}]`))
	assert.Error(t, err)
}

func TestDecodeBatches_RejectsBadHex(t *testing.T) {
	dump := `[{"pallet": "p", "db_results": [{"keys": [{"key": "0xzz"}]}]}]`
	_, err := DecodeBatches(strings.NewReader(dump))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hex")
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"batches.json", CompressionNone},
		{"batches", CompressionNone},
		{"batches.json.gz", CompressionGzip},
		{"batches.json.GZ", CompressionGzip},
		{"batches.json.zst", CompressionZstd},
		{"batches.json.sz", CompressionS2},
		{"batches.json.s2", CompressionS2},
		{"batches.json.lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCompression(tt.path))
		})
	}
}

func TestDecompress_UnknownFormat(t *testing.T) {
	_, _, err := Decompress(strings.NewReader(""), "brotli")
	assert.Error(t, err)
}

// compress encodes data with the writer matching ext.
func compress(t *testing.T, ext string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch ext {
	case ".json":
		return data
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".zst":
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = zw
	case ".s2":
		w = s2.NewWriter(&buf)
	case ".lz4":
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("no writer for %s", ext)
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoadBatches_AllFormats(t *testing.T) {
	for _, ext := range []string{".json", ".gz", ".zst", ".s2", ".lz4"} {
		t.Run(ext, func(t *testing.T) {
			// GIVEN the sample dump written in format ext
			path := filepath.Join(t.TempDir(), "batches"+ext)
			require.NoError(t, os.WriteFile(path, compress(t, ext, []byte(sampleDump)), 0o644))

			// WHEN loaded
			batches, err := LoadBatches(path)

			// THEN the content survives decompression
			require.NoError(t, err)
			require.Len(t, batches, 1)
			assert.Equal(t, "transfer", batches[0].Benchmark)
			assert.Len(t, batches[0].DBResults[0].Keys, 2)
		})
	}
}

func TestLoadBatches_MissingFile(t *testing.T) {
	_, err := LoadBatches(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadBatches_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.json.gz")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o644))

	_, err := LoadBatches(path)
	assert.Error(t, err)
}
