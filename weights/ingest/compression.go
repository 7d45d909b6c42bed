package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the container format of a batch dump.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionS2   Compression = "s2"
	CompressionLZ4  Compression = "lz4"
)

// compressionByExt maps file extensions to their container format.
var compressionByExt = map[string]Compression{
	".gz":  CompressionGzip,
	".zst": CompressionZstd,
	".sz":  CompressionS2,
	".s2":  CompressionS2,
	".lz4": CompressionLZ4,
}

// DetectCompression infers the container format from path's extension.
// Unknown extensions are read as plain JSON.
func DetectCompression(path string) Compression {
	if c, ok := compressionByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return CompressionNone
}

// Decompress wraps r in a reader for format c.
// The returned close function releases decoder state; it does not close r.
func Decompress(r io.Reader, c Compression) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	switch c {
	case CompressionNone, "":
		return r, noop, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr, func() error { zr.Close(); return nil }, nil
	case CompressionS2:
		return s2.NewReader(r), noop, nil
	case CompressionLZ4:
		return lz4.NewReader(r), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown compression %q", c)
	}
}
