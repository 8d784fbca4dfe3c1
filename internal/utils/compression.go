package utils

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies how a repository index file is compressed
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gz"
	CompressionXz   Compression = "xz"
	CompressionZstd Compression = "zst"
)

// ParseCompression maps a suffix or flag value ("gz", ".xz", "none") to a Compression
func ParseCompression(s string) (Compression, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGzip, nil
	case "xz":
		return CompressionXz, nil
	case "zst", "zstd":
		return CompressionZstd, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", s)
	}
}

// CompressionFromName returns the compression implied by the suffix of a file name or URL path
func CompressionFromName(name string) Compression {
	switch path.Ext(name) {
	case ".gz":
		return CompressionGzip
	case ".xz":
		return CompressionXz
	case ".zst":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// String returns the string representation of Compression
func (c Compression) String() string {
	if c == CompressionNone {
		return "none"
	}
	return string(c)
}

// Extension returns the file suffix for the compression, including the dot
func (c Compression) Extension() string {
	if c == CompressionNone {
		return ""
	}
	return "." + string(c)
}

// Decompress decompresses data, reading at most limit decompressed bytes
func (c Compression) Decompress(data []byte, limit int64) ([]byte, error) {
	var r io.Reader

	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case CompressionXz:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		r = xr
	case CompressionZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("unknown compression %q", string(c))
	}

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("decompressed size exceeds %d bytes", limit)
	}
	return out, nil
}

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
