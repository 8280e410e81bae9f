package ingest

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
)

// Compressor gzip-encodes an ingestion payload before upload. Sources that
// are already compressed (judged by name, not by content) are passed through.
type Compressor interface {
	IsCompressed(name string) bool
	Compress(r io.Reader) (io.Reader, error)
}

var compressedExtensions = map[string]bool{
	".gz":   true,
	".zip":  true,
	".snappy": true,
}

// GzipCompressor is the default Compressor, grounded on storage's plain
// net/http client rather than any SDK: gzip is the one codec the service
// accepts directly, so there is no library to reach for beyond stdlib.
type GzipCompressor struct{}

func (GzipCompressor) IsCompressed(name string) bool {
	for ext := range compressedExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}

func (GzipCompressor) Compress(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := io.Copy(gw, r); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ShouldCompress reports whether a source named name should be run
// through a Compressor before upload: already-compressed extensions are
// left alone, everything else is compressed.
func ShouldCompress(c Compressor, name string) bool {
	return !c.IsCompressed(name)
}
