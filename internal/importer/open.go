package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Open opens a CSV file, decompressing .zst and .gz transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Decompress(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// Decompress wraps src according to the extension of name. Closing the
// result closes src.
func Decompress(src io.ReadCloser, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &wrapped{Reader: dec, close: func() error { dec.Close(); return src.Close() }}, nil
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &wrapped{Reader: gz, close: func() error { gz.Close(); return src.Close() }}, nil
	}
	return src, nil
}

type wrapped struct {
	io.Reader
	close func() error
}

func (w *wrapped) Close() error { return w.close() }
