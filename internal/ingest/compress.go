package ingest

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rotisserie/eris"
)

// Compressed table suffixes, tried in order when the plain file is absent.
var compressedSuffixes = []string{".gz", ".zst"}

// openTable opens a table file, transparently decompressing gzip and zstd
// files. When path does not exist, path.gz and path.zst are tried. It
// returns the path actually opened.
func openTable(path string) (io.ReadCloser, string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !isCompressed(path) {
		for _, suffix := range compressedSuffixes {
			alt := path + suffix
			if cf, cerr := os.Open(alt); cerr == nil {
				f, err, path = cf, nil, alt
				break
			}
		}
	}
	if err != nil {
		return nil, path, eris.Wrapf(err, "ingest: open %s", path)
	}

	rc, err := decompress(f, path)
	if err != nil {
		_ = f.Close()
		return nil, path, err
	}
	return rc, path, nil
}

func isCompressed(path string) bool {
	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func decompress(f *os.File, path string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: gzip %s", path)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: zstd %s", path)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil
	default:
		return f, nil
	}
}

// stackedCloser closes the decoder before the underlying file.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
