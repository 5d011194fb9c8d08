// Package sevenzip implements the core of a 7z archive reader: container
// parsing, stream-map derivation, and folder-unpack orchestration for the
// LZMA and LZMA2 coders. It is a pure function over an immutable byte
// slice — no shared mutable state, no logging, and (outside OpenReader) no
// filesystem access.
package sevenzip

import (
	"fmt"

	"github.com/spf13/afero"
)

// File is a single entry extracted from an archive. Data is nil for
// directories, empty files, and anti-items.
type File struct {
	FileHeader

	Data []byte
}

// Archive is the fully decoded result of Extract, in the declaration order
// of the original FilesInfo.
type Archive struct {
	Files []*File
}

// Extract parses and fully decodes a 7z archive held in memory, returning
// every file it describes. It never touches the filesystem or any other
// shared state; calling it concurrently on disjoint inputs is always safe.
func Extract(data []byte, opts ...ExtractOption) (*Archive, error) {
	cfg := defaultExtractConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := decompress(data)
	if err != nil {
		return nil, err
	}

	files, err := extractFiles(data, h, cfg)
	if err != nil {
		return nil, err
	}

	return &Archive{Files: files}, nil
}

// OpenReader reads a single-volume 7z archive from name and extracts it.
// Multi-volume (".001"-style) chaining is out of scope.
func OpenReader(name string, opts ...ExtractOption) (*Archive, error) {
	fs := afero.NewOsFs()

	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("sevenzip: error reading %s: %w", name, err)
	}

	return Extract(data, opts...)
}
