// Package lzma2 implements the LZMA2 decompressor, wrapping the external
// entropy decoder the 7z core treats as an out-of-scope collaborator.
package lzma2

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/plumbing"
	"github.com/ulikunitz/xz/lzma"
)

var errInsufficientProperties = errors.New("lzma2: not enough properties")

// Decompress decodes a raw LZMA2 stream. LZMA2 carries its own per-chunk
// parameters, so the only folder property needed up front is the single
// dictionary-size byte.
func Decompress(properties []byte, unpackSize uint64, packed []byte) ([]byte, error) {
	if len(properties) != 1 {
		return nil, errInsufficientProperties
	}

	config := lzma.Reader2Config{
		DictCap: (2 | (int(properties[0]) & 1)) << (properties[0]/2 + 11), // from Lzma2Dec.c
	}

	if err := config.Verify(); err != nil {
		return nil, fmt.Errorf("lzma2: error verifying config: %w", err)
	}

	lr, err := config.NewReader2(bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("lzma2: error creating reader: %w", err)
	}

	bounded := plumbing.LimitReadCloser(io.NopCloser(lr), int64(unpackSize)) //nolint:gosec

	out, err := io.ReadAll(bounded)
	if err != nil {
		return nil, fmt.Errorf("lzma2: error reading: %w", err)
	}

	if err := bounded.Close(); err != nil {
		return nil, fmt.Errorf("lzma2: error closing: %w", err)
	}

	return out, nil
}
