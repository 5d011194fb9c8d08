// Package lzma implements the LZMA decompressor, wrapping the external
// entropy decoder the 7z core treats as an out-of-scope collaborator.
package lzma

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/plumbing"
	"github.com/ulikunitz/xz/lzma"
)

// Decompress decodes a raw LZMA stream. The 5-byte LZMA properties blob
// (carried in the folder's coder properties) is prepended to the packed
// payload together with the declared uncompressed size, forming the header
// ulikunitz/xz/lzma expects.
func Decompress(properties []byte, unpackSize uint64, packed []byte) ([]byte, error) {
	header := bytes.NewBuffer(properties)
	if err := binary.Write(header, binary.LittleEndian, unpackSize); err != nil {
		return nil, fmt.Errorf("lzma: error writing size header: %w", err)
	}

	lr, err := lzma.NewReader(io.MultiReader(header, bytes.NewReader(packed)))
	if err != nil {
		return nil, fmt.Errorf("lzma: error creating reader: %w", err)
	}

	bounded := plumbing.LimitReadCloser(io.NopCloser(lr), int64(unpackSize)) //nolint:gosec

	out, err := io.ReadAll(bounded)
	if err != nil {
		return nil, fmt.Errorf("lzma: error reading: %w", err)
	}

	if err := bounded.Close(); err != nil {
		return nil, fmt.Errorf("lzma: error closing: %w", err)
	}

	return out, nil
}
