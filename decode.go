package sevenzip

import (
	"bytes"
	"context"
	"hash/crc32"

	"golang.org/x/sync/errgroup"

	"github.com/gosevenzip/sevenzip/internal/lzma"
	"github.com/gosevenzip/sevenzip/internal/lzma2"
)

var (
	methodLZMA  = []byte{0x03, 0x01, 0x01}
	methodLZMA2 = []byte{0x21}
)

// decodeFolder decodes a folder's single coder against its packed input,
// per the single-coder-per-folder simplification (spec §9 option (a)): a
// folder whose coder graph needs more than one coder is rejected rather
// than traversed.
func decodeFolder(f *folder, packed []byte, unpackSize uint64) ([]byte, error) {
	if len(f.coder) != 1 {
		return nil, &UnsupportedFeatureError{Name: "multi-coder folder"}
	}

	c := f.coder[0]

	var (
		out []byte
		err error
	)

	switch {
	case bytes.Equal(c.id, methodLZMA):
		out, err = lzma.Decompress(c.properties, unpackSize, packed)
	case bytes.Equal(c.id, methodLZMA2):
		out, err = lzma2.Decompress(c.properties, unpackSize, packed)
	default:
		return nil, &UnsupportedCodecError{ID: c.id}
	}

	if err != nil {
		return nil, &CodecFailureError{Message: err.Error()}
	}

	return out, nil
}

// packedBytes slices the archive's pack area for the data belonging to
// folder index i, assuming the single-packed-stream-per-folder shape every
// LZMA/LZMA2 folder has.
func packedBytes(data []byte, si *streamsInfo, sm *streamMap, folderIndex int) ([]byte, error) {
	f := si.unpackInfo.folder[folderIndex]
	if len(f.packed) != 1 {
		return nil, &UnsupportedFeatureError{Name: "folder with other than one packed stream"}
	}

	packStreamIndex := sm.folderFirstPackStreamIndex[folderIndex]
	if packStreamIndex >= len(si.packInfo.size) {
		return nil, ErrInvalidFolderTopology
	}

	offset := signatureHeaderSize + si.packInfo.position + sm.packStreamOffsets[packStreamIndex]
	size := si.packInfo.size[packStreamIndex]

	r := newByteReader(data)
	r.seek(int(offset))

	return r.readExact(int(size))
}

// folderFileIndices groups file indices by the folder they draw data from,
// in ascending folder order, skipping files with no folder (empty streams).
func folderFileIndices(numFolders int, sm *streamMap) [][]int {
	byFolder := make([][]int, numFolders)

	for i, folderIndex := range sm.fileFolderIndex {
		if folderIndex < 0 {
			continue
		}

		byFolder[folderIndex] = append(byFolder[folderIndex], i)
	}

	return byFolder
}

// decodeAndSliceFolder decodes folder i and copies every file assigned to
// it out of the decoded buffer into files, then lets the buffer go out of
// scope. Copying rather than sub-slicing keeps a large folder's backing
// array from staying reachable through one small file's Data (spec §5:
// "implementations MAY choose to stream per-folder decompression and
// per-file slicing so that only one folder buffer is held at a time").
func decodeAndSliceFolder(data []byte, si *streamsInfo, sm *streamMap, cfg extractConfig, i int, fileIndices []int, offsets []uint64, h *header, files []*File) error {
	f := si.unpackInfo.folder[i]

	packed, err := packedBytes(data, si, sm, i)
	if err != nil {
		return err
	}

	buf, err := decodeFolder(f, packed, f.unpackSize())
	if err != nil {
		return err
	}

	if cfg.verifyCRC && f.hasCRC && !crc32Match(buf, f.crc) {
		return &CodecFailureError{Message: "folder CRC mismatch"}
	}

	for _, fi := range fileIndices {
		fh := h.files[fi]

		if fh.isEmptyStream {
			continue
		}

		start := offsets[fi]
		end := start + fh.UncompressedSize

		if end > uint64(len(buf)) {
			return ErrTruncated
		}

		out := make([]byte, fh.UncompressedSize)
		copy(out, buf[start:end])

		files[fi] = &File{FileHeader: fh, Data: out}
	}

	return nil
}

// extractFiles derives the final Archive from a parsed Header: it decodes
// every folder referenced by h.files, slicing each file's bytes out of its
// folder's decoded buffer at the offset fileOffsets computed (spec §4.10),
// and discards each folder's buffer as soon as its files are sliced so
// that at most cfg.concurrency folder buffers are ever resident at once.
func extractFiles(data []byte, h *header, cfg extractConfig) ([]*File, error) {
	si := h.streamsInfo
	if si == nil {
		si = &streamsInfo{}
	}

	sm, err := buildStreamMap(h.files, si)
	if err != nil {
		return nil, err
	}

	files := make([]*File, len(h.files))

	numFolders := si.folders()
	if numFolders > 0 {
		if si.packInfo == nil {
			return nil, ErrInvalidFolderTopology
		}

		offsets := fileOffsets(h.files, sm)
		byFolder := folderFileIndices(numFolders, sm)

		if cfg.concurrency <= 1 {
			for i := 0; i < numFolders; i++ {
				if err := decodeAndSliceFolder(data, si, sm, cfg, i, byFolder[i], offsets, h, files); err != nil {
					return nil, err
				}
			}
		} else {
			g, _ := errgroup.WithContext(context.Background())
			g.SetLimit(cfg.concurrency)

			for i := 0; i < numFolders; i++ {
				i := i

				g.Go(func() error {
					return decodeAndSliceFolder(data, si, sm, cfg, i, byFolder[i], offsets, h, files)
				})
			}

			if err := g.Wait(); err != nil {
				return nil, err
			}
		}
	}

	for i := range h.files {
		if files[i] == nil {
			files[i] = &File{FileHeader: h.files[i]}
		}
	}

	return files, nil
}

func crc32Match(data []byte, want uint32) bool {
	return crc32.ChecksumIEEE(data) == want
}
