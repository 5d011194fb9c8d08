package sevenzip

import (
	"time"
)

type packInfo struct {
	position uint64
	size     []uint64
	digest   []uint32
}

type coder struct {
	id         []byte
	in, out    uint64
	properties []byte
}

type bindPair struct {
	in, out uint64
}

// folder is a coder graph producing one or more logical output streams
// from one or more packed input streams (spec §3).
type folder struct {
	in, out  uint64
	coder    []*coder
	bindPair []*bindPair
	packed   []uint64
	size     []uint64
	hasCRC   bool
	crc      uint32

	numUnpackSubstreams uint64
}

func (f *folder) findInBindPair(i uint64) *bindPair {
	for _, v := range f.bindPair {
		if v.in == i {
			return v
		}
	}

	return nil
}

func (f *folder) findOutBindPair(i uint64) *bindPair {
	for _, v := range f.bindPair {
		if v.out == i {
			return v
		}
	}

	return nil
}

// unpackSize returns the ultimate output size of the folder: the size of
// the highest-indexed output stream that is not the output side of any
// bind-pair (spec §4.5).
func (f *folder) unpackSize() uint64 {
	if len(f.size) == 0 {
		return 0
	}

	for i := len(f.size) - 1; i >= 0; i-- {
		if f.findOutBindPair(uint64(i)) == nil {
			return f.size[i]
		}
	}

	return f.size[len(f.size)-1]
}

type unpackInfo struct {
	folder []*folder
	digest []uint32
}

type subStreamsInfo struct {
	size   []uint64
	digest []uint32
}

type streamsInfo struct {
	packInfo       *packInfo
	unpackInfo     *unpackInfo
	subStreamsInfo *subStreamsInfo
}

func (si *streamsInfo) folders() int {
	if si == nil || si.unpackInfo == nil {
		return 0
	}

	return len(si.unpackInfo.folder)
}

// FileHeader describes a file within a 7z archive (spec §3).
type FileHeader struct {
	Name             string
	Created          time.Time
	Accessed         time.Time
	Modified         time.Time
	Attributes       uint32
	UncompressedSize uint64

	isEmptyStream bool
	isEmptyFile   bool
	isAntiItem    bool
}

// IsDir reports whether the header describes a directory entry.
func (h *FileHeader) IsDir() bool {
	return h.isEmptyStream && !h.isEmptyFile
}

// IsAnti reports whether the header describes an anti-item (a deletion
// marker carried by incremental archives).
func (h *FileHeader) IsAnti() bool {
	return h.isAntiItem
}

type header struct {
	streamsInfo *streamsInfo
	files       []FileHeader
}

// streamMap holds the derived tables from spec §3/§4.10.
type streamMap struct {
	folderFirstPackStreamIndex []int
	packStreamOffsets          []uint64
	folderFirstFileIndex       []int // -1 when unset
	fileFolderIndex            []int // -1 for files with no stream
}
