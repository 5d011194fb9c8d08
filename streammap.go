package sevenzip

// buildStreamMap derives the tables in spec §3/§4.10 from the parsed
// Header: folder->first-pack-stream-index, pack-stream->byte-offset, and
// file->folder mappings.
func buildStreamMap(files []FileHeader, si *streamsInfo) (*streamMap, error) {
	numFolders := si.folders()

	sm := &streamMap{
		folderFirstPackStreamIndex: make([]int, numFolders),
		folderFirstFileIndex:       make([]int, numFolders),
		fileFolderIndex:            make([]int, len(files)),
	}

	for i := range sm.folderFirstFileIndex {
		sm.folderFirstFileIndex[i] = -1
	}

	if numFolders == 0 {
		for i := range sm.fileFolderIndex {
			sm.fileFolderIndex[i] = -1
		}

		return sm, nil
	}

	next := 0

	for i, f := range si.unpackInfo.folder {
		sm.folderFirstPackStreamIndex[i] = next
		next += len(f.packed)
	}

	if si.packInfo != nil {
		sm.packStreamOffsets = make([]uint64, len(si.packInfo.size))

		var offset uint64

		for i, size := range si.packInfo.size {
			sm.packStreamOffsets[i] = offset
			offset += size
		}
	}

	nextFolderIndex := 0
	nextFolderUnpackStreamIndex := uint64(0)

	for i := range files {
		sm.fileFolderIndex[i] = -1

		if !files[i].isEmptyStream && nextFolderUnpackStreamIndex == 0 {
			for nextFolderIndex < numFolders {
				if sm.folderFirstFileIndex[nextFolderIndex] == -1 {
					sm.folderFirstFileIndex[nextFolderIndex] = i
				}

				if si.unpackInfo.folder[nextFolderIndex].numUnpackSubstreams > 0 {
					break
				}

				nextFolderIndex++
			}

			if nextFolderIndex >= numFolders {
				return nil, ErrTruncated
			}
		}

		if files[i].isEmptyStream && nextFolderUnpackStreamIndex == 0 {
			continue
		}

		sm.fileFolderIndex[i] = nextFolderIndex

		if files[i].isEmptyStream {
			continue
		}

		nextFolderUnpackStreamIndex++

		if nextFolderUnpackStreamIndex >= si.unpackInfo.folder[nextFolderIndex].numUnpackSubstreams {
			nextFolderIndex++
			nextFolderUnpackStreamIndex = 0
		}
	}

	return sm, nil
}

// fileOffsets derives each file's byte offset within its folder's
// decompressed buffer (spec §3's Entry / the Rust original's
// get_stream_offsets), walking files in declaration order and tracking a
// running byte offset per folder. The result is parallel to files; entries
// for files with no folder (fileFolderIndex < 0) are zero and unused.
func fileOffsets(files []FileHeader, sm *streamMap) []uint64 {
	offsets := make([]uint64, len(files))
	offsetByFolder := make(map[int]uint64, sm.numFolders())

	for i, f := range files {
		folderIndex := sm.fileFolderIndex[i]
		if folderIndex < 0 {
			continue
		}

		offsets[i] = offsetByFolder[folderIndex]
		offsetByFolder[folderIndex] += f.UncompressedSize
	}

	return offsets
}

func (sm *streamMap) numFolders() int {
	return len(sm.folderFirstPackStreamIndex)
}
