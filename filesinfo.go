package sevenzip

import (
	"bytes"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// windowsEpoch is 1601-01-01 UTC, the origin of Windows FILETIME values
// (100ns ticks).
var windowsEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

func filetimeToTime(ft uint64) time.Time {
	return time.Unix(windowsEpoch.Unix()+int64(ft/10000000), int64(ft%10000000)*100).UTC() //nolint:gosec
}

// readFilesInfo parses the FilesInfo section (spec §4.9). streamsInfo may
// be nil only when there are no non-empty-stream files to describe.
func readFilesInfo(r *byteReader, si *streamsInfo) ([]FileHeader, error) {
	numFiles, err := r.readDynUint64()
	if err != nil {
		return nil, err
	}

	n := int(numFiles)

	var (
		isEmptyStream []bool
		isEmptyFile   []bool
		isAnti        []bool
		names         []string
		ctime         []uint64
		ctimeSet      []bool
		atime         []uint64
		atimeSet      []bool
		mtime         []uint64
		mtimeSet      []bool
		attributes    []uint32
		attributesSet []bool
	)

	for {
		tag, err := readNid(r)
		if err != nil {
			return nil, err
		}

		if tag == idEnd {
			break
		}

		size, err := r.readDynUint64()
		if err != nil {
			return nil, err
		}

		end := r.position() + int(size)

		switch tag {
		case idEmptyStream:
			if isEmptyStream, err = r.readBits(n); err != nil {
				return nil, err
			}
		case idEmptyFile:
			if isEmptyFile, err = r.readBits(popcount(isEmptyStream)); err != nil {
				return nil, err
			}
		case idAnti:
			if isAnti, err = r.readBits(popcount(isEmptyStream)); err != nil {
				return nil, err
			}
		case idName:
			if names, err = readNames(r, int(size)); err != nil {
				return nil, err
			}
		case idCtime:
			if ctime, ctimeSet, err = readTimestamps(r, n); err != nil {
				return nil, err
			}
		case idAtime:
			if atime, atimeSet, err = readTimestamps(r, n); err != nil {
				return nil, err
			}
		case idMtime:
			if mtime, mtimeSet, err = readTimestamps(r, n); err != nil {
				return nil, err
			}
		case idWinAttributes:
			if attributes, attributesSet, err = readAttributes(r, n); err != nil {
				return nil, err
			}
		case idStartPos:
			return nil, &UnsupportedFeatureError{Name: "StartPos"}
		default:
			if _, err := r.readExact(int(size)); err != nil {
				return nil, err
			}
		}

		// idDummy and any property this parser doesn't recognise are
		// skipped by the default case above; any other section that
		// doesn't consume exactly its declared size is realigned by
		// seeking to its declared end.
		if r.position() != end {
			r.seek(end)
		}
	}

	if len(names) != n {
		return nil, ErrInvalidFileNames
	}

	var substreamSizes []uint64
	if si != nil && si.subStreamsInfo != nil {
		substreamSizes = si.subStreamsInfo.size
	}

	files := make([]FileHeader, n)
	nonEmptyIdx, emptyIdx := 0, 0

	for i := 0; i < n; i++ {
		empty := i < len(isEmptyStream) && isEmptyStream[i]

		fh := FileHeader{Name: names[i], isEmptyStream: empty}

		if !empty {
			if nonEmptyIdx >= len(substreamSizes) {
				return nil, ErrTruncated
			}

			fh.UncompressedSize = substreamSizes[nonEmptyIdx]

			if nonEmptyIdx < len(ctime) && ctimeSet[nonEmptyIdx] {
				fh.Created = filetimeToTime(ctime[nonEmptyIdx])
			}

			if nonEmptyIdx < len(atime) && atimeSet[nonEmptyIdx] {
				fh.Accessed = filetimeToTime(atime[nonEmptyIdx])
			}

			if nonEmptyIdx < len(mtime) && mtimeSet[nonEmptyIdx] {
				fh.Modified = filetimeToTime(mtime[nonEmptyIdx])
			}

			if nonEmptyIdx < len(attributes) && attributesSet[nonEmptyIdx] {
				fh.Attributes = attributes[nonEmptyIdx]
			}

			nonEmptyIdx++
		} else {
			fh.isEmptyFile = emptyIdx < len(isEmptyFile) && isEmptyFile[emptyIdx]
			fh.isAntiItem = emptyIdx < len(isAnti) && isAnti[emptyIdx]
			emptyIdx++
		}

		files[i] = fh
	}

	return files, nil
}

// readNames decodes the Name property payload: a 0 external byte followed
// by UTF-16LE code units, names delimited by a single U+0000 code unit
// (spec §4.9).
func readNames(r *byteReader, size int) ([]string, error) {
	external, err := r.readByte()
	if err != nil {
		return nil, err
	}

	if external != 0 {
		return nil, ErrUnsupportedExternal
	}

	payload, err := r.readExact(size - 1)
	if err != nil {
		return nil, err
	}

	if len(payload)%2 != 0 {
		return nil, ErrInvalidFileNames
	}

	var names []string

	start := 0

	for i := 0; i+1 < len(payload); i += 2 {
		if payload[i] == 0 && payload[i+1] == 0 {
			name, err := utf16LEDecode(payload[start:i])
			if err != nil {
				return nil, err
			}

			names = append(names, name)
			start = i + 2
		}
	}

	return names, nil
}

func utf16LEDecode(b []byte) (string, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	out, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return "", ErrUtf16Decode
	}

	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", ErrUtf16Decode
	}

	return string(out), nil
}

func readTimestamps(r *byteReader, numFiles int) ([]uint64, []bool, error) {
	defined, err := r.readAllOrBits(numFiles)
	if err != nil {
		return nil, nil, err
	}

	external, err := r.readByte()
	if err != nil {
		return nil, nil, err
	}

	if external != 0 {
		return nil, nil, ErrUnsupportedExternal
	}

	values := make([]uint64, numFiles)

	for i := range values {
		if defined[i] {
			if values[i], err = r.readUint64(); err != nil {
				return nil, nil, err
			}
		}
	}

	return values, defined, nil
}

func readAttributes(r *byteReader, numFiles int) ([]uint32, []bool, error) {
	defined, err := r.readAllOrBits(numFiles)
	if err != nil {
		return nil, nil, err
	}

	external, err := r.readByte()
	if err != nil {
		return nil, nil, err
	}

	if external != 0 {
		return nil, nil, ErrUnsupportedExternal
	}

	values := make([]uint32, numFiles)

	for i := range values {
		if defined[i] {
			if values[i], err = r.readUint32(); err != nil {
				return nil, nil, err
			}
		}
	}

	return values, defined, nil
}
