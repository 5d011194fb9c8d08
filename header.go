package sevenzip

const signatureHeaderSize = 32

var signature = [6]byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}

// decompress is the top-level pure-function entry point (spec §4.4): given
// the raw bytes of a 7z container it produces the Header describing its
// contents, ready for stream-map derivation and extraction.
func decompress(data []byte) (*header, error) {
	if len(data) < 12 {
		return nil, ErrTooShort
	}

	if [6]byte(data[0:6]) != signature {
		return nil, ErrBadSignature
	}

	major, minor := data[6], data[7]
	if major != 0 {
		return nil, &UnsupportedVersionError{Major: major, Minor: minor}
	}

	r := newByteReader(data)
	r.seek(12)

	nextHeaderOffset, err := r.readUint64()
	if err != nil {
		return nil, err
	}

	nextHeaderSize, err := r.readUint64()
	if err != nil {
		return nil, err
	}

	if _, err := r.readUint32(); err != nil { // next_header_crc, not verified
		return nil, err
	}

	r.seek(signatureHeaderSize + int(nextHeaderOffset))

	if int(nextHeaderSize) > len(data)-r.position() {
		return nil, ErrTruncated
	}

	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	var h *header

	switch n {
	case idEncodedHeader:
		metadata, err := resolveEncodedHeader(r)
		if err != nil {
			return nil, err
		}

		mr := newByteReader(metadata)

		n, err := readNid(mr)
		if err != nil {
			return nil, err
		}

		if n != idHeader {
			return nil, &UnexpectedNidError{Expected: idHeader, Got: n}
		}

		if h, err = readHeader(mr); err != nil {
			return nil, err
		}
	case idHeader:
		if h, err = readHeader(r); err != nil {
			return nil, err
		}
	default:
		return nil, &UnexpectedNidError{Expected: idHeader, Got: n}
	}

	return h, nil
}

// resolveEncodedHeader parses the StreamsInfo describing the compressed
// header, decodes its single folder, and returns the decoded bytes as the
// effective metadata stream (spec §4.5).
func resolveEncodedHeader(r *byteReader) ([]byte, error) {
	si, err := readStreamsInfo(r)
	if err != nil {
		return nil, err
	}

	if si.packInfo == nil || si.unpackInfo == nil || len(si.unpackInfo.folder) != 1 {
		return nil, &UnsupportedFeatureError{Name: "encoded header with other than one folder"}
	}

	f := si.unpackInfo.folder[0]

	packedOffset := signatureHeaderSize + si.packInfo.position
	unpackSize := f.unpackSize()

	packedSize := si.packInfo.size[0]

	packed := newByteReader(r.data)
	packed.seek(int(packedOffset))

	payload, err := packed.readExact(int(packedSize))
	if err != nil {
		return nil, err
	}

	return decodeFolder(f, payload, unpackSize)
}

// readHeader consumes an uncompressed metadata stream to produce the
// Header, having already consumed the leading Header NID (spec §4.7).
func readHeader(r *byteReader) (*header, error) {
	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	if n == idArchiveProperties {
		if err := skipArchiveProperties(r); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n == idAdditionalStreamsInfo {
		return nil, &UnsupportedFeatureError{Name: "AdditionalStreamsInfo"}
	}

	h := &header{}

	if n == idMainStreamsInfo {
		if h.streamsInfo, err = readStreamsInfo(r); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n == idFilesInfo {
		if h.files, err = readFilesInfo(r, h.streamsInfo); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n != idEnd {
		return nil, &BadlyTerminatedError{Section: "Header", Got: n}
	}

	return h, nil
}

func skipArchiveProperties(r *byteReader) error {
	for {
		n, err := readNid(r)
		if err != nil {
			return err
		}

		if n == idEnd {
			return nil
		}

		size, err := r.readDynUint64()
		if err != nil {
			return err
		}

		if _, err := r.readExact(int(size)); err != nil {
			return err
		}
	}
}
