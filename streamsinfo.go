package sevenzip

// readStreamsInfo parses PackInfo, UnpackInfo and SubStreamsInfo (spec
// §4.6). The NID introducing the section is assumed already consumed by
// the caller.
func readStreamsInfo(r *byteReader) (*streamsInfo, error) {
	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	si := &streamsInfo{}

	if n == idPackInfo {
		if si.packInfo, err = readPackInfo(r); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n == idUnpackInfo {
		if si.unpackInfo, err = readUnpackInfo(r); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n == idSubStreamsInfo {
		if si.unpackInfo == nil {
			return nil, ErrInvalidFolderTopology
		}

		if si.subStreamsInfo, err = readSubStreamsInfo(r, si.unpackInfo); err != nil {
			return nil, err
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	} else if si.unpackInfo != nil {
		// SubStreamsInfo is optional (spec §4.6); its absence means every
		// folder carries its inferred default of exactly one substream
		// spanning the whole folder (spec §3), matching the teacher's
		// FileFolderAndSize fallback.
		si.subStreamsInfo = defaultSubStreamsInfo(si.unpackInfo)
	}

	if n != idEnd {
		return nil, &BadlyTerminatedError{Section: "StreamsInfo", Got: n}
	}

	return si, nil
}

func readPackInfo(r *byteReader) (*packInfo, error) {
	position, err := r.readDynUint64()
	if err != nil {
		return nil, err
	}

	numPackStreams, err := r.readDynUint64()
	if err != nil {
		return nil, err
	}

	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	pi := &packInfo{position: position}

	if n == idSize {
		pi.size = make([]uint64, numPackStreams)

		for i := range pi.size {
			if pi.size[i], err = r.readDynUint64(); err != nil {
				return nil, err
			}
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n == idCrc {
		defined, err := r.readAllOrBits(int(numPackStreams))
		if err != nil {
			return nil, err
		}

		pi.digest = make([]uint32, numPackStreams)

		for i := range pi.digest {
			crc, err := r.readUint32()
			if err != nil {
				return nil, err
			}

			if defined[i] {
				pi.digest[i] = crc
			}
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n != idEnd {
		return nil, &BadlyTerminatedError{Section: "PackInfo", Got: n}
	}

	return pi, nil
}

func readUnpackInfo(r *byteReader) (*unpackInfo, error) {
	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	if n != idFolder {
		return nil, &UnexpectedNidError{Expected: idFolder, Got: n}
	}

	numFolders, err := r.readDynUint64()
	if err != nil {
		return nil, err
	}

	external, err := r.readByte()
	if err != nil {
		return nil, err
	}

	if external != 0 {
		return nil, ErrUnsupportedExternal
	}

	ui := &unpackInfo{folder: make([]*folder, numFolders)}

	for i := range ui.folder {
		if ui.folder[i], err = readFolder(r); err != nil {
			return nil, err
		}
	}

	if n, err = readNid(r); err != nil {
		return nil, err
	}

	if n != idCodersUnpackSize {
		return nil, &UnexpectedNidError{Expected: idCodersUnpackSize, Got: n}
	}

	for _, f := range ui.folder {
		f.size = make([]uint64, f.out)

		for i := range f.size {
			if f.size[i], err = r.readDynUint64(); err != nil {
				return nil, err
			}
		}
	}

	if n, err = readNid(r); err != nil {
		return nil, err
	}

	if n == idCrc {
		defined, err := r.readAllOrBits(int(numFolders))
		if err != nil {
			return nil, err
		}

		ui.digest = make([]uint32, numFolders)

		for i, f := range ui.folder {
			if defined[i] {
				f.hasCRC = true

				if f.crc, err = r.readUint32(); err != nil {
					return nil, err
				}

				ui.digest[i] = f.crc
			}
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n != idEnd {
		return nil, &BadlyTerminatedError{Section: "UnpackInfo", Got: n}
	}

	return ui, nil
}

// readFolder parses one folder's coder graph (spec §4.8).
func readFolder(r *byteReader) (*folder, error) {
	numCoders, err := r.readDynUint64()
	if err != nil {
		return nil, err
	}

	f := &folder{coder: make([]*coder, numCoders)}

	for i := range f.coder {
		flags, err := r.readByte()
		if err != nil {
			return nil, err
		}

		idSize := int(flags & 0x0f)
		isSimple := flags&0x10 == 0
		hasAttributes := flags&0x20 != 0
		moreAlternatives := flags&0x80 != 0

		method, err := r.readExact(idSize)
		if err != nil {
			return nil, err
		}

		c := &coder{id: append([]byte(nil), method...)}

		if isSimple {
			c.in, c.out = 1, 1
		} else {
			if c.in, err = r.readDynUint64(); err != nil {
				return nil, err
			}

			if c.out, err = r.readDynUint64(); err != nil {
				return nil, err
			}
		}

		if hasAttributes {
			propsSize, err := r.readDynUint64()
			if err != nil {
				return nil, err
			}

			props, err := r.readExact(int(propsSize))
			if err != nil {
				return nil, err
			}

			c.properties = append([]byte(nil), props...)
		}

		if moreAlternatives {
			return nil, &UnsupportedFeatureError{Name: "alternative coder methods"}
		}

		f.coder[i] = c
		f.in += c.in
		f.out += c.out
	}

	if f.out == 0 {
		return nil, ErrInvalidFolderTopology
	}

	numBindPairs := f.out - 1
	f.bindPair = make([]*bindPair, numBindPairs)

	for i := range f.bindPair {
		bp := &bindPair{}

		if bp.in, err = r.readDynUint64(); err != nil {
			return nil, err
		}

		if bp.out, err = r.readDynUint64(); err != nil {
			return nil, err
		}

		f.bindPair[i] = bp
	}

	if f.in < numBindPairs {
		return nil, ErrInvalidFolderTopology
	}

	numPackedStreams := f.in - numBindPairs
	if numPackedStreams == 0 {
		return nil, ErrNoPackedStream
	}

	if numPackedStreams == 1 {
		idx := uint64(0)
		found := false

		for i := uint64(0); i < f.in; i++ {
			if f.findInBindPair(i) == nil {
				idx = i
				found = true

				break
			}
		}

		if !found {
			return nil, ErrNoPackedStream
		}

		f.packed = []uint64{idx}
	} else {
		f.packed = make([]uint64, numPackedStreams)

		for i := range f.packed {
			if f.packed[i], err = r.readDynUint64(); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// defaultSubStreamsInfo builds the inferred one-substream-per-folder shape
// (spec §3) used when the optional SubStreamsInfo section is absent
// altogether, grounded on the teacher's FileFolderAndSize fallback.
func defaultSubStreamsInfo(ui *unpackInfo) *subStreamsInfo {
	ssi := &subStreamsInfo{size: make([]uint64, 0, len(ui.folder))}

	for _, f := range ui.folder {
		f.numUnpackSubstreams = 1
		ssi.size = append(ssi.size, f.unpackSize())
	}

	return ssi
}

func readSubStreamsInfo(r *byteReader, ui *unpackInfo) (*subStreamsInfo, error) {
	for _, f := range ui.folder {
		f.numUnpackSubstreams = 1
	}

	n, err := readNid(r)
	if err != nil {
		return nil, err
	}

	if n == idNumUnpackStream {
		for _, f := range ui.folder {
			if f.numUnpackSubstreams, err = r.readDynUint64(); err != nil {
				return nil, err
			}
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	ssi := &subStreamsInfo{}

	for _, f := range ui.folder {
		if f.numUnpackSubstreams == 0 {
			continue
		}

		var sum uint64

		if n == idSize {
			for i := uint64(1); i < f.numUnpackSubstreams; i++ {
				size, err := r.readDynUint64()
				if err != nil {
					return nil, err
				}

				sum += size
				ssi.size = append(ssi.size, size)
			}
		}

		ssi.size = append(ssi.size, f.unpackSize()-sum)
	}

	if n == idSize {
		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	numDigests := uint64(0)

	for _, f := range ui.folder {
		if f.numUnpackSubstreams != 1 || !f.hasCRC {
			numDigests += f.numUnpackSubstreams
		}
	}

	if n == idCrc {
		defined, err := r.readAllOrBits(int(numDigests))
		if err != nil {
			return nil, err
		}

		ssi.digest = make([]uint32, numDigests)

		for i := range ssi.digest {
			if !defined[i] {
				continue
			}

			if ssi.digest[i], err = r.readUint32(); err != nil {
				return nil, err
			}
		}

		if n, err = readNid(r); err != nil {
			return nil, err
		}
	}

	if n != idEnd {
		return nil, &BadlyTerminatedError{Section: "SubStreamsInfo", Got: n}
	}

	return ssi, nil
}
