package sevenzip

import "encoding/binary"

// byteReader is a cursor over an immutable byte slice. All positions passed
// to seek are absolute, measured from the start of data, never relative to
// the current position.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) seek(pos int) {
	r.pos = pos
}

func (r *byteReader) skip(n int) {
	r.pos += n
}

func (r *byteReader) position() int {
	return r.pos
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, ErrTruncated
	}

	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *byteReader) readExact(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrTruncated
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *byteReader) readUint32() (uint32, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) readUint64() (uint64, error) {
	b, err := r.readExact(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// readDynUint64 reads the 7z variable-length unsigned integer encoding
// (spec §4.2): 1-9 bytes, the first byte's high bits forming a unary prefix
// giving the count of additional little-endian bytes (0..=8), with the
// special case of all eight high bits set yielding a raw 8-byte u64.
func (r *byteReader) readDynUint64() (uint64, error) {
	first, err := r.readByte()
	if err != nil {
		return 0, err
	}

	var (
		mask  byte   = 0x80
		value uint64
	)

	for i := 0; i < 8; i++ {
		if first&mask == 0 {
			return value | uint64(first&(mask-1))<<(8*uint(i)), nil
		}

		next, err := r.readByte()
		if err != nil {
			return 0, err
		}

		value |= uint64(next) << (8 * uint(i))
		mask >>= 1
	}

	return value, nil
}

// readBits packs n booleans, MSB-first within each byte, consuming
// ceil(n/8) bytes.
func (r *byteReader) readBits(n int) ([]bool, error) {
	bits := make([]bool, n)

	var (
		mask  byte
		cache byte
	)

	for i := 0; i < n; i++ {
		if mask == 0 {
			mask = 0x80

			b, err := r.readByte()
			if err != nil {
				return nil, err
			}

			cache = b
		}

		if cache&mask != 0 {
			bits[i] = true
		}

		mask >>= 1
	}

	return bits, nil
}

// readAllOrBits reads a leading "all defined" flag byte; if non-zero every
// index is set, otherwise it delegates to readBits.
func (r *byteReader) readAllOrBits(n int) ([]bool, error) {
	allDefined, err := r.readByte()
	if err != nil {
		return nil, err
	}

	if allDefined != 0 {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = true
		}

		return bits, nil
	}

	return r.readBits(n)
}

func popcount(bits []bool) int {
	n := 0

	for _, b := range bits {
		if b {
			n++
		}
	}

	return n
}
