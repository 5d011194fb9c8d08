package sevenzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDynUint64(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input []byte
		want  uint64
	}{
		"zero":        {[]byte{0x00}, 0},
		"spec vector": {[]byte{0xFA, 0xA0, 0x05, 0x03, 0x07, 0x00, 0x00, 0x01, 0x03}, 2199140894112},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := newByteReader(tt.input)

			got, err := r.readDynUint64()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadDynUint64RoundTrip(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 20, 1 << 40, 1<<64 - 1}

	for _, v := range values {
		encoded := encodeDynUint64(v)

		r := newByteReader(encoded)

		got, err := r.readDynUint64()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

// encodeDynUint64 mirrors the decode side of §4.2 for round-trip testing:
// the shortest unary-prefixed encoding fitting v.
func encodeDynUint64(v uint64) []byte {
	for count := 0; count < 8; count++ {
		bound := uint64(1) << uint(7*count+7)
		if v >= bound {
			continue
		}

		var mask byte

		for i := 0; i < count; i++ {
			mask |= 0x80 >> uint(i)
		}

		first := mask | byte(v>>uint(8*count))
		out := make([]byte, 1+count)
		out[0] = first

		for i := 0; i < count; i++ {
			out[1+i] = byte(v >> uint(8*i))
		}

		return out
	}

	out := make([]byte, 9)
	out[0] = 0xFF

	for i := 0; i < 8; i++ {
		out[1+i] = byte(v >> uint(8*i))
	}

	return out
}

func TestReadAllOrBits(t *testing.T) {
	t.Parallel()

	r := newByteReader([]byte{0x01, 0x00})

	bits, err := r.readAllOrBits(3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, bits)

	r = newByteReader([]byte{0x00, 0x80})

	bits, err = r.readAllOrBits(4)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false}, bits)
}

func TestReadBitsConsumesExactBytes(t *testing.T) {
	t.Parallel()

	data := make([]byte, 10)
	r := newByteReader(data)

	_, err := r.readBits(5)
	require.NoError(t, err)
	assert.Equal(t, 1, r.position())

	_, err = r.readBits(9)
	require.NoError(t, err)
	assert.Equal(t, 1+2, r.position())
}

func TestReadExactPastEndFails(t *testing.T) {
	t.Parallel()

	r := newByteReader([]byte{0x01, 0x02})

	_, err := r.readExact(3)
	assert.ErrorIs(t, err, ErrTruncated)
}
