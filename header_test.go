package sevenzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressTooShort(t *testing.T) {
	t.Parallel()

	_, err := decompress([]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestDecompressBadSignature(t *testing.T) {
	t.Parallel()

	_, err := decompress([]byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E,
	})
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestDecompressUnsupportedVersion(t *testing.T) {
	t.Parallel()

	_, err := decompress([]byte{
		0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0x01, 0x04,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})
	require.Error(t, err)

	var versionErr *UnsupportedVersionError

	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, byte(1), versionErr.Major)
	assert.Equal(t, byte(4), versionErr.Minor)
}
