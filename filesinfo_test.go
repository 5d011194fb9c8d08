package sevenzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFilesInfoDirectoriesOnly(t *testing.T) {
	t.Parallel()

	data := []byte{
		0x02,                   // numFiles = 2
		0x0E, 0x01, 0xC0,       // EmptyStream, size=1, bits=11000000
		0x11, 0x09, 0x00, // Name, size=9, external=0
		0x61, 0x00, 0x00, 0x00, // "a\0"
		0x62, 0x00, 0x00, 0x00, // "b\0"
		0x00, // End
	}

	r := newByteReader(data)

	files, err := readFilesInfo(r, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a", files[0].Name)
	assert.True(t, files[0].IsDir())
	assert.False(t, files[0].IsAnti())

	assert.Equal(t, "b", files[1].Name)
	assert.True(t, files[1].IsDir())
}

func TestReadFilesInfoTruncatedNamesFails(t *testing.T) {
	t.Parallel()

	data := []byte{
		0x01,             // numFiles = 1
		0x11, 0x02, 0x00, // Name, size=2, external=0
		0x00, // the single payload byte: half a code unit, so an odd-length payload
	}

	r := newByteReader(data)

	_, err := readFilesInfo(r, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFileNames)
}

func TestUtf16LEDecode(t *testing.T) {
	t.Parallel()

	// "hi" in UTF-16LE.
	got, err := utf16LEDecode([]byte{0x68, 0x00, 0x69, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}
