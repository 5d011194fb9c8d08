package sevenzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNidKnown(t *testing.T) {
	t.Parallel()

	r := newByteReader([]byte{0x05})

	n, err := readNid(r)
	require.NoError(t, err)
	assert.Equal(t, idFilesInfo, n)
	assert.Equal(t, "FilesInfo", n.String())
}

func TestReadNidUnknown(t *testing.T) {
	t.Parallel()

	r := newByteReader([]byte{0x7f})

	_, err := readNid(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownNid)

	var nidErr *UnknownNidError

	require.ErrorAs(t, err, &nidErr)
	assert.Equal(t, byte(0x7f), nidErr.Byte)
}
