package lzma2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressRequiresOneBytePropertiesBlob(t *testing.T) {
	t.Parallel()

	_, err := Decompress(nil, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientProperties)

	_, err = Decompress([]byte{0x00, 0x00}, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientProperties)
}
