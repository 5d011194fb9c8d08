package sevenzip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamsInfoFixture builds a minimal StreamsInfo byte sequence: one pack
// stream of size 20, one folder with a single LZMA2 coder (method id 0x21,
// one dictionary-size property byte) and an unpack size of 100, no
// SubStreamsInfo.
func streamsInfoFixture() []byte {
	return []byte{
		0x06, 0x00, 0x01, 0x09, 0x14, 0x00, // PackInfo
		0x07, 0x0B, 0x01, 0x00, // UnpackInfo, Folder, numFolders=1, external=0
		0x01, 0x21, 0x21, 0x01, 0x00, // folder: 1 coder, flags 0x21, id=0x21, props size 1, props=0x00
		0x0C, 0x64, 0x00, // CodersUnpackSize=100, End (closes UnpackInfo)
		0x00, // End (closes StreamsInfo)
	}
}

func TestReadStreamsInfo(t *testing.T) {
	t.Parallel()

	r := newByteReader(streamsInfoFixture())

	si, err := readStreamsInfo(r)
	require.NoError(t, err)
	require.NotNil(t, si.packInfo)
	require.NotNil(t, si.unpackInfo)

	assert.Equal(t, uint64(0), si.packInfo.position)
	assert.Equal(t, []uint64{20}, si.packInfo.size)

	require.Len(t, si.unpackInfo.folder, 1)

	f := si.unpackInfo.folder[0]
	require.Len(t, f.coder, 1)
	assert.Equal(t, []byte{0x21}, f.coder[0].id)
	assert.Equal(t, []byte{0x00}, f.coder[0].properties)
	assert.Equal(t, []uint64{100}, f.size)
	assert.Equal(t, []uint64{0}, f.packed)
	assert.Equal(t, uint64(100), f.unpackSize())

	// No SubStreamsInfo section: the folder's substream count and size
	// must still default per spec §3, not stay at their zero values.
	assert.Equal(t, uint64(1), f.numUnpackSubstreams)
	require.NotNil(t, si.subStreamsInfo)
	assert.Equal(t, []uint64{100}, si.subStreamsInfo.size)
}

func TestReadStreamsInfoBadTermination(t *testing.T) {
	t.Parallel()

	data := streamsInfoFixture()
	data[len(data)-1] = 0x11 // Name NID where End is expected

	r := newByteReader(data)

	_, err := readStreamsInfo(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadlyTerminated)
}

func TestReadFolderZeroOutputsFails(t *testing.T) {
	t.Parallel()

	// A single non-simple coder declaring zero input and zero output
	// streams violates the total_out >= 1 invariant (spec §3/§4.8).
	r := newByteReader([]byte{
		0x01, // numCoders = 1
		0x10, // flags: idSize=0, bit4 set (non-simple), no attributes
		0x00, // num_in dyn64 = 0
		0x00, // num_out dyn64 = 0
	})

	_, err := readFolder(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFolderTopology)
}

func TestReadSubStreamsInfoCrcGatesOnDefinedBit(t *testing.T) {
	t.Parallel()

	// Two folders, neither with a folder-level CRC, so both need a
	// substream digest slot. Only the first digest's defined bit is set;
	// a parser that unconditionally reads a uint32 per slot would try to
	// read 4 more bytes for the second (undefined) slot, where only the
	// idEnd byte remains, and fail instead of reaching idEnd.
	ui := &unpackInfo{
		folder: []*folder{
			{size: []uint64{50}},
			{size: []uint64{30}},
		},
	}

	r := newByteReader([]byte{
		0x0A,                   // Crc
		0x00,                   // not all defined
		0x80,                   // bits: defined[0]=true, defined[1]=false
		0x11, 0x22, 0x33, 0x44, // crc for slot 0
		0x00, // End
	})

	ssi, err := readSubStreamsInfo(r, ui)
	require.NoError(t, err)
	assert.Equal(t, []uint64{50, 30}, ssi.size)
	assert.Equal(t, []uint32{0x44332211, 0}, ssi.digest)
}
