package sevenzip

// nid is a single-byte metadata tag identifying the kind of the following
// block in the 7z metadata stream (spec §4.3).
type nid byte

const (
	idEnd nid = iota
	idHeader
	idArchiveProperties
	idAdditionalStreamsInfo
	idMainStreamsInfo
	idFilesInfo
	idPackInfo
	idUnpackInfo
	idSubStreamsInfo
	idSize
	idCrc
	idFolder
	idCodersUnpackSize
	idNumUnpackStream
	idEmptyStream
	idEmptyFile
	idAnti
	idName
	idCtime
	idAtime
	idMtime
	idWinAttributes
	idComment
	idEncodedHeader
	idStartPos
	idDummy
)

var nidNames = [...]string{
	"End", "Header", "ArchiveProperties", "AdditionalStreamsInfo",
	"MainStreamsInfo", "FilesInfo", "PackInfo", "UnpackInfo",
	"SubStreamsInfo", "Size", "Crc", "Folder", "CodersUnpackSize",
	"NumUnpackStream", "EmptyStream", "EmptyFile", "Anti", "Name", "Ctime",
	"Atime", "Mtime", "WinAttributes", "Comment", "EncodedHeader",
	"StartPos", "Dummy",
}

func (n nid) String() string {
	if int(n) < len(nidNames) {
		return nidNames[n]
	}

	return "Unknown"
}

// readNid reads a single NID byte and maps it to its symbolic tag,
// rejecting any byte outside the closed set.
func readNid(r *byteReader) (nid, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}

	if int(b) >= len(nidNames) {
		return 0, &UnknownNidError{Byte: b}
	}

	return nid(b), nil
}
