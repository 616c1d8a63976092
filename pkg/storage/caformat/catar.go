package caformat

import (
	"bytes"
	"encoding/binary"
)

// Known CATAR entry type tags. Unrecognised tags are preserved verbatim so
// encode/decode remains lossless on content this codec does not interpret.
const (
	TagEntry    uint64 = 1
	TagFilename uint64 = 2
	TagSymlink  uint64 = 3
	TagDevice   uint64 = 4
	TagPayload  uint64 = 5
	TagGoodbye  uint64 = 6
)

const catarEntryHeaderSize = 16

// CatarEntry is one generic entry in a CATAR archive: an 8-byte size, an
// 8-byte type tag, and a tag-specific body treated as opaque bytes.
type CatarEntry struct {
	Tag  uint64
	Body []byte
}

// EncodeCatar serialises a sequence of entries to CATAR bytes.
func EncodeCatar(entries []CatarEntry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		var header [catarEntryHeaderSize]byte
		binary.LittleEndian.PutUint64(header[0:8], uint64(catarEntryHeaderSize+len(e.Body)))
		binary.LittleEndian.PutUint64(header[8:16], e.Tag)
		buf.Write(header[:])
		buf.Write(e.Body)
	}
	return buf.Bytes()
}

// DecodeCatar parses a CATAR byte stream into its generic entry sequence.
// Every entry, known or not, round-trips through EncodeCatar unchanged.
func DecodeCatar(data []byte) ([]CatarEntry, error) {
	var entries []CatarEntry
	pos := 0
	for pos < len(data) {
		if len(data)-pos < catarEntryHeaderSize {
			return nil, newErr(KindTruncatedPayload, "entry header truncated")
		}
		size := binary.LittleEndian.Uint64(data[pos : pos+8])
		tag := binary.LittleEndian.Uint64(data[pos+8 : pos+16])
		if size < catarEntryHeaderSize {
			return nil, newErr(KindBadHeader, "entry declares size smaller than its own header")
		}
		bodyLen := int(size) - catarEntryHeaderSize
		if len(data)-pos-catarEntryHeaderSize < bodyLen {
			return nil, newErr(KindTruncatedPayload, "entry body exceeds available bytes")
		}
		body := make([]byte, bodyLen)
		copy(body, data[pos+catarEntryHeaderSize:pos+catarEntryHeaderSize+bodyLen])
		entries = append(entries, CatarEntry{Tag: tag, Body: body})
		pos += int(size)
	}
	return entries, nil
}
