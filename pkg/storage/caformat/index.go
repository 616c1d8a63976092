// Package caformat implements the four binary container formats of the
// storage core: CAIBX (blob index), CAIDX (archive index), CATAR (archive),
// and CACNK (compressed chunk file). All four are little-endian,
// fixed-layout, and round-trip byte-for-byte.
package caformat

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
)

// Format distinguishes a blob index from an archive index.
type Format uint8

const (
	CAIBX Format = iota
	CAIDX
)

var (
	magicCAIBX = [3]byte{0xCA, 0x1B, 0x5C}
	magicCAIDX = [3]byte{0xCA, 0x1D, 0x5C}
)

const (
	formatIndexSize  = 48
	formatIndexMagic = 0x1b5cca1b5cca0001
	tableHeaderSize  = 16
	tableHeaderMagic = 0x8b9e1d93d6071c30
	tableItemSize    = 40
	tableTailSize    = 16
	tableTailTag     = 0x4d4d21f7977e5330
	checksumSize     = sha256.Size
)

// TableItem is one entry in an index's chunk table: the chunk's start
// offset in the reconstructed stream, and its content id.
type TableItem struct {
	Offset  uint64   `cbor:"offset"`
	ChunkID chunk.ID `cbor:"chunk_id"`
}

// Index is the in-memory representation of a CAIBX/CAIDX container. Besides
// its binary CAIBX/CAIDX encoding (Encode/Decode below), it also doubles as
// the manifest persisted via pkg/codec/persist: the CBOR form is what a
// caller round-trips through non-binary stores.
type Index struct {
	Format       Format      `cbor:"format"`
	FeatureFlags uint64      `cbor:"feature_flags"`
	ChunkSizeMin uint64      `cbor:"chunk_size_min"`
	ChunkSizeAvg uint64      `cbor:"chunk_size_avg"`
	ChunkSizeMax uint64      `cbor:"chunk_size_max"`
	Items        []TableItem `cbor:"items"`

	// RecordedChecksum is the checksum carried alongside the index rather
	// than recomputed from Items: the CAIBX/CAIDX trailer value recovered
	// by Decode, or whatever a CBOR round-trip through pkg/codec/persist
	// preserved. Empty means no checksum was ever recorded for this
	// in-memory Index (e.g. one built by hand from a fresh chunk list).
	RecordedChecksum []byte `cbor:"checksum,omitempty"`
}

// Checksum returns SHA-256 over the concatenation of the index's chunk ids
// in table order, freshly computed from Items.
func (idx *Index) Checksum() [checksumSize]byte {
	h := sha256.New()
	for _, item := range idx.Items {
		h.Write(item.ChunkID[:])
	}
	var out [checksumSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyRecorded compares idx.RecordedChecksum, if any, against a fresh
// recomputation over idx.Items. It reports nil when no checksum was
// recorded, since there is then nothing independent to compare against;
// callers that require a recorded checksum to be present should check
// len(idx.RecordedChecksum) themselves.
func (idx *Index) VerifyRecorded() error {
	if len(idx.RecordedChecksum) == 0 {
		return nil
	}
	if len(idx.RecordedChecksum) != checksumSize {
		return newErr(KindChecksumMismatch, fmt.Sprintf("recorded checksum has %d bytes, want %d", len(idx.RecordedChecksum), checksumSize))
	}
	computed := idx.Checksum()
	if !bytes.Equal(computed[:], idx.RecordedChecksum) {
		return newErr(KindChecksumMismatch, "recorded checksum does not match table contents")
	}
	return nil
}

// Encode serialises idx to its byte-exact CAIBX/CAIDX representation.
func Encode(idx *Index) ([]byte, error) {
	var buf bytes.Buffer

	magic := magicCAIBX
	if idx.Format == CAIDX {
		magic = magicCAIDX
	}
	buf.Write(magic[:])

	writeU64(&buf, formatIndexSize)
	writeU64(&buf, formatIndexMagic)
	writeU64(&buf, idx.FeatureFlags)
	writeU64(&buf, idx.ChunkSizeMin)
	writeU64(&buf, idx.ChunkSizeAvg)
	writeU64(&buf, idx.ChunkSizeMax)

	writeU64(&buf, uint64(tableHeaderSize+len(idx.Items)*tableItemSize))
	writeU64(&buf, tableHeaderMagic)

	for _, item := range idx.Items {
		writeU64(&buf, item.Offset)
		buf.Write(item.ChunkID[:])
	}

	writeU64(&buf, tableTailSize)
	writeU64(&buf, tableTailTag)

	checksum := idx.Checksum()
	buf.Write(checksum[:])
	idx.RecordedChecksum = append([]byte(nil), checksum[:]...)

	return buf.Bytes(), nil
}

// Decode parses a CAIBX/CAIDX container, rejecting any structural violation
// with a named Error kind.
func Decode(data []byte) (*Index, error) {
	if len(data) < 3 {
		return nil, newErr(KindInvalidMagic, "input shorter than magic header")
	}

	var format Format
	switch {
	case bytes.Equal(data[:3], magicCAIBX[:]):
		format = CAIBX
	case bytes.Equal(data[:3], magicCAIDX[:]):
		format = CAIDX
	default:
		return nil, newErr(KindInvalidMagic, fmt.Sprintf("unrecognised magic % x", data[:3]))
	}

	pos := 3
	if len(data) < pos+formatIndexSize {
		return nil, newErr(KindBadHeader, "truncated format-index block")
	}
	size := readU64(data, pos)
	magicField := readU64(data, pos+8)
	if size != formatIndexSize || magicField != formatIndexMagic {
		return nil, newErr(KindBadHeader, "format-index block size/magic mismatch")
	}
	flags := readU64(data, pos+16)
	min := readU64(data, pos+24)
	avg := readU64(data, pos+32)
	max := readU64(data, pos+40)
	pos += formatIndexSize

	if len(data) < pos+tableHeaderSize {
		return nil, newErr(KindTruncatedTable, "missing table header")
	}
	tableSize := readU64(data, pos)
	tableMagic := readU64(data, pos+8)
	if tableMagic != tableHeaderMagic {
		return nil, newErr(KindBadHeader, "table header magic mismatch")
	}
	if tableSize < tableHeaderSize || (tableSize-tableHeaderSize)%tableItemSize != 0 {
		return nil, newErr(KindTruncatedTable, "table size not a whole number of items")
	}
	itemCount := int((tableSize - tableHeaderSize) / tableItemSize)
	pos += tableHeaderSize

	if len(data) < pos+itemCount*tableItemSize {
		return nil, newErr(KindTruncatedTable, "declared item count exceeds available bytes")
	}
	items := make([]TableItem, itemCount)
	for i := 0; i < itemCount; i++ {
		off := readU64(data, pos)
		var id chunk.ID
		copy(id[:], data[pos+8:pos+8+len(id)])
		items[i] = TableItem{Offset: off, ChunkID: id}
		pos += tableItemSize
	}

	if len(data) < pos+tableTailSize {
		return nil, newErr(KindTruncatedTable, "missing table tail")
	}
	tailSize := readU64(data, pos)
	tailTag := readU64(data, pos+8)
	if tailSize != tableTailSize || tailTag != tableTailTag {
		return nil, newErr(KindBadHeader, "table tail size/tag mismatch")
	}
	pos += tableTailSize

	if len(data) < pos+checksumSize {
		return nil, newErr(KindTruncatedTable, "missing checksum trailer")
	}
	var storedChecksum [checksumSize]byte
	copy(storedChecksum[:], data[pos:pos+checksumSize])

	idx := &Index{
		Format:       format,
		FeatureFlags: flags,
		ChunkSizeMin: min,
		ChunkSizeAvg: avg,
		ChunkSizeMax: max,
		Items:        items,
	}
	if computed := idx.Checksum(); computed != storedChecksum {
		return nil, newErr(KindChecksumMismatch, "stored checksum does not match table contents")
	}
	idx.RecordedChecksum = append([]byte(nil), storedChecksum[:]...)
	return idx, nil
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func readU64(data []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(data[offset : offset+8])
}
