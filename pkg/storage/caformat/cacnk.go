package caformat

import (
	"encoding/binary"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
)

var magicCACNK = [3]byte{0xCA, 0xC4, 0x4E}

const cacnkHeaderSize = 16

// EncodeCACNK serialises a single chunk's stored payload to its byte-exact
// CACNK representation: magic, 16-byte header, then the payload bytes.
func EncodeCACNK(c *chunk.Chunk) []byte {
	out := make([]byte, 0, len(magicCACNK)+cacnkHeaderSize+len(c.Compressed))
	out = append(out, magicCACNK[:]...)

	var header [cacnkHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(c.Compressed)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(c.Size))
	binary.LittleEndian.PutUint32(header[8:12], uint32(c.Compression))
	binary.LittleEndian.PutUint32(header[12:16], 0)
	out = append(out, header[:]...)

	out = append(out, c.Compressed...)
	return out
}

// DecodeCACNK parses a CACNK container into a chunk with Size/Compressed/
// Compression populated from the wire bytes. CACNK carries no stored hash:
// ID is set to the id argument as given, not derived from the payload, and
// Checksum is left zero-valued; both must be recomputed by the caller from
// the decompressed payload (see chunkstore's Get, which is where corruption
// is actually detected).
func DecodeCACNK(id chunk.ID, data []byte) (*chunk.Chunk, error) {
	if len(data) < len(magicCACNK) {
		return nil, newErr(KindInvalidMagic, "input shorter than CACNK magic")
	}
	for i, b := range magicCACNK {
		if data[i] != b {
			return nil, newErr(KindInvalidMagic, "CACNK magic mismatch")
		}
	}
	pos := len(magicCACNK)
	if len(data) < pos+cacnkHeaderSize {
		return nil, newErr(KindBadHeader, "truncated CACNK header")
	}
	compressedSize := binary.LittleEndian.Uint32(data[pos : pos+4])
	uncompressedSize := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
	compression := binary.LittleEndian.Uint32(data[pos+8 : pos+12])
	pos += cacnkHeaderSize

	if len(data) < pos+int(compressedSize) {
		return nil, newErr(KindTruncatedPayload, "declared compressed_size exceeds available bytes")
	}
	payload := make([]byte, compressedSize)
	copy(payload, data[pos:pos+int(compressedSize)])

	c := &chunk.Chunk{
		ID:          id,
		Size:        uint64(uncompressedSize),
		Compressed:  payload,
		Compression: chunk.CompressionKind(compression),
	}
	return c, nil
}
