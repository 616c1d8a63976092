// Package chunk implements the content-addressed chunk: identity derived
// from SHA-512/256, an independent SHA-256 checksum, and optional zstd
// compression that falls back silently to storing raw bytes.
package chunk

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/V-Sekai-fire/timeline-store/pkg/codec/cborcanon"
)

// IDSize is the length in bytes of a chunk identifier (first 32 bytes of
// SHA-512, i.e. SHA-512/256).
const IDSize = 32

// ID is a chunk's content identifier.
type ID [IDSize]byte

// String returns the lower-case hex encoding of id.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalCBOR encodes id as a CBOR byte string, independent of how the
// cbor library would otherwise treat a fixed-size byte array.
func (id ID) MarshalCBOR() ([]byte, error) {
	return cborcanon.Marshal(id[:])
}

// UnmarshalCBOR decodes id from a CBOR byte string.
func (id *ID) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cborcanon.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != IDSize {
		return fmt.Errorf("chunk: cbor id has %d bytes, want %d", len(raw), IDSize)
	}
	copy(id[:], raw)
	return nil
}

// ParseID decodes a hex-encoded chunk id.
func ParseID(s string) (ID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("chunk: invalid id %q: %w", s, err)
	}
	if len(raw) != IDSize {
		return ID{}, fmt.Errorf("chunk: id %q has %d bytes, want %d", s, len(raw), IDSize)
	}
	var out ID
	copy(out[:], raw)
	return out, nil
}

// Checksum is an independent integrity checksum, SHA-256 of the chunk's
// uncompressed bytes.
type Checksum [sha256.Size]byte

// String returns the lower-case hex encoding of c.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalCBOR encodes c as a CBOR byte string.
func (c Checksum) MarshalCBOR() ([]byte, error) {
	return cborcanon.Marshal(c[:])
}

// UnmarshalCBOR decodes c from a CBOR byte string.
func (c *Checksum) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cborcanon.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != sha256.Size {
		return fmt.Errorf("chunk: cbor checksum has %d bytes, want %d", len(raw), sha256.Size)
	}
	copy(c[:], raw)
	return nil
}

// CompressionKind identifies the codec used for a chunk's stored payload.
type CompressionKind uint32

const (
	CompressionNone CompressionKind = 0
	CompressionZstd CompressionKind = 1
)

// Chunk is one content-addressed unit produced by the chunker.
type Chunk struct {
	ID          ID
	Checksum    Checksum
	Size        uint64
	Offset      uint64
	Data        []byte
	Compressed  []byte
	Compression CompressionKind
}

// ComputeID returns the SHA-512/256 identity of data: the first 32 bytes of
// a full SHA-512 digest.
func ComputeID(data []byte) ID {
	full := sha512.Sum512(data)
	var out ID
	copy(out[:], full[:IDSize])
	return out
}

// ComputeChecksum returns the SHA-256 checksum of data.
func ComputeChecksum(data []byte) Checksum {
	return sha256.Sum256(data)
}

var encoder *zstd.Encoder

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err == nil {
		encoder = enc
	}
}

// New builds a Chunk from raw data at the given source offset. When
// compress is true and zstd is available, Compressed holds the zstd
// payload and Compression is CompressionZstd; otherwise Compressed is the
// data slice itself (not a copy) and Compression is CompressionNone. Data
// always holds the uncompressed bytes.
func New(data []byte, offset uint64, compress bool) *Chunk {
	c := &Chunk{
		ID:       ComputeID(data),
		Checksum: ComputeChecksum(data),
		Size:     uint64(len(data)),
		Offset:   offset,
		Data:     data,
	}

	if compress && encoder != nil {
		c.Compressed = encoder.EncodeAll(data, nil)
		c.Compression = CompressionZstd
		return c
	}

	c.Compressed = data
	c.Compression = CompressionNone
	return c
}

// Decompress returns c's uncompressed bytes, decoding Compressed when
// Data is not already populated (the case after loading from a store).
func (c *Chunk) Decompress() ([]byte, error) {
	if c.Data != nil {
		return c.Data, nil
	}
	switch c.Compression {
	case CompressionNone:
		return c.Compressed, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("chunk: zstd reader: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(c.Compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("chunk: zstd decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("chunk: unknown compression kind %d", c.Compression)
	}
}

// Verify recomputes id/checksum/size from c's decompressed data and
// confirms they match the chunk's declared values.
func Verify(c *Chunk) error {
	data, err := c.Decompress()
	if err != nil {
		return err
	}
	if uint64(len(data)) != c.Size {
		return ErrSizeMismatch(c.ID.String())
	}
	if ComputeID(data) != c.ID {
		return ErrIDMismatch(c.ID.String())
	}
	if ComputeChecksum(data) != c.Checksum {
		return ErrChecksumMismatch(c.ID.String())
	}
	return nil
}
