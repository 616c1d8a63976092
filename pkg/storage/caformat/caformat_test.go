package caformat

import (
	"bytes"
	"testing"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
)

func sampleIndex() *Index {
	return &Index{
		Format:       CAIBX,
		ChunkSizeMin: 16 * 1024,
		ChunkSizeAvg: 64 * 1024,
		ChunkSizeMax: 256 * 1024,
		Items: []TableItem{
			{Offset: 0, ChunkID: chunk.ComputeID([]byte("chunk one"))},
			{Offset: 9, ChunkID: chunk.ComputeID([]byte("chunk two, longer"))},
		},
	}
}

func TestIndexEncodeDecodeRoundTrip(t *testing.T) {
	idx := sampleIndex()
	encoded, err := Encode(idx)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Format != idx.Format || len(decoded.Items) != len(idx.Items) {
		t.Fatalf("decoded index mismatch: %+v vs %+v", decoded, idx)
	}
	for i := range idx.Items {
		if decoded.Items[i] != idx.Items[i] {
			t.Errorf("item %d mismatch: %+v vs %+v", i, decoded.Items[i], idx.Items[i])
		}
	}

	reencoded, err := Encode(decoded)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("encode->decode->encode is not byte-exact")
	}
}

func TestDecodeRejectsInvalidMagic(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00}, make([]byte, 64)...)
	if _, err := Decode(data); !IsKind(err, KindInvalidMagic) {
		t.Fatalf("expected InvalidMagic, got %v", err)
	}
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	idx := sampleIndex()
	encoded, err := Encode(idx)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	encoded[len(encoded)-1] ^= 0xFF

	if _, err := Decode(encoded); !IsKind(err, KindChecksumMismatch) {
		t.Fatalf("expected ChecksumMismatch, got %v", err)
	}
}

func TestDecodeRejectsTruncatedTable(t *testing.T) {
	idx := sampleIndex()
	encoded, err := Encode(idx)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	truncated := encoded[:len(encoded)-50]
	if _, err := Decode(truncated); err == nil {
		t.Fatalf("expected an error decoding truncated index")
	}
}

func TestCACNKRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	c := chunk.New(data, 0, false)

	encoded := EncodeCACNK(c)
	decoded, err := DecodeCACNK(c.ID, encoded)
	if err != nil {
		t.Fatalf("DecodeCACNK: %v", err)
	}
	if decoded.Size != c.Size || decoded.Compression != c.Compression {
		t.Fatalf("decoded chunk metadata mismatch: %+v vs %+v", decoded, c)
	}
	if !bytes.Equal(decoded.Compressed, c.Compressed) {
		t.Fatalf("decoded payload mismatch")
	}
}

func TestCatarRoundTripPreservesUnknownTags(t *testing.T) {
	entries := []CatarEntry{
		{Tag: TagFilename, Body: []byte("hello.txt")},
		{Tag: 0xFFFF, Body: []byte("unknown-but-preserved")},
		{Tag: TagPayload, Body: bytes.Repeat([]byte{0x42}, 100)},
	}
	encoded := EncodeCatar(entries)
	decoded, err := DecodeCatar(encoded)
	if err != nil {
		t.Fatalf("DecodeCatar: %v", err)
	}
	if len(decoded) != len(entries) {
		t.Fatalf("entry count mismatch: got %d, want %d", len(decoded), len(entries))
	}
	for i := range entries {
		if decoded[i].Tag != entries[i].Tag || !bytes.Equal(decoded[i].Body, entries[i].Body) {
			t.Errorf("entry %d mismatch: %+v vs %+v", i, decoded[i], entries[i])
		}
	}
}
