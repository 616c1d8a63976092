// Package chunker implements content-defined chunking: a byte stream is cut
// at positions determined by a rolling hash over its content, rather than
// at fixed offsets, so that local edits to the source shift few chunks.
package chunker

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/rollinghash"
)

// Options bounds the chunk sizes the chunker will produce.
type Options struct {
	Min      int
	Avg      int
	Max      int
	Compress bool
}

// DefaultOptions returns the recommended (min, avg, max) = (16 KiB, 64 KiB, 256 KiB).
func DefaultOptions() Options {
	return Options{
		Min: 16 * 1024,
		Avg: 64 * 1024,
		Max: 256 * 1024,
	}
}

// Validate checks min < avg < max and min >= the rolling hash window.
func (o Options) Validate() error {
	if !(o.Min < o.Avg && o.Avg < o.Max) {
		return fmt.Errorf("chunker: options require min < avg < max, got (%d,%d,%d)", o.Min, o.Avg, o.Max)
	}
	if o.Min < rollinghash.Window {
		return fmt.Errorf("chunker: min (%d) must be >= window size (%d)", o.Min, rollinghash.Window)
	}
	return nil
}

// ChunkFile content-defined-chunks the file at path.
func ChunkFile(path string, opts Options) ([]*chunk.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: open %s: %w", path, err)
	}
	defer f.Close()
	return ChunkReader(f, opts)
}

// ChunkReader content-defined-chunks a byte stream, reading short reads
// transparently (the source is assumed to make no buffering guarantees).
func ChunkReader(r io.Reader, opts Options) ([]*chunk.Chunk, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, opts.Max)
	discriminator := rollinghash.Discriminator(opts.Avg)

	var chunks []*chunk.Chunk
	var offset uint64
	eof := false

	for !eof {
		buf := make([]byte, 0, opts.Max)

		// Read min bytes verbatim; no boundary may occur before min.
		for len(buf) < opts.Min {
			b, err := br.ReadByte()
			if err != nil {
				eof = true
				break
			}
			buf = append(buf, b)
		}
		if len(buf) == 0 {
			break
		}

		if len(buf) == opts.Min && !eof {
			// If everything left in the stream still fits within max, the
			// whole remainder belongs in this chunk: per spec, a stream
			// whose total size is <= max produces a single chunk and skips
			// the rolling-hash search entirely. Peek past the current
			// chunk's remaining budget without consuming; a short peek
			// means the stream ends within that budget.
			remaining := opts.Max - len(buf)
			peeked, peekErr := br.Peek(remaining + 1)
			if peekErr != nil {
				buf = append(buf, peeked...)
				if _, err := br.Discard(len(peeked)); err != nil {
					return nil, fmt.Errorf("chunker: discard: %w", err)
				}
				eof = true
			} else {
				state := rollinghash.NewState()
				for _, b := range buf[len(buf)-rollinghash.Window:] {
					state.Push(b)
				}

				for !eof && len(buf) < opts.Max {
					b, err := br.ReadByte()
					if err != nil {
						eof = true
						break
					}
					buf = append(buf, b)
					h, primed := state.Push(b)
					if primed && rollinghash.IsBoundary(h, discriminator) {
						break
					}
				}
			}
		}

		chunks = append(chunks, chunk.New(buf, offset, opts.Compress))
		offset += uint64(len(buf))
	}

	return chunks, nil
}
