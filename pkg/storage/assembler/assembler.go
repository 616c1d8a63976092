// Package assembler reconstructs a file from an index plus a chunk source,
// verifying each chunk in index order before it is written to the output
// sink.
package assembler

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
)

// State is the assembler's lifecycle: Ready -> Writing -> {Done, Failed}.
type State int

const (
	Ready State = iota
	Writing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Writing:
		return "Writing"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Options configures Assemble.
type Options struct {
	Verify      bool
	Concurrency int
}

// DefaultConcurrency bounds how many chunks are prefetched from Source ahead
// of the strictly-ordered write pass.
const DefaultConcurrency = 8

// Result reports the terminal state an assembly run reached.
type Result struct {
	State       State
	BytesWritten uint64
}

// Assemble reconstructs a file from idx and src into out, in index order.
// When opts.Verify is set, each chunk's id/checksum/size are confirmed
// against its declared values before being written; any mismatch moves the
// assembler to Failed and returns a typed, chunk-indexed Error. Seeds and
// reflinks are optimisation hints outside this package's scope: Source
// implementations that want to substitute a copy-on-write link for a
// store fetch do so transparently behind the Source interface.
func Assemble(ctx context.Context, idx *caformat.Index, src Source, out io.Writer, opts Options) (Result, error) {
	state := Ready
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if opts.Verify {
		if err := VerifyIndexChecksum(idx); err != nil {
			return Result{State: Failed}, err
		}
	}

	resolved := make([]*chunk.Chunk, len(idx.Items))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i, item := range idx.Items {
		i, item := i, item
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return newErr(KindCancelled, i, err)
			}
			c, err := src.Chunk(item.ChunkID)
			if err != nil {
				return newErr(KindSourceError, i, err)
			}
			resolved[i] = c
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{State: Failed}, err
	}

	state = Writing
	var written uint64
	for i, item := range idx.Items {
		select {
		case <-ctx.Done():
			return Result{State: Failed, BytesWritten: written}, newErr(KindCancelled, i, ctx.Err())
		default:
		}

		c := resolved[i]
		data, err := c.Decompress()
		if err != nil {
			return Result{State: Failed, BytesWritten: written}, newErr(KindSourceError, i, err)
		}

		if opts.Verify {
			if uint64(len(data)) != c.Size {
				return Result{State: Failed, BytesWritten: written}, newErr(KindSizeMismatch, i, fmt.Errorf("got %d bytes, chunk declares %d", len(data), c.Size))
			}
			if chunk.ComputeID(data) != item.ChunkID {
				return Result{State: Failed, BytesWritten: written}, newErr(KindChunkIDMismatch, i, fmt.Errorf("data does not hash to indexed chunk id %s", item.ChunkID))
			}
			if chunk.ComputeChecksum(data) != c.Checksum {
				return Result{State: Failed, BytesWritten: written}, newErr(KindChecksumMismatch, i, fmt.Errorf("data does not match declared checksum"))
			}
		}

		n, err := out.Write(data)
		if err != nil {
			return Result{State: Failed, BytesWritten: written}, newErr(KindWriteError, i, err)
		}
		written += uint64(n)
	}

	state = Done
	return Result{State: state, BytesWritten: written}, nil
}

// VerifyIndexChecksum confirms idx's recorded checksum - the trailer value
// Decode read back, or whatever a pkg/codec/persist round-trip preserved -
// matches a fresh recomputation over idx.Items. An index with no recorded
// checksum (e.g. one built by hand from a fresh chunk list) has nothing
// independent to compare against and passes trivially.
func VerifyIndexChecksum(idx *caformat.Index) error {
	if err := idx.VerifyRecorded(); err != nil {
		return newErr(KindIndexChecksumMismatch, -1, err)
	}
	return nil
}
