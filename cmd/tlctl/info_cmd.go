package main

import (
	"fmt"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
)

// InfoCmd prints an index's metadata: format, chunk count, chunk-size
// parameters, checksum, and the last table item's offset as an approximate
// size (the start of the final chunk, so the final chunk's own length is
// not included).
type InfoCmd struct {
	IndexPath string `arg:"" help:"Path to a CAIBX/CAIDX index." type:"existingfile"`
}

func (c *InfoCmd) Run(ctx *Context) error {
	raw, err := os.ReadFile(c.IndexPath)
	if err != nil {
		return err
	}
	idx, err := caformat.Decode(raw)
	if err != nil {
		return err
	}

	formatName := "caibx"
	if idx.Format == caformat.CAIDX {
		formatName = "caidx"
	}

	var totalSize uint64
	if len(idx.Items) > 0 {
		totalSize = idx.Items[len(idx.Items)-1].Offset
	}

	fmt.Printf("format:       %s\n", formatName)
	fmt.Printf("chunk count:  %d\n", len(idx.Items))
	fmt.Printf("chunk sizes:  min=%d avg=%d max=%d\n", idx.ChunkSizeMin, idx.ChunkSizeAvg, idx.ChunkSizeMax)
	fmt.Printf("checksum:     %x\n", idx.Checksum())
	fmt.Printf("approx size:  %d bytes (from last item offset)\n", totalSize)
	return nil
}
