package main

import (
	"fmt"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunker"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunkstore"
)

// ChunkCmd splits a file into content-defined chunks, stores them, and
// writes a CAIBX index alongside.
type ChunkCmd struct {
	File      string `arg:"" help:"File to chunk." type:"existingfile"`
	Store     string `help:"Chunk store directory." default:"./chunks"`
	IndexPath string `help:"Output CAIBX path." default:""`
	Min       int    `help:"Minimum chunk size in bytes." default:"16384"`
	Avg       int    `help:"Average chunk size in bytes." default:"65536"`
	Max       int    `help:"Maximum chunk size in bytes." default:"262144"`
	Compress  bool   `help:"Store chunks zstd-compressed." default:"true"`
}

func (c *ChunkCmd) Run(ctx *Context) error {
	opts := chunker.Options{Min: c.Min, Avg: c.Avg, Max: c.Max, Compress: c.Compress}
	chunks, err := chunker.ChunkFile(c.File, opts)
	if err != nil {
		return err
	}

	store, err := chunkstore.NewFilesystemStore(c.Store)
	if err != nil {
		return err
	}

	idx := &caformat.Index{
		Format:       caformat.CAIBX,
		ChunkSizeMin: uint64(c.Min),
		ChunkSizeAvg: uint64(c.Avg),
		ChunkSizeMax: uint64(c.Max),
	}
	for _, ch := range chunks {
		if err := store.Put(ch); err != nil {
			return err
		}
		idx.Items = append(idx.Items, caformat.TableItem{Offset: ch.Offset, ChunkID: ch.ID})
	}

	encoded, err := caformat.Encode(idx)
	if err != nil {
		return err
	}

	indexPath := c.IndexPath
	if indexPath == "" {
		indexPath = c.File + ".caibx"
	}
	if err := os.WriteFile(indexPath, encoded, 0o644); err != nil {
		return err
	}

	ctx.Logger.Info("chunked file", "file", c.File, "chunks", len(chunks), "index", indexPath)
	fmt.Printf("%d chunks written to %s, index at %s\n", len(chunks), c.Store, indexPath)
	return nil
}
