package main

import (
	"fmt"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunkstore"
)

// VerifyCmd checks that every chunk an index references is present and
// intact in a chunk store, without reconstructing the file.
type VerifyCmd struct {
	IndexPath string `arg:"" help:"Path to a CAIBX/CAIDX index." type:"existingfile"`
	Store     string `help:"Chunk store directory to verify against." default:"./chunks"`
}

func (c *VerifyCmd) Run(ctx *Context) error {
	raw, err := os.ReadFile(c.IndexPath)
	if err != nil {
		return err
	}
	idx, err := caformat.Decode(raw)
	if err != nil {
		return err
	}

	store, err := chunkstore.NewFilesystemStore(c.Store)
	if err != nil {
		return err
	}

	for i, item := range idx.Items {
		got, err := store.Get(item.ChunkID)
		if err != nil {
			return err
		}
		if got.ID != item.ChunkID {
			return fmt.Errorf("chunk %d: store returned id %s, index declares %s", i, got.ID, item.ChunkID)
		}
	}

	ctx.Logger.Info("verified index", "index", c.IndexPath, "chunks", len(idx.Items))
	fmt.Printf("%d chunks verified OK\n", len(idx.Items))
	return nil
}
