package main

import (
	"context"
	"fmt"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/assembler"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunkstore"
)

// AssembleCmd reconstructs a file from a CAIBX/CAIDX index and a chunk store.
type AssembleCmd struct {
	IndexPath string `arg:"" help:"Path to a CAIBX/CAIDX index." type:"existingfile"`
	Store     string `help:"Chunk store directory." default:"./chunks"`
	Output    string `arg:"" help:"Output file path."`
	Verify    bool   `help:"Verify each chunk before writing." default:"true"`
}

func (c *AssembleCmd) Run(ctx *Context) error {
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
	src := assembler.NewStoreSource(store)

	out, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	result, err := assembler.Assemble(context.Background(), idx, src, out, assembler.Options{Verify: c.Verify})
	if err != nil {
		return err
	}

	ctx.Logger.Info("assembled file", "index", c.IndexPath, "output", c.Output, "bytes", result.BytesWritten)
	fmt.Printf("wrote %d bytes to %s\n", result.BytesWritten, c.Output)
	return nil
}
