// Command tlctl is the operational wrapper around the storage core: chunk a
// file, assemble it back, verify an index against a chunk store, inspect a
// file's chunk boundaries, and print an index's metadata.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Exit codes, per the tool's documented exit-code taxonomy.
const (
	ExitOK         = 0
	ExitIOError    = 1
	ExitIntegrity  = 2
	ExitUsageError = 3
)

var cli struct {
	Chunk    ChunkCmd    `cmd:"" help:"Split a file into content-defined chunks and write an index."`
	Assemble AssembleCmd `cmd:"" help:"Reconstruct a file from an index and a chunk store."`
	Verify   VerifyCmd   `cmd:"" help:"Verify an index's chunks are present and intact in a store."`
	Analyze  AnalyzeCmd  `cmd:"" help:"Report the chunk boundaries a file would produce."`
	Info     InfoCmd     `cmd:"" help:"Print an index's metadata."`

	Verbose bool `help:"Enable debug logging." short:"v"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tlctl"),
		kong.Description("Content-defined chunking and index tooling."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := ctx.Run(&Context{Logger: logger}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// Context carries shared dependencies into each subcommand's Run method.
type Context struct {
	Logger *slog.Logger
}
