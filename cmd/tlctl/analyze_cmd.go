package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"lukechampine.com/blake3"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunker"
)

// AnalyzeCmd reports the chunk boundaries a file would produce, without
// writing any chunks or index to disk.
type AnalyzeCmd struct {
	File string `arg:"" help:"File to analyze." type:"existingfile"`
	Min  int    `help:"Minimum chunk size in bytes." default:"16384"`
	Avg  int    `help:"Average chunk size in bytes." default:"65536"`
	Max  int    `help:"Maximum chunk size in bytes." default:"262144"`
}

// fastFingerprint computes a BLAKE3 digest of the file in one streaming
// pass, well before the chunker's byte-at-a-time boundary search finishes.
// It has no bearing on chunk identity (chunks are identified by
// SHA-512/256, per the storage core's wire format) -- it exists purely so
// analyze can print a quick "is this the file I think it is" check without
// waiting on the full chunking pass.
func fastFingerprint(path string) (string, time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	start := time.Now()
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), time.Since(start), nil
}

func (c *AnalyzeCmd) Run(ctx *Context) error {
	fingerprint, elapsed, err := fastFingerprint(c.File)
	if err != nil {
		return err
	}
	fmt.Printf("fast fingerprint (blake3): %s (%s)\n", fingerprint, elapsed)

	opts := chunker.Options{Min: c.Min, Avg: c.Avg, Max: c.Max}
	chunks, err := chunker.ChunkFile(c.File, opts)
	if err != nil {
		return err
	}

	var total uint64
	for _, ch := range chunks {
		fmt.Printf("%6d  offset=%-10d size=%-8d id=%s\n", total, ch.Offset, ch.Size, ch.ID)
		total += ch.Size
	}
	fmt.Printf("%d chunks, %d bytes total\n", len(chunks), total)
	return nil
}
