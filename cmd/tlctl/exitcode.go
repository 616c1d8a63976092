package main

import (
	"errors"
	"os"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/assembler"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunkstore"
)

// exitCodeFor maps an error returned by a subcommand's Run method to the
// CLI's documented exit-code taxonomy: 0 success, 1 I/O error, 2 integrity
// failure, 3 usage error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var caErr *caformat.Error
	if errors.As(err, &caErr) {
		return ExitIntegrity
	}
	var chunkErr *chunk.Error
	if errors.As(err, &chunkErr) {
		return ExitIntegrity
	}
	var asmErr *assembler.Error
	if errors.As(err, &asmErr) {
		if asmErr.Kind == assembler.KindSourceError || asmErr.Kind == assembler.KindWriteError {
			return ExitIOError
		}
		return ExitIntegrity
	}
	var corruptErr *chunkstore.ErrCorrupt
	if errors.As(err, &corruptErr) {
		return ExitIntegrity
	}

	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return ExitIOError
	}

	return ExitIOError
}

// UsageError signals a command-line usage mistake distinct from an
// operational failure (bad flag combination, missing required argument).
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }
