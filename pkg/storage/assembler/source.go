package assembler

import (
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunkstore"
)

// Source resolves a chunk id to its chunk, abstracting over where the bytes
// actually live (an in-memory slice, a chunk store, a seed file).
type Source interface {
	Chunk(id chunk.ID) (*chunk.Chunk, error)
}

// SliceSource resolves chunks from an in-memory collection, the shape used
// right after chunking a file (no store round trip needed).
type SliceSource struct {
	byID map[chunk.ID]*chunk.Chunk
}

// NewSliceSource indexes chunks by id for lookup.
func NewSliceSource(chunks []*chunk.Chunk) *SliceSource {
	byID := make(map[chunk.ID]*chunk.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	return &SliceSource{byID: byID}
}

// Chunk returns the chunk for id.
func (s *SliceSource) Chunk(id chunk.ID) (*chunk.Chunk, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, &chunkstore.ErrNotFound{ID: id}
	}
	return c, nil
}

// StoreSource resolves chunks from a chunkstore.Store.
type StoreSource struct {
	Store chunkstore.Store
}

// NewStoreSource wraps store as a Source.
func NewStoreSource(store chunkstore.Store) *StoreSource {
	return &StoreSource{Store: store}
}

// Chunk fetches id from the underlying store.
func (s *StoreSource) Chunk(id chunk.ID) (*chunk.Chunk, error) {
	return s.Store.Get(id)
}
