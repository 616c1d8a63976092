package chunkstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
)

// FilesystemStore persists chunks as CACNK files under root, named by their
// hex-encoded id in a two-level prefixed directory tree:
// <root>/<first 2 hex>/<next 2 hex>/<full 64 hex>.cacnk.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore returns a store rooted at root, creating the directory
// if it does not exist.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("chunkstore: create root %s: %w", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) path(id chunk.ID) string {
	hexID := id.String()
	return filepath.Join(s.root, hexID[0:2], hexID[2:4], hexID+".cacnk")
}

// Put writes c as a CACNK file, using a temp-file-then-rename sequence so a
// concurrent put of the same id (content-addressed, therefore identical
// bytes) is idempotent and readers never observe a partial file.
func (s *FilesystemStore) Put(c *chunk.Chunk) error {
	dest := s.path(c.ID)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("chunkstore: mkdir for %s: %w", c.ID, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*.cacnk")
	if err != nil {
		return fmt.Errorf("chunkstore: create temp file for %s: %w", c.ID, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(caformat.EncodeCACNK(c)); err != nil {
		tmp.Close()
		return fmt.Errorf("chunkstore: write %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("chunkstore: close temp file for %s: %w", c.ID, err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("chunkstore: rename into place for %s: %w", c.ID, err)
	}
	return nil
}

// Get reads and decodes the CACNK file for id, recomputing id and checksum
// from the decompressed payload rather than trusting any stored value. A
// decode failure, a decompression failure, or a recomputed id mismatch all
// surface as ErrCorrupt, never as a silent bad byte return.
func (s *FilesystemStore) Get(id chunk.ID) (*chunk.Chunk, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrNotFound{ID: id}
		}
		return nil, fmt.Errorf("chunkstore: read %s: %w", id, err)
	}

	raw, err := caformat.DecodeCACNK(id, data)
	if err != nil {
		return nil, &ErrCorrupt{ID: id, Cause: err}
	}

	plain, err := raw.Decompress()
	if err != nil {
		return nil, &ErrCorrupt{ID: id, Cause: err}
	}

	verified := &chunk.Chunk{
		ID:          chunk.ComputeID(plain),
		Checksum:    chunk.ComputeChecksum(plain),
		Size:        uint64(len(plain)),
		Offset:      0,
		Data:        plain,
		Compressed:  raw.Compressed,
		Compression: raw.Compression,
	}
	if verified.ID != id {
		return nil, &ErrCorrupt{ID: id, Cause: fmt.Errorf("recomputed id %s does not match requested %s", verified.ID, id)}
	}
	return verified, nil
}

// Exists reports whether a CACNK file for id is present, without decoding it.
func (s *FilesystemStore) Exists(id chunk.ID) (bool, error) {
	_, err := os.Stat(s.path(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Delete removes the CACNK file for id, if present.
func (s *FilesystemStore) Delete(id chunk.ID) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("chunkstore: delete %s: %w", id, err)
	}
	return nil
}

// List walks the store's directory tree and returns every chunk id found,
// sorted for deterministic iteration.
func (s *FilesystemStore) List() ([]chunk.ID, error) {
	var ids []chunk.ID
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".cacnk") {
			return nil
		}
		hexID := strings.TrimSuffix(filepath.Base(path), ".cacnk")
		id, err := chunk.ParseID(hexID)
		if err != nil {
			return nil
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chunkstore: walk %s: %w", s.root, err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Stats walks the store and reports chunk count and total uncompressed bytes.
func (s *FilesystemStore) Stats() (Stats, error) {
	ids, err := s.List()
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	st.ChunkCount = uint64(len(ids))
	for _, id := range ids {
		c, err := s.Get(id)
		if err != nil {
			continue
		}
		st.TotalBytes += c.Size
	}
	return st, nil
}
