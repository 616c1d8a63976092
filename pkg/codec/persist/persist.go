// Package persist implements canonical CBOR (de)serialization for the
// temporal core's domain aggregates (Interval, Timeline) and the storage
// core's manifest (caformat.Index), built on pkg/codec/cborcanon.
//
// A Timeline's STN is not serialized directly: MarshalTimeline keeps time
// unit, LOD level, metadata, intervals (sorted by id) and bridges (sorted
// by position), and UnmarshalTimeline rebuilds the network by replaying
// AddInterval/AddBridge in that stored order. Constraints added through
// Timeline.AddConstraint are not part of the snapshot and are not restored.
package persist

import (
	"fmt"
	"sort"

	"github.com/V-Sekai-fire/timeline-store/pkg/codec/cborcanon"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/stn"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/timeline"
)

// MarshalInterval encodes iv as canonical CBOR.
func MarshalInterval(iv interval.Interval) ([]byte, error) {
	return cborcanon.Marshal(iv)
}

// UnmarshalInterval decodes an Interval previously produced by MarshalInterval.
func UnmarshalInterval(data []byte) (interval.Interval, error) {
	var iv interval.Interval
	err := cborcanon.Unmarshal(data, &iv)
	return iv, err
}

// timelineSnapshot is the on-disk shape of a persisted Timeline.
type timelineSnapshot struct {
	TimeUnit  stn.TimeUnit        `cbor:"time_unit"`
	LODLevel  stn.LODLevel        `cbor:"lod_level"`
	Metadata  map[string]any      `cbor:"metadata,omitempty"`
	Intervals []interval.Interval `cbor:"intervals"`
	Bridges   []timeline.Bridge   `cbor:"bridges"`
}

// MarshalTimeline encodes tl as canonical CBOR.
func MarshalTimeline(tl *timeline.Timeline) ([]byte, error) {
	snap := timelineSnapshot{
		TimeUnit: tl.Network.TimeUnit(),
		LODLevel: tl.Network.LODLevel(),
		Metadata: tl.Metadata,
		Bridges:  tl.GetBridges(),
	}
	snap.Intervals = make([]interval.Interval, 0, len(tl.Intervals))
	for _, iv := range tl.Intervals {
		snap.Intervals = append(snap.Intervals, iv)
	}
	sort.Slice(snap.Intervals, func(i, j int) bool {
		return snap.Intervals[i].ID < snap.Intervals[j].ID
	})
	return cborcanon.Marshal(snap)
}

// UnmarshalTimeline decodes a Timeline previously produced by
// MarshalTimeline, rebuilding its STN by replaying every interval and
// bridge add in the snapshot's stored order.
func UnmarshalTimeline(data []byte) (*timeline.Timeline, error) {
	var snap timelineSnapshot
	if err := cborcanon.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	tl := timeline.New(timeline.Options{
		TimeUnit: snap.TimeUnit,
		LODLevel: snap.LODLevel,
		Metadata: snap.Metadata,
	})

	var err error
	for _, iv := range snap.Intervals {
		tl, err = tl.AddInterval(iv)
		if err != nil {
			return nil, fmt.Errorf("persist: replay interval %q: %w", iv.ID, err)
		}
	}
	for _, b := range snap.Bridges {
		tl, err = tl.AddBridge(b)
		if err != nil {
			return nil, fmt.Errorf("persist: replay bridge %q: %w", b.ID, err)
		}
	}
	return tl, nil
}

// MarshalIndex encodes a chunk-table manifest as canonical CBOR, an
// alternative to the binary CAIBX/CAIDX encoding for callers that want a
// self-describing, diffable representation. The
// index's checksum is stamped fresh before encoding, so a manifest loaded
// back with UnmarshalIndex always carries a recorded checksum to verify
// against, the same guarantee Encode/Decode give the binary format.
func MarshalIndex(idx *caformat.Index) ([]byte, error) {
	checksum := idx.Checksum()
	idx.RecordedChecksum = append([]byte(nil), checksum[:]...)
	return cborcanon.Marshal(idx)
}

// UnmarshalIndex decodes a manifest previously produced by MarshalIndex.
func UnmarshalIndex(data []byte) (*caformat.Index, error) {
	var idx caformat.Index
	if err := cborcanon.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}
