package persist

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/V-Sekai-fire/timeline-store/pkg/storage/caformat"
	"github.com/V-Sekai-fire/timeline-store/pkg/storage/chunk"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/timeline"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 1, hour, minute, 0, 0, time.UTC)
}

func TestMarshalUnmarshalInterval(t *testing.T) {
	iv, err := interval.NewFixedSchedule("i1", at(9, 0), at(9, 30))
	if err != nil {
		t.Fatalf("NewFixedSchedule: %v", err)
	}
	iv = iv.WithMetadata(map[string]any{"room": "A"})

	data, err := MarshalInterval(iv)
	if err != nil {
		t.Fatalf("MarshalInterval: %v", err)
	}

	got, err := UnmarshalInterval(data)
	if err != nil {
		t.Fatalf("UnmarshalInterval: %v", err)
	}

	if diff := cmp.Diff(iv, got, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Fatalf("interval round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalIntervalIsDeterministic(t *testing.T) {
	iv, err := interval.NewFixedSchedule("i1", at(9, 0), at(9, 30))
	if err != nil {
		t.Fatalf("NewFixedSchedule: %v", err)
	}

	a, err := MarshalInterval(iv)
	if err != nil {
		t.Fatalf("MarshalInterval: %v", err)
	}
	b, err := MarshalInterval(iv)
	if err != nil {
		t.Fatalf("MarshalInterval: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected identical bytes across encodes, got %x != %x", a, b)
	}
}

func TestMarshalUnmarshalTimeline(t *testing.T) {
	tl := timeline.New(timeline.Options{Metadata: map[string]any{"name": "day-1"}})

	i1, err := interval.NewFixedSchedule("i1", at(10, 0), at(10, 30))
	if err != nil {
		t.Fatalf("NewFixedSchedule: %v", err)
	}
	i2, err := interval.NewFixedSchedule("i2", at(11, 30), at(12, 0))
	if err != nil {
		t.Fatalf("NewFixedSchedule: %v", err)
	}

	tl, err = tl.AddInterval(i1)
	if err != nil {
		t.Fatalf("AddInterval(i1): %v", err)
	}
	tl, err = tl.AddInterval(i2)
	if err != nil {
		t.Fatalf("AddInterval(i2): %v", err)
	}
	tl, err = tl.AddBridge(timeline.Bridge{ID: "b1", Position: at(11, 0), Type: timeline.Decision})
	if err != nil {
		t.Fatalf("AddBridge: %v", err)
	}

	data, err := MarshalTimeline(tl)
	if err != nil {
		t.Fatalf("MarshalTimeline: %v", err)
	}

	got, err := UnmarshalTimeline(data)
	if err != nil {
		t.Fatalf("UnmarshalTimeline: %v", err)
	}

	if diff := cmp.Diff(tl.Intervals, got.Intervals, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Fatalf("timeline intervals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tl.Bridges, got.Bridges, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Fatalf("timeline bridges mismatch (-want +got):\n%s", diff)
	}
	if !got.Consistent() {
		t.Fatalf("expected rebuilt network to be consistent")
	}

	segments := got.SegmentByBridges()
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments after round-trip, got %d", len(segments))
	}
}

func TestMarshalUnmarshalIndex(t *testing.T) {
	idx := &caformat.Index{
		Format:       caformat.CAIBX,
		ChunkSizeMin: 16384,
		ChunkSizeAvg: 65536,
		ChunkSizeMax: 262144,
		Items: []caformat.TableItem{
			{Offset: 100, ChunkID: chunk.ComputeID([]byte("chunk-a"))},
			{Offset: 200, ChunkID: chunk.ComputeID([]byte("chunk-b"))},
		},
	}

	data, err := MarshalIndex(idx)
	if err != nil {
		t.Fatalf("MarshalIndex: %v", err)
	}

	got, err := UnmarshalIndex(data)
	if err != nil {
		t.Fatalf("UnmarshalIndex: %v", err)
	}

	if diff := cmp.Diff(idx, got); diff != "" {
		t.Fatalf("index round-trip mismatch (-want +got):\n%s", diff)
	}
}
