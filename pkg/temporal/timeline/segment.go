package timeline

import (
	"sort"
	"time"

	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
)

// Segment is a contiguous slice of the timeline between two bridges (or the
// timeline's edges). Segment numbers are 1-indexed in bridge order.
type Segment struct {
	Number       int
	BridgeBefore *time.Time
	BridgeAfter  *time.Time
	Intervals    map[string]interval.Interval
}

// segmentInterval reports whether iv belongs to the segment spanning
// [lower, upper], using interval overlap against the segment's span (an
// interval that touches lower or upper at a single instant counts).
// Intervals without both endpoints (non fixed_schedule shapes) cannot be
// segmented and are skipped.
func segmentInterval(iv interval.Interval, lower, upper *time.Time) bool {
	if iv.Start == nil || iv.End == nil {
		return false
	}
	if lower != nil && iv.End.Before(*lower) {
		return false
	}
	if upper != nil && iv.Start.After(*upper) {
		return false
	}
	return true
}

// SegmentByBridges partitions the timeline's fixed-schedule intervals into
// segments delimited by bridge positions, sorted ascending. Each interval
// is assigned to every segment it overlaps (an interval spanning a bridge
// appears in both neighbouring segments). Segments with no intervals are
// omitted. The segment number and preceding bridge position are reported
// in Segment.Number and Segment.BridgeBefore; the intervals' own metadata
// is left unchanged.
func (tl *Timeline) SegmentByBridges() []Segment {
	positions := tl.BridgePositions()

	bounds := make([]*time.Time, 0, len(positions)+2)
	bounds = append(bounds, nil)
	for i := range positions {
		p := positions[i]
		bounds = append(bounds, &p)
	}
	bounds = append(bounds, nil)

	var ids []string
	for id := range tl.Intervals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var segments []Segment
	for i := 0; i < len(bounds)-1; i++ {
		lower, upper := bounds[i], bounds[i+1]
		matched := make(map[string]interval.Interval)
		for _, id := range ids {
			iv := tl.Intervals[id]
			if segmentInterval(iv, lower, upper) {
				matched[id] = iv
			}
		}
		if len(matched) == 0 {
			continue
		}
		segments = append(segments, Segment{
			Number:       len(segments) + 1,
			BridgeBefore: lower,
			BridgeAfter:  upper,
			Intervals:    matched,
		})
	}
	return segments
}
