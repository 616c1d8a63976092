// Package timeline implements the user-facing aggregate of the temporal
// core: a set of intervals, a set of bridges, and an owned STN over
// interval endpoints.
package timeline

import (
	"sort"
	"time"

	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/stn"
)

// Options configures a new Timeline.
type Options struct {
	TimeUnit stn.TimeUnit
	LODLevel stn.LODLevel
	Metadata map[string]any
}

// Timeline aggregates intervals, bridges, and metadata over a shared STN.
// Every interval contributes exactly two points to the STN
// ({id}_start, {id}_end). The start->end edge is (d,d) when the interval's
// duration d in the timeline's unit is known and positive, and (0,+inf)
// otherwise; either way it encodes start <= end.
type Timeline struct {
	Intervals map[string]interval.Interval
	Bridges   map[string]Bridge
	Metadata  map[string]any
	Network   *stn.STN

	unit stn.TimeUnit
}

// New creates an empty Timeline.
func New(opts Options) *Timeline {
	unit := opts.TimeUnit
	if unit == "" {
		unit = stn.Second
	}
	return &Timeline{
		Intervals: make(map[string]interval.Interval),
		Bridges:   make(map[string]Bridge),
		Metadata:  opts.Metadata,
		Network:   stn.New(stn.Options{TimeUnit: unit, LODLevel: opts.LODLevel}),
		unit:      unit,
	}
}

// Clone deep-copies the Timeline. The STN itself is copy-on-write internally,
// but the interval/bridge maps are Go reference types that need an explicit
// copy to preserve the "immutable value" invariant across the aggregate.
func (tl *Timeline) Clone() *Timeline {
	out := &Timeline{
		Intervals: make(map[string]interval.Interval, len(tl.Intervals)),
		Bridges:   make(map[string]Bridge, len(tl.Bridges)),
		Metadata:  tl.Metadata,
		Network:   tl.Network,
		unit:      tl.unit,
	}
	for k, v := range tl.Intervals {
		out.Intervals[k] = v
	}
	for k, v := range tl.Bridges {
		out.Bridges[k] = v
	}
	return out
}

// AddInterval adds iv to the timeline, contributing its start/end points
// and start<=end edge to the owned STN.
func (tl *Timeline) AddInterval(iv interval.Interval) (*Timeline, error) {
	out := tl.Clone()
	out.Intervals[iv.ID] = iv

	startPoint, endPoint, durationInUnit := interval.ToSTNPoints(iv, interval.TimeUnit(tl.unit))

	net, err := out.Network.AddPoint(startPoint)
	if err != nil {
		return nil, err
	}
	net, err = net.AddPoint(endPoint)
	if err != nil {
		return nil, err
	}

	bound := stn.Bound{Low: 0, High: stn.PosInf}
	if durationInUnit > 0 {
		bound = stn.Bound{Low: durationInUnit, High: durationInUnit}
	}
	net, err = net.AddConstraint(startPoint, endPoint, bound)
	if err != nil {
		return nil, err
	}

	out.Network = net
	return out, nil
}

// extent returns the timeline's temporal span across all fixed-schedule
// and partially-bounded intervals. ok is false when no interval carries an
// absolute timestamp, meaning extent checks should be skipped.
func (tl *Timeline) extent() (min, max time.Time, ok bool) {
	first := true
	for _, iv := range tl.Intervals {
		for _, t := range []*time.Time{iv.Start, iv.End} {
			if t == nil {
				continue
			}
			if first {
				min, max = *t, *t
				first = false
				continue
			}
			if t.Before(min) {
				min = *t
			}
			if t.After(max) {
				max = *t
			}
		}
	}
	return min, max, !first
}

// endpointPositions returns the set of absolute interval endpoint instants
// currently on the timeline.
func (tl *Timeline) endpointPositions() map[time.Time]struct{} {
	out := make(map[time.Time]struct{})
	for _, iv := range tl.Intervals {
		if iv.Start != nil {
			out[*iv.Start] = struct{}{}
		}
		if iv.End != nil {
			out[*iv.End] = struct{}{}
		}
	}
	return out
}

// AddBridge adds a bridge. It is rejected when a bridge with the same id
// exists, when position falls exactly on an interval endpoint, or when
// outside the timeline's temporal extent.
func (tl *Timeline) AddBridge(b Bridge) (*Timeline, error) {
	if _, exists := tl.Bridges[b.ID]; exists {
		return nil, ErrDuplicateBridge(b.ID)
	}
	if _, onBoundary := tl.endpointPositions()[b.Position]; onBoundary {
		return nil, ErrBridgeAtBoundary(b.ID)
	}
	if min, max, ok := tl.extent(); ok {
		if b.Position.Before(min) || b.Position.After(max) {
			return nil, ErrOutOfExtent(b.ID)
		}
	}

	out := tl.Clone()
	out.Bridges[b.ID] = b
	return out, nil
}

// RemoveBridge removes the named bridge.
func (tl *Timeline) RemoveBridge(id string) (*Timeline, error) {
	if _, exists := tl.Bridges[id]; !exists {
		return nil, ErrBridgeNotFound(id)
	}
	out := tl.Clone()
	delete(out.Bridges, id)
	return out, nil
}

// GetBridge returns the named bridge.
func (tl *Timeline) GetBridge(id string) (Bridge, error) {
	b, exists := tl.Bridges[id]
	if !exists {
		return Bridge{}, ErrBridgeNotFound(id)
	}
	return b, nil
}

// GetBridges returns all bridges sorted by position.
func (tl *Timeline) GetBridges() []Bridge {
	out := make([]Bridge, 0, len(tl.Bridges))
	for _, b := range tl.Bridges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position.Before(out[j].Position)
	})
	return out
}

// UpdateBridge replaces an existing bridge's fields other than its id.
func (tl *Timeline) UpdateBridge(b Bridge) (*Timeline, error) {
	if _, exists := tl.Bridges[b.ID]; !exists {
		return nil, ErrBridgeNotFound(b.ID)
	}
	out := tl.Clone()
	out.Bridges[b.ID] = b
	return out, nil
}

// BridgePositions returns every bridge position, sorted ascending.
func (tl *Timeline) BridgePositions() []time.Time {
	bridges := tl.GetBridges()
	out := make([]time.Time, len(bridges))
	for i, b := range bridges {
		out[i] = b.Position
	}
	return out
}

// BridgesInRange returns bridges whose position falls within [start, end].
func (tl *Timeline) BridgesInRange(start, end time.Time) []Bridge {
	var out []Bridge
	for _, b := range tl.GetBridges() {
		if !b.Position.Before(start) && !b.Position.After(end) {
			out = append(out, b)
		}
	}
	return out
}

// AddConstraint adds a constraint between two STN points on the owned network.
func (tl *Timeline) AddConstraint(u, v string, b stn.Bound) (*Timeline, error) {
	net, err := tl.Network.AddConstraint(u, v, b)
	if err != nil {
		return nil, err
	}
	out := tl.Clone()
	out.Network = net
	return out, nil
}

// Consistent reports whether the owned STN is consistent.
func (tl *Timeline) Consistent() bool {
	return tl.Network.Consistent()
}

// ApplyPC2 propagates the owned STN to its minimal network.
func (tl *Timeline) ApplyPC2() (*Timeline, error) {
	net, err := tl.Network.ApplyPC2()
	if err != nil {
		return nil, err
	}
	out := tl.Clone()
	out.Network = net
	return out, nil
}

// Solve is an alias for ApplyPC2.
func (tl *Timeline) Solve() (*Timeline, error) {
	return tl.ApplyPC2()
}

// Chain concatenates this timeline with others, preserving point identities
// and introducing no cross-constraints between them (delegates to
// stn.Chain for the network; intervals/bridges are unioned by id).
func (tl *Timeline) Chain(others ...*Timeline) (*Timeline, error) {
	nets := make([]*stn.STN, 0, len(others)+1)
	nets = append(nets, tl.Network)
	out := tl.Clone()
	for _, o := range others {
		nets = append(nets, o.Network)
		for id, iv := range o.Intervals {
			out.Intervals[id] = iv
		}
		for id, b := range o.Bridges {
			out.Bridges[id] = b
		}
	}
	chained, err := stn.Chain(nets...)
	if err != nil {
		return nil, err
	}
	out.Network = chained
	return out, nil
}
