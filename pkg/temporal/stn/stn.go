// Package stn implements a Simple Temporal Network: named time points and
// pairwise bounded-difference constraints, with Floyd-Warshall (PC-2)
// propagation, unit/LOD rescaling, and union/or/chain/split combinators.
package stn

import "log/slog"

// TimeUnit is the STN's time-unit metadata.
type TimeUnit string

const (
	Microsecond TimeUnit = "microsecond"
	Millisecond TimeUnit = "millisecond"
	Second      TimeUnit = "second"
	Minute      TimeUnit = "minute"
	Hour        TimeUnit = "hour"
	Day         TimeUnit = "day"
)

var unitMicroseconds = map[TimeUnit]int64{
	Microsecond: 1,
	Millisecond: 1_000,
	Second:      1_000_000,
	Minute:      60_000_000,
	Hour:        3_600_000_000,
	Day:         86_400_000_000,
}

// LODLevel is the STN's resolution multiplier on top of TimeUnit.
type LODLevel string

const (
	High    LODLevel = "high"
	Medium  LODLevel = "medium"
	Low     LODLevel = "low"
	VeryLow LODLevel = "very_low"
)

// lodMultiplier gives the resolution multiplier, in the STN's time unit,
// for each LOD level.
var lodMultiplier = map[LODLevel]int64{
	High:    10,
	Medium:  100,
	Low:     1000,
	VeryLow: 10000,
}

// Options configures a new STN.
type Options struct {
	TimeUnit            TimeUnit
	LODLevel            LODLevel
	AutoRescale         bool
	ConstantWorkEnabled bool
	MaxTimepoints       uint32
	Logger              *slog.Logger
}

// DefaultMaxTimepoints is used when Options.MaxTimepoints is zero.
const DefaultMaxTimepoints uint32 = 256

// STN is a Simple Temporal Network. Values are treated as immutable: every
// operation returns a new STN rather than mutating the receiver.
type STN struct {
	points  []string
	index   map[string]int
	low     [][]int64
	high    [][]int64
	dummies map[string]struct{}

	timeUnit            TimeUnit
	lodLevel            LODLevel
	autoRescale         bool
	constantWorkEnabled bool
	maxTimepoints       uint32

	logger *slog.Logger
}

// New creates a fresh STN with no points, configured per opts.
func New(opts Options) *STN {
	unit := opts.TimeUnit
	if unit == "" {
		unit = Second
	}
	lod := opts.LODLevel
	if lod == "" {
		lod = High
	}
	maxTP := opts.MaxTimepoints
	if maxTP == 0 {
		maxTP = DefaultMaxTimepoints
	}
	return &STN{
		points:              nil,
		index:               make(map[string]int),
		low:                 nil,
		high:                nil,
		dummies:             make(map[string]struct{}),
		timeUnit:            unit,
		lodLevel:            lod,
		autoRescale:         opts.AutoRescale,
		constantWorkEnabled: opts.ConstantWorkEnabled,
		maxTimepoints:       maxTP,
		logger:              opts.Logger,
	}
}

// Points returns the user-visible points (dummy padding points are never
// returned).
func (s *STN) Points() []string {
	out := make([]string, 0, len(s.points))
	for _, p := range s.points {
		if _, isDummy := s.dummies[p]; isDummy {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TimeUnit returns the STN's time unit.
func (s *STN) TimeUnit() TimeUnit { return s.timeUnit }

// LODLevel returns the STN's level of detail.
func (s *STN) LODLevel() LODLevel { return s.lodLevel }

// clone performs a deep copy, the basis for every "returns a new STN" operation.
func (s *STN) clone() *STN {
	out := &STN{
		points:              append([]string(nil), s.points...),
		index:               make(map[string]int, len(s.index)),
		low:                 make([][]int64, len(s.low)),
		high:                make([][]int64, len(s.high)),
		dummies:             make(map[string]struct{}, len(s.dummies)),
		timeUnit:            s.timeUnit,
		lodLevel:            s.lodLevel,
		autoRescale:         s.autoRescale,
		constantWorkEnabled: s.constantWorkEnabled,
		maxTimepoints:       s.maxTimepoints,
		logger:              s.logger,
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	for i, row := range s.low {
		out.low[i] = append([]int64(nil), row...)
	}
	for i, row := range s.high {
		out.high[i] = append([]int64(nil), row...)
	}
	for k := range s.dummies {
		out.dummies[k] = struct{}{}
	}
	return out
}

// AddPoint adds p to the point set. Idempotent: adding an existing point is
// a no-op. New points get a (0,0) self-loop and (-inf,+inf) to every other
// point.
func (s *STN) AddPoint(p string) (*STN, error) {
	if _, exists := s.index[p]; exists {
		return s, nil
	}
	if uint32(len(s.points)) >= s.maxTimepoints {
		return nil, ErrMaxTimepointsExceeded(s.maxTimepoints)
	}

	out := s.clone()
	n := len(out.points)
	out.index[p] = n
	out.points = append(out.points, p)

	for i := range out.low {
		out.low[i] = append(out.low[i], NegInf)
		out.high[i] = append(out.high[i], PosInf)
	}
	newLowRow := make([]int64, n+1)
	newHighRow := make([]int64, n+1)
	for i := range newLowRow {
		newLowRow[i] = NegInf
		newHighRow[i] = PosInf
	}
	newLowRow[n] = 0
	newHighRow[n] = 0
	out.low = append(out.low, newLowRow)
	out.high = append(out.high, newHighRow)

	if out.logger != nil {
		out.logger.Debug("stn: added point", "point", p, "count", len(out.points))
	}
	return out, nil
}

// pointIndex returns the matrix index for p, or an error if unregistered.
func (s *STN) pointIndex(p string) (int, error) {
	idx, ok := s.index[p]
	if !ok {
		return 0, ErrUnknownPoint(p)
	}
	return idx, nil
}

// GetConstraint returns the current bound between u and v; (-inf,+inf) when
// unconstrained.
func (s *STN) GetConstraint(u, v string) (Bound, error) {
	ui, err := s.pointIndex(u)
	if err != nil {
		return Bound{}, err
	}
	vi, err := s.pointIndex(v)
	if err != nil {
		return Bound{}, err
	}
	return Bound{Low: s.low[ui][vi], High: s.high[ui][vi]}, nil
}

// AddConstraint intersects the existing bound between u and v with (lo,hi),
// symmetrising the reverse edge. Both points must already exist (use
// AddPoint first). Emptying any cell marks the STN inconsistent; this is
// signalled through Consistent(), not by AddConstraint itself returning an
// error — tightening never panics even when it produces an inconsistent
// network, so callers can inspect partial results.
func (s *STN) AddConstraint(u, v string, b Bound) (*STN, error) {
	ui, err := s.pointIndex(u)
	if err != nil {
		return nil, err
	}
	vi, err := s.pointIndex(v)
	if err != nil {
		return nil, err
	}

	out := s.clone()
	current := Bound{Low: out.low[ui][vi], High: out.high[ui][vi]}
	tightened := Intersect(current, b)
	out.low[ui][vi] = tightened.Low
	out.high[ui][vi] = tightened.High

	sym := tightened.Symmetric()
	out.low[vi][ui] = sym.Low
	out.high[vi][ui] = sym.High

	if out.logger != nil {
		out.logger.Debug("stn: tightened constraint", "u", u, "v", v, "low", tightened.Low, "high", tightened.High)
	}
	return out, nil
}

// Consistent reports whether the STN has no empty cell and no negative
// self-loop.
func (s *STN) Consistent() bool {
	for i := range s.points {
		if s.low[i][i] > 0 {
			return false
		}
		for j := range s.points {
			if s.low[i][j] > s.high[i][j] {
				return false
			}
		}
	}
	return true
}
