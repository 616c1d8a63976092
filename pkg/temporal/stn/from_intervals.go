package stn

import (
	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
)

// FromDatetimeIntervalsOptions configures FromDatetimeIntervals.
type FromDatetimeIntervalsOptions struct {
	TimeUnit            TimeUnit
	LODLevel            LODLevel
	AutoRescale         bool
	ConstantWorkEnabled bool
	MaxTimepoints       uint32
}

// FromDatetimeIntervals builds an STN over each interval's start/end
// endpoint pair. The start->end edge is (d,d) when the interval's duration d
// in the STN's unit is known and positive, and (0,+inf) otherwise; either
// way it encodes start <= end.
func FromDatetimeIntervals(intervals []interval.Interval, opts FromDatetimeIntervalsOptions) (*STN, error) {
	out := New(Options{
		TimeUnit:            opts.TimeUnit,
		LODLevel:            opts.LODLevel,
		AutoRescale:         opts.AutoRescale,
		ConstantWorkEnabled: opts.ConstantWorkEnabled,
		MaxTimepoints:       opts.MaxTimepoints,
	})

	unit := interval.TimeUnit(out.timeUnit)
	var err error
	for _, iv := range intervals {
		startPoint, endPoint, durationInUnit := interval.ToSTNPoints(iv, unit)

		out, err = out.AddPoint(startPoint)
		if err != nil {
			return nil, err
		}
		out, err = out.AddPoint(endPoint)
		if err != nil {
			return nil, err
		}

		bound := Bound{Low: 0, High: PosInf}
		if durationInUnit > 0 {
			bound = Bound{Low: durationInUnit, High: durationInUnit}
		}
		out, err = out.AddConstraint(startPoint, endPoint, bound)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
