// Package interval implements typed intervals over absolute timestamps or
// abstract durations, including Allen's 13-relation algebra, as specified
// in the temporal core.
package interval

import "time"

// TimeUnit is a resolution unit shared with the STN engine.
type TimeUnit string

const (
	Microsecond TimeUnit = "microsecond"
	Millisecond TimeUnit = "millisecond"
	Second      TimeUnit = "second"
	Minute      TimeUnit = "minute"
	Hour        TimeUnit = "hour"
	Day         TimeUnit = "day"
)

// unitMicroseconds gives the number of microseconds in one unit.
var unitMicroseconds = map[TimeUnit]int64{
	Microsecond: 1,
	Millisecond: 1_000,
	Second:      1_000_000,
	Minute:      60_000_000,
	Hour:        3_600_000_000,
	Day:         86_400_000_000,
}

// Shape is one of the four temporal patterns an Interval can take.
type Shape string

const (
	FixedSchedule    Shape = "fixed_schedule"
	FloatingDuration Shape = "floating_duration"
	OpenEndedStart   Shape = "open_ended_start"
	OpenEndedEnd     Shape = "open_ended_end"
)

// Relation is one of Allen's 13 jointly exhaustive, pairwise disjoint
// interval relations.
type Relation string

const (
	Before       Relation = "before"
	Meets        Relation = "meets"
	Overlaps     Relation = "overlaps"
	FinishedBy   Relation = "finished_by"
	Contains     Relation = "contains"
	Starts       Relation = "starts"
	Equals       Relation = "equals"
	StartedBy    Relation = "started_by"
	During       Relation = "during"
	Finishes     Relation = "finishes"
	OverlappedBy Relation = "overlapped_by"
	MetBy        Relation = "met_by"
	After        Relation = "after"
)

// inverse maps each relation to the relation that holds for the swapped pair.
var inverse = map[Relation]Relation{
	Before:       After,
	After:        Before,
	Meets:        MetBy,
	MetBy:        Meets,
	Overlaps:     OverlappedBy,
	OverlappedBy: Overlaps,
	FinishedBy:   Finishes,
	Finishes:     FinishedBy,
	Contains:     During,
	During:       Contains,
	Starts:       StartedBy,
	StartedBy:    Starts,
	Equals:       Equals,
}

// Inverse returns the relation that holds for the argument pair reversed.
func Inverse(r Relation) Relation {
	return inverse[r]
}

// Interval is an immutable typed interval. Mutating helpers return new
// values; there are no setters.
type Interval struct {
	ID       string         `cbor:"id"`
	Start    *time.Time     `cbor:"start,omitempty"`
	End      *time.Time     `cbor:"end,omitempty"`
	Duration string         `cbor:"duration,omitempty"` // ISO-8601 duration, optional
	AgentID  *string        `cbor:"agent_id,omitempty"`
	EntityID *string        `cbor:"entity_id,omitempty"`
	Metadata map[string]any `cbor:"metadata,omitempty"`

	// ISO8601Start/End/Duration preserve the caller's original textual
	// input so serialised timelines re-deserialise byte-identically where
	// an input string was supplied.
	ISO8601Start    string `cbor:"iso8601_start,omitempty"`
	ISO8601End      string `cbor:"iso8601_end,omitempty"`
	ISO8601Duration string `cbor:"iso8601_duration,omitempty"`
}

// Shape returns the temporal shape derived from which fields are populated.
func (i Interval) Shape() Shape {
	switch {
	case i.Start != nil && i.End != nil:
		return FixedSchedule
	case i.Start == nil && i.End == nil:
		return FloatingDuration
	case i.Start == nil && i.End != nil:
		return OpenEndedStart
	default:
		return OpenEndedEnd
	}
}
