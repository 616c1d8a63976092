package interval

import "time"

// Spec is the shape-descriptor mapping accepted by New.
type Spec struct {
	ID       string
	Start    *time.Time
	End      *time.Time
	Duration string
	AgentID  *string
	EntityID *string
	Metadata map[string]any

	ISO8601Start    string
	ISO8601End      string
	ISO8601Duration string
}

func truncateMicro(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	truncated := t.Truncate(time.Microsecond)
	return &truncated
}

// New constructs an Interval from a shape descriptor, deriving the temporal
// shape deterministically from which fields are populated. It fails with
// ErrInvalidTemporalSpec when neither a full span, a duration, nor at least
// one endpoint is supplied, or with ErrStartAfterEnd when start > end.
func New(spec Spec) (Interval, error) {
	if spec.Start == nil && spec.End == nil && spec.Duration == "" {
		return Interval{}, ErrInvalidTemporalSpec("at least one of start, end, or duration must be present")
	}
	start := truncateMicro(spec.Start)
	end := truncateMicro(spec.End)
	if start != nil && end != nil && start.After(*end) {
		return Interval{}, ErrStartAfterEnd("start must not be after end")
	}
	return Interval{
		ID:              spec.ID,
		Start:           start,
		End:             end,
		Duration:        spec.Duration,
		AgentID:         spec.AgentID,
		EntityID:        spec.EntityID,
		Metadata:        spec.Metadata,
		ISO8601Start:    spec.ISO8601Start,
		ISO8601End:      spec.ISO8601End,
		ISO8601Duration: spec.ISO8601Duration,
	}, nil
}

// NewFixedSchedule constructs a fixed_schedule interval with both endpoints.
func NewFixedSchedule(id string, start, end time.Time) (Interval, error) {
	return New(Spec{ID: id, Start: &start, End: &end})
}

// NewFloatingDuration constructs a floating_duration interval with only a
// duration.
func NewFloatingDuration(id, iso8601Duration string) (Interval, error) {
	return New(Spec{ID: id, Duration: iso8601Duration, ISO8601Duration: iso8601Duration})
}

// NewOpenEndedStart constructs an open_ended_start interval (end known,
// start unbounded).
func NewOpenEndedStart(id string, end time.Time) (Interval, error) {
	return New(Spec{ID: id, End: &end})
}

// NewOpenEndedEnd constructs an open_ended_end interval (start known, end
// unbounded).
func NewOpenEndedEnd(id string, start time.Time) (Interval, error) {
	return New(Spec{ID: id, Start: &start})
}

// WithMetadata returns a copy of i with the given metadata attached.
func (i Interval) WithMetadata(md map[string]any) Interval {
	out := i
	out.Metadata = md
	return out
}
