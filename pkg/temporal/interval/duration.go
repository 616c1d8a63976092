package interval

import (
	"fmt"
	"regexp"
	"strconv"
)

var iso8601DurationPattern = regexp.MustCompile(
	`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISO8601Duration parses an ISO-8601 duration string into microseconds.
// Years are treated as 365 days and months as 30 days, matching the
// "abstract durations" treatment in the STN's time-unit system (there is no
// calendar attached to a floating_duration interval).
func ParseISO8601Duration(s string) (int64, error) {
	m := iso8601DurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "" {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
	}

	var micros int64
	add := func(group string, unitMicros int64) error {
		if group == "" {
			return nil
		}
		v, err := strconv.ParseFloat(group, 64)
		if err != nil {
			return fmt.Errorf("invalid duration component %q: %w", group, err)
		}
		micros += int64(v * float64(unitMicros))
		return nil
	}

	if err := add(m[1], unitMicroseconds[Day]*365); err != nil {
		return 0, err
	}
	if err := add(m[2], unitMicroseconds[Day]*30); err != nil {
		return 0, err
	}
	if err := add(m[3], unitMicroseconds[Day]*7); err != nil {
		return 0, err
	}
	if err := add(m[4], unitMicroseconds[Day]); err != nil {
		return 0, err
	}
	if err := add(m[5], unitMicroseconds[Hour]); err != nil {
		return 0, err
	}
	if err := add(m[6], unitMicroseconds[Minute]); err != nil {
		return 0, err
	}
	if err := add(m[7], unitMicroseconds[Second]); err != nil {
		return 0, err
	}

	return micros, nil
}

// DurationIn returns the interval's length converted to the requested unit.
// Conversion is exact for fixed-schedule intervals and for floating
// intervals with explicit durations; open-ended intervals fail with
// ErrUndefinedDuration.
func (i Interval) DurationIn(unit TimeUnit) (int64, error) {
	unitMicros, ok := unitMicroseconds[unit]
	if !ok {
		return 0, fmt.Errorf("unknown time unit: %q", unit)
	}

	switch i.Shape() {
	case FixedSchedule:
		micros := i.End.Sub(*i.Start).Microseconds()
		return micros / unitMicros, nil
	case FloatingDuration:
		if i.Duration == "" {
			return 0, ErrUndefinedDuration("floating interval has no explicit duration")
		}
		micros, err := ParseISO8601Duration(i.Duration)
		if err != nil {
			return 0, err
		}
		return micros / unitMicros, nil
	default:
		return 0, ErrUndefinedDuration(fmt.Sprintf("%s interval has no defined duration", i.Shape()))
	}
}

// ToSTNPoints projects an interval onto its STN start/end point identifiers
// and its duration expressed in the given unit (0 when undefined).
func ToSTNPoints(i Interval, unit TimeUnit) (startPoint, endPoint string, durationInUnit int64) {
	durationInUnit, _ = i.DurationIn(unit)
	return i.ID + "_start", i.ID + "_end", durationInUnit
}
