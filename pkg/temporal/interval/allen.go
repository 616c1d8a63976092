package interval

import "fmt"

// AllenRelation computes one of Allen's 13 interval relations for the
// ordered pair (a, b). Both intervals must be bounded (fixed_schedule);
// Allen's algebra is defined only over absolute start/end pairs.
func AllenRelation(a, b Interval) (Relation, error) {
	if a.Shape() != FixedSchedule || b.Shape() != FixedSchedule {
		return "", fmt.Errorf("allen relation requires bounded intervals, got shapes %s and %s", a.Shape(), b.Shape())
	}

	s1, e1 := *a.Start, *a.End
	s2, e2 := *b.Start, *b.End

	switch {
	case e1.Before(s2):
		return Before, nil
	case e1.Equal(s2):
		return Meets, nil
	case e2.Before(s1):
		return After, nil
	case e2.Equal(s1):
		return MetBy, nil
	case s1.Equal(s2) && e1.Equal(e2):
		return Equals, nil
	case s1.Equal(s2) && e1.Before(e2):
		return Starts, nil
	case s1.Equal(s2) && e2.Before(e1):
		return StartedBy, nil
	case e1.Equal(e2) && s2.Before(s1):
		return Finishes, nil
	case e1.Equal(e2) && s1.Before(s2):
		return FinishedBy, nil
	case s1.Before(s2) && e2.Before(e1):
		return Contains, nil
	case s2.Before(s1) && e1.Before(e2):
		return During, nil
	case s1.Before(s2) && e1.Before(e2) && s2.Before(e1):
		return Overlaps, nil
	case s2.Before(s1) && e2.Before(e1) && s1.Before(e2):
		return OverlappedBy, nil
	default:
		return "", fmt.Errorf("unresolvable allen relation for (%v,%v) vs (%v,%v)", s1, e1, s2, e2)
	}
}

// IntervalsOverlap reports whether the open intersection of a and b is
// non-empty. Adjacent intervals (touching at a single instant) do not overlap.
func IntervalsOverlap(a, b Interval) (bool, error) {
	rel, err := AllenRelation(a, b)
	if err != nil {
		return false, err
	}
	switch rel {
	case Overlaps, OverlappedBy, Contains, During, Starts, StartedBy, Finishes, FinishedBy, Equals:
		return true, nil
	default:
		return false, nil
	}
}
