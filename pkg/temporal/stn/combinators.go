package stn

import "fmt"

// combineMode selects the shared-bound combination rule for merging two STNs
// over overlapping point sets.
type combineMode int

const (
	modeIntersect combineMode = iota
	modeRelax
)

// merge builds the union point set of a and b, combining shared bounds per
// mode. If units/LOD differ and a.autoRescale is set, b is rescaled to a's
// system first; otherwise mismatched units are an error.
func merge(a, b *STN, mode combineMode) (*STN, error) {
	rhs := b
	if a.timeUnit != b.timeUnit || a.lodLevel != b.lodLevel {
		if !a.autoRescale {
			return nil, ErrInconsistentUnits(fmt.Sprintf(
				"cannot combine STN in %s/%s with STN in %s/%s without auto_rescale",
				a.timeUnit, a.lodLevel, b.timeUnit, b.lodLevel))
		}
		rescaled, err := Rescale(b, a.timeUnit, a.lodLevel)
		if err != nil {
			return nil, err
		}
		rhs = rescaled
	}

	out := New(Options{
		TimeUnit:            a.timeUnit,
		LODLevel:            a.lodLevel,
		AutoRescale:         a.autoRescale,
		ConstantWorkEnabled: a.constantWorkEnabled,
		MaxTimepoints:       a.maxTimepoints,
		Logger:              a.logger,
	})

	allPoints := make([]string, 0, len(a.points)+len(rhs.points))
	seen := make(map[string]struct{})
	for _, p := range a.points {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allPoints = append(allPoints, p)
		}
	}
	for _, p := range rhs.points {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			allPoints = append(allPoints, p)
		}
	}

	var err error
	for _, p := range allPoints {
		out, err = out.AddPoint(p)
		if err != nil {
			return nil, err
		}
	}

	// Seed every pairwise bound: start from a's bound (or unconstrained),
	// then fold in b's bound per the combination mode, for every pair
	// where either side defines something tighter than (-inf,+inf).
	for _, u := range allPoints {
		for _, v := range allPoints {
			if u == v {
				continue
			}
			aBound := boundOrUnconstrained(a, u, v)
			bBound := boundOrUnconstrained(rhs, u, v)

			var combined Bound
			switch {
			case hasPoint(a, u) && hasPoint(a, v) && hasPoint(rhs, u) && hasPoint(rhs, v):
				if mode == modeIntersect {
					combined = Intersect(aBound, bBound)
				} else {
					combined = Relax(aBound, bBound)
				}
			case hasPoint(a, u) && hasPoint(a, v):
				combined = aBound
			case hasPoint(rhs, u) && hasPoint(rhs, v):
				combined = bBound
			default:
				combined = Unconstrained
			}

			out, err = out.AddConstraint(u, v, combined)
			if err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func hasPoint(s *STN, p string) bool {
	_, ok := s.index[p]
	return ok
}

func boundOrUnconstrained(s *STN, u, v string) Bound {
	b, err := s.GetConstraint(u, v)
	if err != nil {
		return Unconstrained
	}
	return b
}

// Union combines a and b over the union point set; shared bounds are the
// intersection of the two STNs' bounds (the tightest satisfying both).
func Union(a, b *STN) (*STN, error) {
	return merge(a, b, modeIntersect)
}

// Or combines a and b over the union point set; shared bounds are relaxed
// to (min(lo), max(hi)).
func Or(a, b *STN) (*STN, error) {
	return merge(a, b, modeRelax)
}

// Chain concatenates STNs in order. Points keep their identities; no
// cross-constraints are introduced between the chained networks.
func Chain(networks ...*STN) (*STN, error) {
	if len(networks) == 0 {
		return New(Options{}), nil
	}
	first := networks[0]
	out := New(Options{
		TimeUnit:            first.timeUnit,
		LODLevel:            first.lodLevel,
		AutoRescale:         first.autoRescale,
		ConstantWorkEnabled: first.constantWorkEnabled,
		MaxTimepoints:       first.maxTimepoints,
		Logger:              first.logger,
	})

	for _, net := range networks {
		var err error
		for _, p := range net.points {
			out, err = out.AddPoint(p)
			if err != nil {
				return nil, err
			}
		}
		for _, u := range net.points {
			for _, v := range net.points {
				if u == v {
					continue
				}
				b, berr := net.GetConstraint(u, v)
				if berr != nil {
					return nil, berr
				}
				out, err = out.AddConstraint(u, v, b)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

// Split partitions points into at most k subsets preserving internal
// constraints. Empty parts are omitted.
func Split(s *STN, k int) ([]*STN, error) {
	if k <= 0 {
		return nil, fmt.Errorf("split requires k >= 1, got %d", k)
	}
	points := s.Points()
	if len(points) == 0 {
		return nil, nil
	}
	if k > len(points) {
		k = len(points)
	}

	groups := make([][]string, k)
	for i, p := range points {
		groups[i%k] = append(groups[i%k], p)
	}

	out := make([]*STN, 0, k)
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		sub := New(Options{
			TimeUnit:            s.timeUnit,
			LODLevel:            s.lodLevel,
			AutoRescale:         s.autoRescale,
			ConstantWorkEnabled: s.constantWorkEnabled,
			MaxTimepoints:       s.maxTimepoints,
			Logger:              s.logger,
		})
		var err error
		for _, p := range group {
			sub, err = sub.AddPoint(p)
			if err != nil {
				return nil, err
			}
		}
		for _, u := range group {
			for _, v := range group {
				if u == v {
					continue
				}
				b, berr := s.GetConstraint(u, v)
				if berr != nil {
					return nil, berr
				}
				sub, err = sub.AddConstraint(u, v, b)
				if err != nil {
					return nil, err
				}
			}
		}
		out = append(out, sub)
	}
	return out, nil
}
