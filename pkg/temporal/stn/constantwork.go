package stn

import "fmt"

// PadToConstantWork adds uniquely-named dummy points until the point count
// reaches MaxTimepoints, keeping matrix size constant between operations
// when ConstantWorkEnabled is set. Dummy points are never returned by
// Points(); returning one to a caller is a bug, not a recoverable state.
func (s *STN) PadToConstantWork() (*STN, error) {
	if !s.constantWorkEnabled {
		return s, nil
	}

	out := s
	for uint32(len(out.points)) < out.maxTimepoints {
		name := fmt.Sprintf("__dummy_%d__", len(out.points))
		next, err := out.AddPoint(name)
		if err != nil {
			return nil, err
		}
		next.dummies[name] = struct{}{}
		out = next
	}
	return out, nil
}

// Explain returns a human-readable description of the bound between u and
// v, useful for CLI diagnostics. It is not part of the core contract.
func (s *STN) Explain(u, v string) string {
	b, err := s.GetConstraint(u, v)
	if err != nil {
		return fmt.Sprintf("%s -> %s: %v", u, v, err)
	}
	low, high := "-inf", "+inf"
	if b.Low > NegInf {
		low = fmt.Sprintf("%d", b.Low)
	}
	if b.High < PosInf {
		high = fmt.Sprintf("%d", b.High)
	}
	return fmt.Sprintf("%s -> %s: [%s, %s] %s", u, v, low, high, s.timeUnit)
}
