package stn

import "context"

// Solve runs all-pairs propagation to the fixed point and returns the
// minimal network. It is an alias for ApplyPC2.
func (s *STN) Solve() (*STN, error) {
	return s.ApplyPC2()
}

// ApplyPC2 runs Floyd-Warshall over the bound matrix to the fixed point.
// PC-2 is idempotent: Solve(Solve(S)) == Solve(S).
func (s *STN) ApplyPC2() (*STN, error) {
	return s.SolveContext(context.Background())
}

// SolveContext is ApplyPC2 with cancellation: the outer triple-loop checks
// ctx at each k iteration and returns Err(Cancelled) at the next natural
// boundary.
func (s *STN) SolveContext(ctx context.Context) (*STN, error) {
	out := s.clone()
	n := len(out.points)

	for k := 0; k < n; k++ {
		select {
		case <-ctx.Done():
			return nil, ErrCancelled()
		default:
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				viaHigh := addSaturating(out.high[i][k], out.high[k][j])
				if viaHigh < out.high[i][j] {
					out.high[i][j] = viaHigh
				}
				viaLow := addSaturating(out.low[i][k], out.low[k][j])
				if viaLow > out.low[i][j] {
					out.low[i][j] = viaLow
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		if out.low[i][i] > 0 {
			return nil, ErrUnsatisfiable("negative cycle detected at " + out.points[i])
		}
		for j := 0; j < n; j++ {
			if out.low[i][j] > out.high[i][j] {
				return nil, ErrUnsatisfiable("empty bound between " + out.points[i] + " and " + out.points[j])
			}
		}
	}

	if out.logger != nil {
		out.logger.Debug("stn: pc2 propagation complete", "points", n)
	}
	return out, nil
}
