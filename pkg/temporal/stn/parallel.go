package stn

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// unionFind is a minimal disjoint-set structure used to partition points by
// connectivity ahead of ParallelSolve.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// components partitions s's points into connected components, where an
// edge exists between u and v whenever their bound is not Unconstrained.
func (s *STN) components() [][]string {
	n := len(s.points)
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.low[i][j] != NegInf || s.high[i][j] != PosInf {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]string)
	for i, p := range s.points {
		root := uf.find(i)
		groups[root] = append(groups[root], p)
	}

	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

// ParallelSolve partitions points by connectivity, solves each component
// independently on an owned sub-matrix, then re-applies PC-2 once on the
// combined result. Returns Err(Unsatisfiable) if any component is
// inconsistent.
func (s *STN) ParallelSolve(ctx context.Context) (*STN, error) {
	comps := s.components()
	if len(comps) <= 1 {
		return s.SolveContext(ctx)
	}

	subs := make([]*STN, len(comps))
	for i, group := range comps {
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
		subs[i] = sub
	}

	solved := make([]*STN, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			result, err := sub.SolveContext(gctx)
			if err != nil {
				return err
			}
			solved[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := solved[0]
	for _, sub := range solved[1:] {
		var err error
		combined, err = Union(combined, sub)
		if err != nil {
			return nil, err
		}
	}

	return combined.SolveContext(ctx)
}
