// Package montecarlo implements spec.md §4.2: a grid search over candidate
// allocations, each scored by forwardmodel's Monte-Carlo variant, run
// concurrently across a worker pool via golang.org/x/sync/errgroup.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/forwardmodel"
	"budget-allocator-api/internal/core/model"
)

// Result is the Grid Optimizer's output (§4.2 Outputs).
type Result struct {
	Algorithm        model.AlgorithmResult
	Percentiles      model.MCPercentiles
	TopAllocations   []model.Allocation
	ChannelIntervals channel.Map[model.Interval]
	OverConstrained  bool
}

// candidate is one grid point plus its MC score.
type candidate struct {
	alloc model.Allocation
	pct   model.MCPercentiles
	det   float64
}

// Run enumerates the share grid at the configured step, filters by
// min/maxPct, scores every surviving candidate concurrently, and returns the
// best allocation plus the top-K runners-up (§4.2). If ctx is cancelled
// before every candidate finishes scoring, Run returns ctx.Err() rather than
// a Result built from the partially-scored (and therefore zero-valued)
// slots, so no partially-computed allocation is ever exposed as a result
// (spec.md §5). progress, if non-nil, is called as each candidate finishes
// scoring with fractional completion; it must be safe for concurrent use.
func Run(ctx context.Context, budget float64, priors model.ChannelPriors, assumptions model.Assumptions, opts model.Options, progress model.ProgressFunc) (Result, error) {
	opts = opts.WithDefaults()
	grid := enumerateGrid(opts.GridStep, assumptions)

	overConstrained := false
	if len(grid) == 0 {
		overConstrained = true
		grid = []model.Allocation{project(assumptions)}
	}

	scored, err := scoreConcurrently(ctx, budget, priors, assumptions, opts, grid, progress)
	if err != nil {
		return Result{}, err
	}

	better := func(a, b candidate) bool {
		if a.pct.P50 != b.pct.P50 {
			if assumptions.Goal == model.GoalCAC {
				return a.pct.P50 < b.pct.P50
			}
			return a.pct.P50 > b.pct.P50
		}
		if a.det != b.det {
			if assumptions.Goal == model.GoalCAC {
				return a.det < b.det
			}
			return a.det > b.det
		}
		return lexLess(a.alloc, b.alloc)
	}

	sort.Slice(scored, func(i, j int) bool { return better(scored[i], scored[j]) })

	k := 5
	if k > len(scored) {
		k = len(scored)
	}
	top := scored[:k]

	best := top[0]
	topAllocs := make([]model.Allocation, len(top))
	for i, c := range top {
		topAllocs[i] = c.alloc
	}

	intervals := channel.NewMap(func(c channel.Channel) model.Interval {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, t := range top {
			v := t.alloc[c]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return model.Interval{Lo: lo, Hi: hi}
	})

	confidence := 0.6
	if overConstrained {
		confidence = 0.3
	}

	return Result{
		Algorithm: model.AlgorithmResult{
			Name:        "monteCarloGrid",
			Allocation:  model.Sanitize(best.alloc),
			Confidence:  confidence,
			Performance: model.SanitizeScalar(best.pct.P50),
		},
		Percentiles:      best.pct,
		TopAllocations:   topAllocs,
		ChannelIntervals: intervals,
		OverConstrained:  overConstrained,
	}, nil
}

func scoreConcurrently(ctx context.Context, budget float64, priors model.ChannelPriors, assumptions model.Assumptions, opts model.Options, grid []model.Allocation, progress model.ProgressFunc) ([]candidate, error) {
	scored := make([]candidate, len(grid))
	g, gctx := errgroup.WithContext(ctx)
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var completed atomic.Int64
	total := len(grid)

	for i, alloc := range grid {
		i, alloc := i, alloc
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			det, _ := forwardmodel.Deterministic(budget, alloc, priors, assumptions)
			pct := forwardmodel.MonteCarlo(budget, alloc, priors, assumptions, opts.MCSamples, opts.Seed)
			scored[i] = candidate{alloc: alloc, pct: pct, det: det}
			if progress != nil {
				n := completed.Add(1)
				progress(float64(n)/float64(total), fmt.Sprintf("scored %d/%d grid candidates", n, total))
			}
			return nil
		})
	}
	// A cancelled context aborts the whole batch rather than degrading to
	// "best effort": goroutines skipped via gctx.Done() leave their scored[i]
	// slot as a zero-value candidate{} (nil alloc, det 0), which must never
	// compete in the caller's ranking or be returned as a real result (§5 "no
	// partial allocation is exposed as the final result").
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// enumerateGrid lists every 4-tuple on the step-h share grid that sums to 1
// and satisfies min/maxPct (§4.2 Candidate generation).
func enumerateGrid(h float64, assumptions model.Assumptions) []model.Allocation {
	steps := int(math.Round(1/h)) + 1
	var out []model.Allocation

	cs := channel.All
	for a := 0; a < steps; a++ {
		va := round(float64(a) * h)
		for b := 0; b < steps; b++ {
			vb := round(float64(b) * h)
			if va+vb > 1+1e-9 {
				continue
			}
			for c := 0; c < steps; c++ {
				vc := round(float64(c) * h)
				if va+vb+vc > 1+1e-9 {
					continue
				}
				vd := round(1 - va - vb - vc)
				if vd < -1e-9 || vd > 1+1e-9 {
					continue
				}
				if vd < 0 {
					vd = 0
				}
				alloc := model.Allocation{cs[0]: va, cs[1]: vb, cs[2]: vc, cs[3]: vd}
				if !satisfiesConstraints(alloc, assumptions) {
					continue
				}
				out = append(out, alloc)
			}
		}
	}
	return out
}

func satisfiesConstraints(alloc model.Allocation, assumptions model.Assumptions) bool {
	const tol = 1e-6
	for _, c := range channel.All {
		v := alloc[c]
		if v < assumptions.MinFor(c)-tol || v > assumptions.MaxFor(c)+tol {
			return false
		}
	}
	return true
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// lexLess breaks exact ties by the fixed lexicographic channel order (§4.2).
func lexLess(a, b model.Allocation) bool {
	for _, c := range channel.All {
		if a[c] != b[c] {
			return a[c] < b[c]
		}
	}
	return false
}

// project produces the closest feasible allocation when the grid yields no
// candidate, by clamping to [min,max] and redistributing the remainder
// (§4.2 Failure semantics; reused by the gradient optimizer's projection).
func project(assumptions model.Assumptions) model.Allocation {
	alloc := channel.NewMap(func(c channel.Channel) float64 { return assumptions.MinFor(c) })
	return Redistribute(alloc, assumptions)
}

// Redistribute clips alloc into [minPct,maxPct] and iteratively pushes any
// excess above a channel's max to channels with headroom, capping at 10
// inner iterations, then renormalizes (§4.3 Update rule steps 1-3). Exported
// so the gradient optimizer can reuse the identical projection logic.
func Redistribute(alloc model.Allocation, assumptions model.Assumptions) model.Allocation {
	out := channel.NewMap(func(c channel.Channel) float64 {
		return model.Clamp(alloc[c], assumptions.MinFor(c), assumptions.MaxFor(c))
	})

	for iter := 0; iter < 10; iter++ {
		excess := 0.0
		headroomTotal := 0.0
		headroom := channel.NewMap(func(c channel.Channel) float64 { return 0 })
		for _, c := range channel.All {
			max := assumptions.MaxFor(c)
			if out[c] > max {
				excess += out[c] - max
				out[c] = max
			}
			hr := max - out[c]
			if hr > 0 {
				headroom[c] = hr
				headroomTotal += hr
			}
		}
		if excess <= 1e-9 || headroomTotal <= 0 {
			break
		}
		for _, c := range channel.All {
			if headroom[c] > 0 {
				out[c] += excess * (headroom[c] / headroomTotal)
			}
		}
	}

	return model.Normalize(out)
}
