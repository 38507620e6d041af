// Package bayesian implements the pipeline's bayesianOptimization stage
// (spec.md §9 Open Question: "an independent allocation search with
// distinct sampling from the optimizer of §4.2"). Rather than enumerating
// the full share grid, it draws random candidates from a Dirichlet-like
// perturbation centered on the allocation proportional to each channel's
// midpoint conversions-per-dollar,
// re-projects each draw onto the feasible region, and scores it the same
// way the grid optimizer does. It is deliberately not a Gaussian-process
// surrogate model (§9 warns against assuming one).
package bayesian

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/forwardmodel"
	"budget-allocator-api/internal/core/model"
	"budget-allocator-api/internal/core/montecarlo"
)

// Result is this optimizer's output, the same shape the ensemble expects
// from every algorithm.
type Result struct {
	Algorithm   model.AlgorithmResult
	Percentiles model.MCPercentiles
}

const draws = 40
const concentration = 8.0 // higher = candidates cluster tighter around center

// Run draws `draws` Dirichlet-perturbed candidates around the deterministic
// per-channel efficiency center, scores each with the forward model's
// Monte-Carlo variant, and returns the best (ranked by p50, then by the
// deterministic outcome; on a full tie the earlier draw is kept). Cancellation is checked
// at the top of each draw, letting the in-flight draw finish before Run
// returns ctx.Err() (spec.md §5). progress, if non-nil, is called once per
// draw with fractional completion.
func Run(ctx context.Context, budget float64, priors model.ChannelPriors, assumptions model.Assumptions, opts model.Options, progress model.ProgressFunc) (Result, error) {
	opts = opts.WithDefaults()
	rng := newRNG(opts.Seed)

	center := efficiencyCenter(priors)

	type scored struct {
		alloc model.Allocation
		pct   model.MCPercentiles
		det   float64
	}
	best := scored{}
	haveBest := false

	for i := 0; i < draws; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if progress != nil {
			progress(float64(i)/float64(draws), fmt.Sprintf("draw %d/%d", i, draws))
		}

		cand := dirichletAround(center, concentration, rng)
		cand = montecarlo.Redistribute(cand, assumptions)
		det, _ := forwardmodel.Deterministic(budget, cand, priors, assumptions)
		pct := forwardmodel.MonteCarlo(budget, cand, priors, assumptions, opts.MCSamples, opts.Seed)

		s := scored{alloc: cand, pct: pct, det: det}
		if !haveBest || better(s.pct.P50, s.det, best.pct.P50, best.det, assumptions.Goal) {
			best = s
			haveBest = true
		}
	}

	if !haveBest {
		best.alloc = model.Normalize(center)
		best.det, _ = forwardmodel.Deterministic(budget, best.alloc, priors, assumptions)
		best.pct = forwardmodel.MonteCarlo(budget, best.alloc, priors, assumptions, opts.MCSamples, opts.Seed)
	}

	return Result{
		Algorithm: model.AlgorithmResult{
			Name:        "bayesianSampling",
			Allocation:  model.Sanitize(best.alloc),
			Confidence:  0.55,
			Performance: model.SanitizeScalar(best.pct.P50),
		},
		Percentiles: best.pct,
	}, nil
}

func better(p50A, detA, p50B, detB float64, goal model.Goal) bool {
	if p50A != p50B {
		if goal == model.GoalCAC {
			return p50A < p50B
		}
		return p50A > p50B
	}
	if goal == model.GoalCAC {
		return detA < detB
	}
	return detA > detB
}

// efficiencyCenter scores each channel by expected conversions-per-dollar at
// prior midpoints, then normalizes into a starting allocation — the
// "benchmark-style" center the Dirichlet draws perturb around.
func efficiencyCenter(priors model.ChannelPriors) model.Allocation {
	scores := channel.NewMap(func(c channel.Channel) float64 {
		p := priors[c]
		if p.CPM.Mid() <= 0 {
			return 0
		}
		return p.CTR.Mid() * p.CVR.Mid() / p.CPM.Mid()
	})
	total := 0.0
	for _, c := range channel.All {
		total += scores[c]
	}
	if total <= 0 {
		return channel.NewMap(func(channel.Channel) float64 { return 1.0 / float64(len(channel.All)) })
	}
	return channel.NewMap(func(c channel.Channel) float64 { return scores[c] / total })
}

// dirichletAround draws a Dirichlet(alpha) sample with alpha_c =
// concentration*center[c]+1, via independent Gamma draws, so the result is
// a valid probability vector even before renormalization.
func dirichletAround(center model.Allocation, concentration float64, rng *rand.Rand) model.Allocation {
	gammas := channel.NewMap(func(c channel.Channel) float64 {
		alpha := concentration*center[c] + 1
		return sampleGamma(alpha, rng)
	})
	total := 0.0
	for _, c := range channel.All {
		total += gammas[c]
	}
	if total <= 0 {
		return center
	}
	return channel.NewMap(func(c channel.Channel) float64 { return gammas[c] / total })
}

// sampleGamma draws from Gamma(shape, 1) using Marsaglia-Tsang squeeze,
// valid for shape >= 1 (guaranteed here since alpha = concentration*p+1).
func sampleGamma(shape float64, rng *rand.Rand) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed + 1)) // offset from the MC sampler's seed
	}
	return rand.New(rand.NewSource(rand.Int63()))
}
