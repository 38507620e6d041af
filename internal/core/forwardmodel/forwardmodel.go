// Package forwardmodel implements spec.md §4.1: the deterministic and
// stochastic outcome evaluation given a budget, an allocation and channel
// priors. It is pure and depends on nothing else in internal/core (§2 data
// flow notes "Forward Model is pure and depends on nothing").
package forwardmodel

import (
	"math"
	"math/rand"
	"sort"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
)

const epsilon = 1e-9

// sample is one draw of CPM/CTR/CVR per channel, used by both the
// deterministic (midpoint) and stochastic (uniform) variants.
type sample struct {
	cpm, ctr, cvr channel.Map[float64]
}

func midpointSample(priors model.ChannelPriors) sample {
	return sample{
		cpm: channel.NewMap(func(c channel.Channel) float64 { return priors[c].CPM.Mid() }),
		ctr: channel.NewMap(func(c channel.Channel) float64 { return priors[c].CTR.Mid() }),
		cvr: channel.NewMap(func(c channel.Channel) float64 { return priors[c].CVR.Mid() }),
	}
}

func randomSample(priors model.ChannelPriors, rng *rand.Rand) sample {
	draw := func(iv model.Interval) float64 {
		if iv.Hi <= iv.Lo {
			return iv.Lo
		}
		return iv.Lo + rng.Float64()*(iv.Hi-iv.Lo)
	}
	return sample{
		cpm: channel.NewMap(func(c channel.Channel) float64 { return draw(priors[c].CPM) }),
		ctr: channel.NewMap(func(c channel.Channel) float64 { return draw(priors[c].CTR) }),
		cvr: channel.NewMap(func(c channel.Channel) float64 { return draw(priors[c].CVR) }),
	}
}

// channelConversions returns Cv_c for every channel under the given budget,
// allocation and sample. A channel with CPM == 0 contributes zero
// impressions rather than dividing by zero (§4.1 Numerical policy).
func channelConversions(budget float64, alloc model.Allocation, s sample) channel.Map[float64] {
	return channel.NewMap(func(c channel.Channel) float64 {
		spend := budget * alloc[c]
		cpm := s.cpm[c]
		if cpm <= 0 || math.IsNaN(cpm) || math.IsInf(cpm, 0) {
			return 0
		}
		impressions := 1000 * spend / cpm
		clicks := impressions * safe(s.ctr[c])
		return model.SanitizeScalar(clicks * safe(s.cvr[c]))
	})
}

func safe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func totalConversions(perChannel channel.Map[float64]) float64 {
	var total float64
	for _, c := range channel.All {
		total += perChannel[c]
	}
	return total
}

// Objective maps total conversions to the goal's natural unit (§4.1).
func Objective(goal model.Goal, conversions, budget, avgDealSize float64) float64 {
	switch goal {
	case model.GoalRevenue:
		return conversions * avgDealSize
	case model.GoalCAC:
		return budget / math.Max(conversions, epsilon)
	default: // demos
		return conversions
	}
}

// Deterministic evaluates the forward model once at prior midpoints,
// returning the objective value and per-channel conversions.
func Deterministic(budget float64, alloc model.Allocation, priors model.ChannelPriors, assumptions model.Assumptions) (outcome float64, perChannel channel.Map[float64]) {
	s := midpointSample(priors)
	perChannel = channelConversions(budget, alloc, s)
	conv := totalConversions(perChannel)
	outcome = model.SanitizeScalar(Objective(assumptions.Goal, conv, budget, assumptions.EffectiveAvgDealSize()))
	return outcome, perChannel
}

// MonteCarlo draws n independent samples from the priors and returns the
// p10/p50/p90 percentiles of the resulting objective distribution (§4.1).
// Supplying a seed makes the draw sequence, and hence the returned
// percentiles, reproducible (§5 Determinism; §8 property 5).
func MonteCarlo(budget float64, alloc model.Allocation, priors model.ChannelPriors, assumptions model.Assumptions, n int, seed *int64) model.MCPercentiles {
	if n < 1 {
		n = 1
	}
	rng := newRNG(seed)
	outcomes := make([]float64, n)
	avgDealSize := assumptions.EffectiveAvgDealSize()
	for i := 0; i < n; i++ {
		s := randomSample(priors, rng)
		perChannel := channelConversions(budget, alloc, s)
		conv := totalConversions(perChannel)
		outcomes[i] = model.SanitizeScalar(Objective(assumptions.Goal, conv, budget, avgDealSize))
	}
	sort.Float64s(outcomes)
	return model.MCPercentiles{
		P10: percentile(outcomes, 10),
		P50: percentile(outcomes, 50),
		P90: percentile(outcomes, 90),
	}
}

func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

// percentile performs linear interpolation over a pre-sorted slice at rank
// p/100*(n-1). It is inlined here rather than delegated to
// montanaflynn/stats, whose Percentile uses a different rank convention and
// would re-sort the outcomes the Monte-Carlo loop above already sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
