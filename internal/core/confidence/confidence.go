// Package confidence implements spec.md §4.5: stability metrics, benchmark
// comparison against industry priors, and the overall/per-channel
// confidence fusion.
package confidence

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
)

const defaultLLMScore = 0.7
const defaultBenchmarkConfidence = 0.7

// Stability computes StabilityMetrics from the raw algorithm results
// (§4.5). An empty slice is a caller error (callers must not invoke the
// scorer with zero results); a single result yields all-ones.
func Stability(results []model.AlgorithmResult) model.StabilityMetrics {
	if len(results) == 1 {
		return model.StabilityMetrics{
			OverallStability: 1,
			ChannelStability: channel.NewMap(func(channel.Channel) float64 { return 1 }),
			ConvergenceScore: 1,
		}
	}

	channelVariance := channel.NewMap(func(c channel.Channel) float64 {
		values := make([]float64, len(results))
		for i, r := range results {
			values[i] = r.Allocation[c]
		}
		v, err := stats.Variance(stats.Float64Data(values))
		if err != nil {
			return 0
		}
		return v
	})

	channelStability := channel.NewMap(func(c channel.Channel) float64 {
		return model.Clamp(1-10*channelVariance[c], 0, 1)
	})

	var meanVariance float64
	for _, c := range channel.All {
		meanVariance += channelVariance[c]
	}
	meanVariance /= float64(len(channel.All))

	perf := make([]float64, len(results))
	for i, r := range results {
		perf[i] = r.Performance
	}
	perfVariance, err := stats.Variance(stats.Float64Data(perf))
	if err != nil {
		perfVariance = 0
	}

	return model.StabilityMetrics{
		OverallStability: model.Clamp(1-10*meanVariance, 0, 1),
		ChannelStability: channelStability,
		ConvergenceScore: model.Clamp(1-0.1*perfVariance, 0, 1),
	}
}

// Benchmark computes a BenchmarkAnalysis comparing the fused allocation to
// the allocation implied by industry-benchmark channel efficiency (§4.5
// Benchmark comparison).
func Benchmark(fused model.Allocation, industry model.ChannelPriors) model.BenchmarkAnalysis {
	score := channel.NewMap(func(c channel.Channel) float64 {
		p := industry[c]
		if p.CPM.Mid() <= 0 {
			return 0
		}
		return p.CTR.Mid() * p.CVR.Mid() / p.CPM.Mid()
	})
	var total float64
	for _, c := range channel.All {
		total += score[c]
	}

	expected := channel.NewMap(func(c channel.Channel) float64 {
		if total <= 0 {
			return 0.25
		}
		return score[c] / total
	})

	deviations := channel.NewMap(func(c channel.Channel) float64 {
		return math.Abs(fused[c] - expected[c])
	})

	var l1 float64
	for _, c := range channel.All {
		l1 += deviations[c]
	}
	deviationScore := math.Min(1, l1/2)

	var warnings []model.ValidationWarning
	for _, c := range channel.All {
		d := deviations[c]
		if d > 0.2 {
			sev := model.SeverityMedium
			if d > 0.3 {
				sev = model.SeverityHigh
			}
			cc := c
			warnings = append(warnings, model.ValidationWarning{
				Type:     "benchmark_deviation",
				Message:  fmt.Sprintf("%s allocation deviates from benchmark-implied share by %.2f", c, d),
				Severity: sev,
				Channel:  &cc,
			})
		}
	}

	return model.BenchmarkAnalysis{
		DeviationScore:    deviationScore,
		ChannelDeviations: deviations,
		Warnings:          warnings,
	}
}

// Weights are the five confidence-fusion weights of §4.5, in the order
// (consensus, stability, benchmark, performance, llm).
type Weights struct {
	Consensus, Stability, Benchmark, Performance, LLM float64
}

func weightsFor(haveLLM bool) Weights {
	if haveLLM {
		return Weights{Consensus: 0.25, Stability: 0.20, Benchmark: 0.20, Performance: 0.15, LLM: 0.20}
	}
	return Weights{Consensus: 0.30, Stability: 0.25, Benchmark: 0.25, Performance: 0.20, LLM: 0}
}

// Score fuses consensus, stability, benchmark and (optional) LLM signals
// into overall + per-channel confidence (§4.5 Overall confidence fusion,
// Per-channel confidence).
func Score(
	consensus model.ConsensusMetrics,
	stability model.StabilityMetrics,
	benchmark *model.BenchmarkAnalysis,
	llmScore *float64,
) model.ConfidenceMetrics {
	w := weightsFor(llmScore != nil)

	llm := defaultLLMScore
	if llmScore != nil {
		llm = *llmScore
	}

	benchConfidence := defaultBenchmarkConfidence
	if benchmark != nil {
		benchConfidence = 1 - benchmark.DeviationScore
	}

	overall := w.Consensus*consensus.Agreement +
		w.Stability*stability.OverallStability +
		w.Benchmark*benchConfidence +
		w.Performance*stability.ConvergenceScore +
		w.LLM*llm

	perChannel := channel.NewMap(func(c channel.Channel) float64 {
		channelDeviation := 0.0
		if benchmark != nil {
			channelDeviation = benchmark.ChannelDeviations[c]
		}
		v := w.Consensus*(1-model.Clamp(5*consensus.Variance[c], 0, 1)) +
			w.Stability*stability.ChannelStability[c] +
			w.Benchmark*(1-model.Clamp(2*channelDeviation, 0, 1)) +
			w.Performance*stability.ConvergenceScore
		return model.Clamp(v, 0, 1)
	})

	return model.ConfidenceMetrics{
		Overall:    model.Clamp(overall, 0, 1),
		PerChannel: perChannel,
		Stability:  stability,
	}
}

// Recommendations emits the small set of human-readable strings described
// in §4.5.
func Recommendations(metrics model.ConfidenceMetrics) []string {
	var recs []string
	if metrics.Overall < 0.5 {
		recs = append(recs, "Overall confidence is low; consider gathering more channel performance data before committing budget.")
	}
	if metrics.Stability.OverallStability < 0.6 {
		recs = append(recs, "Algorithms disagree on the allocation across runs; treat the recommendation as directional rather than final.")
	}
	for _, c := range channel.All {
		if metrics.PerChannel[c] < 0.4 {
			recs = append(recs, fmt.Sprintf("Confidence in the %s allocation is low; validate with a smaller test budget first.", c))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "The recommendation is well-supported by algorithm consensus, stability, and benchmark comparison.")
	}
	return recs
}
