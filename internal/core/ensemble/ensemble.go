// Package ensemble implements spec.md §4.4: outlier detection,
// confidence-weighted fusion of AlgorithmResults, and consensus metrics.
package ensemble

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
)

// vMax is the maximum per-channel variance used to normalize agreement:
// the variance of one one-hot allocation against uniform allocations (§4.4,
// §9 Open Question #2).
const vMax = 0.0625

// Result bundles the fused allocation, consensus metrics, and the warnings
// the combiner itself produced.
type Result struct {
	Fused     model.AlgorithmResult
	Consensus model.ConsensusMetrics
	Outliers  []model.AlgorithmResult
	Warnings  []model.ValidationWarning
}

// Combine fuses results per §4.4. It never fails: fewer than one result
// fuses to a zero-confidence uniform allocation (callers are expected not to
// call it with an empty slice in practice, but it stays total).
func Combine(results []model.AlgorithmResult, outlierThreshold float64) Result {
	if len(results) == 0 {
		return Result{
			Fused: model.AlgorithmResult{
				Name:       "ensemble",
				Allocation: model.Normalize(model.Allocation{}),
			},
		}
	}

	if len(results) == 1 {
		return Result{
			Fused: model.AlgorithmResult{
				Name:        "ensemble",
				Allocation:  results[0].Allocation,
				Confidence:  results[0].Confidence,
				Performance: results[0].Performance,
			},
			Consensus: model.ConsensusMetrics{
				Agreement: 1.0,
				Variance:  channel.NewMap(func(channel.Channel) float64 { return 0 }),
			},
		}
	}

	distances := meanPairwiseDistances(results)

	outlierIdx := map[int]bool{}
	if len(results) > 2 {
		for i, d := range distances {
			if d > outlierThreshold {
				outlierIdx[i] = true
			}
		}
	}

	var warnings []model.ValidationWarning
	manyOutliers := len(outlierIdx) == len(results) && len(results) > 0
	if manyOutliers {
		outlierIdx = map[int]bool{}
		warnings = append(warnings, model.ValidationWarning{
			Type:     "many_outliers",
			Message:  "all algorithms flagged as outliers; falling back to using every result",
			Severity: model.SeverityMedium,
		})
	}

	var retained, outliers []model.AlgorithmResult
	for i, r := range results {
		if outlierIdx[i] {
			outliers = append(outliers, r)
		} else {
			retained = append(retained, r)
		}
	}
	if len(outliers) > 0 {
		warnings = append(warnings, model.ValidationWarning{
			Type:     "outlier_detected",
			Message:  fmt.Sprintf("%d algorithm result(s) excluded as outliers", len(outliers)),
			Severity: model.SeverityMedium,
		})
	}

	outlierCount := tukeyOutlierCount(distances, outlierIdx)

	fused := fuse(retained)
	variance := perChannelVariance(retained)
	agreement := computeAgreement(variance)

	if agreement < 0.5 {
		sev := model.SeverityMedium
		if agreement < 0.3 {
			sev = model.SeverityHigh
		}
		warnings = append(warnings, model.ValidationWarning{
			Type:     "low_consensus",
			Message:  fmt.Sprintf("ensemble agreement is low (%.2f)", agreement),
			Severity: sev,
		})
	}
	for _, c := range channel.All {
		v := variance[c]
		if v > 0.05 {
			sev := model.SeverityMedium
			if v > 0.10 {
				sev = model.SeverityHigh
			}
			cc := c
			warnings = append(warnings, model.ValidationWarning{
				Type:     "high_channel_variance",
				Message:  fmt.Sprintf("%s allocation varies widely across algorithms (variance %.3f)", c, v),
				Severity: sev,
				Channel:  &cc,
			})
		}
	}

	return Result{
		Fused:    fused,
		Outliers: outliers,
		Warnings: warnings,
		Consensus: model.ConsensusMetrics{
			Agreement:    agreement,
			Variance:     variance,
			OutlierCount: outlierCount,
		},
	}
}

// meanPairwiseDistances returns, for each result i, its mean Euclidean
// distance in allocation space to every other result (§4.4 Outlier
// detection).
func meanPairwiseDistances(results []model.AlgorithmResult) []float64 {
	out := make([]float64, len(results))
	for i := range results {
		var sum float64
		var count int
		for j := range results {
			if i == j {
				continue
			}
			sum += euclidean(results[i].Allocation, results[j].Allocation)
			count++
		}
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	return out
}

func euclidean(a, b model.Allocation) float64 {
	var sum float64
	for _, c := range channel.All {
		d := a[c] - b[c]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// tukeyOutlierCount counts, within the retained set's distance values, how
// many exceed Q3 + 1.5*IQR (§4.4). outlierIdx marks results already excluded
// as outliers; their distances are not part of this distribution.
func tukeyOutlierCount(distances []float64, excluded map[int]bool) int {
	var retainedDistances []float64
	for i, d := range distances {
		if !excluded[i] {
			retainedDistances = append(retainedDistances, d)
		}
	}
	if len(retainedDistances) < 4 {
		return 0
	}
	q, err := stats.Quartile(stats.Float64Data(retainedDistances))
	if err != nil {
		return 0
	}
	iqr := q.Q3 - q.Q1
	upper := q.Q3 + 1.5*iqr
	count := 0
	for _, d := range retainedDistances {
		if d > upper {
			count++
		}
	}
	return count
}

// fuse builds the confidence-weighted average allocation and performance
// over the retained (non-outlier) result set (§4.4 Fusion).
func fuse(retained []model.AlgorithmResult) model.AlgorithmResult {
	if len(retained) == 0 {
		return model.AlgorithmResult{Name: "ensemble", Allocation: model.Normalize(model.Allocation{})}
	}

	weights := make([]float64, len(retained))
	var totalWeight float64
	for i, r := range retained {
		w := math.Max(0, r.Confidence)
		weights[i] = w
		totalWeight += w
	}
	if totalWeight == 0 {
		for i := range weights {
			weights[i] = 1
		}
		totalWeight = float64(len(weights))
	}

	fusedAlloc := channel.NewMap(func(c channel.Channel) float64 {
		var sum float64
		for i, r := range retained {
			sum += weights[i] * r.Allocation[c]
		}
		return sum / totalWeight
	})

	var perf float64
	for i, r := range retained {
		perf += weights[i] * r.Performance
	}
	perf /= totalWeight

	return model.AlgorithmResult{
		Name:        "ensemble",
		Allocation:  model.Normalize(fusedAlloc),
		Confidence:  totalWeight / float64(len(retained)),
		Performance: model.SanitizeScalar(perf),
	}
}

// perChannelVariance returns, for every channel, the variance of its share
// across the retained results (§4.4 Consensus metrics).
func perChannelVariance(retained []model.AlgorithmResult) channel.Map[float64] {
	return channel.NewMap(func(c channel.Channel) float64 {
		if len(retained) == 0 {
			return 0
		}
		values := make([]float64, len(retained))
		for i, r := range retained {
			values[i] = r.Allocation[c]
		}
		v, err := stats.Variance(stats.Float64Data(values))
		if err != nil {
			return 0
		}
		return v
	})
}

// computeAgreement implements §4.4's agreement formula: 1 - min(mean
// per-channel variance, vMax)/vMax.
func computeAgreement(variance channel.Map[float64]) float64 {
	var mean float64
	for _, c := range channel.All {
		mean += variance[c]
	}
	mean /= float64(len(channel.All))
	return model.Clamp(1-math.Min(mean, vMax)/vMax, 0, 1)
}
