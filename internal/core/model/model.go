// Package model holds the data types shared across the optimization core:
// priors, allocations, algorithm results, consensus/stability/benchmark
// metrics, the composite result, and the pipeline stage/run types. See
// SPEC_FULL.md §4 and spec.md §3.
package model

import (
	"math"

	"budget-allocator-api/internal/core/channel"
)

const allocationTolerance = 1e-5

// Interval is a closed numeric interval [Lo, Hi] with 0 <= Lo <= Hi.
type Interval struct {
	Lo float64 `json:"lo" bson:"lo"`
	Hi float64 `json:"hi" bson:"hi"`
}

// Mid returns the interval midpoint.
func (i Interval) Mid() float64 {
	return (i.Lo + i.Hi) / 2
}

// Valid reports whether the interval invariant 0 <= Lo <= Hi holds, rejecting
// NaN/Infinity in either bound.
func (i Interval) Valid() bool {
	if math.IsNaN(i.Lo) || math.IsNaN(i.Hi) || math.IsInf(i.Lo, 0) || math.IsInf(i.Hi, 0) {
		return false
	}
	return i.Lo >= 0 && i.Lo <= i.Hi
}

// Priors is the per-channel uncertainty band for CPM, CTR and CVR.
type Priors struct {
	CPM Interval `json:"cpm" bson:"cpm"`
	CTR Interval `json:"ctr" bson:"ctr"`
	CVR Interval `json:"cvr" bson:"cvr"`
}

// Valid reports whether every interval in the bundle is individually valid,
// and CTR/CVR additionally fall inside [0,1].
func (p Priors) Valid() bool {
	if !p.CPM.Valid() || !p.CTR.Valid() || !p.CVR.Valid() {
		return false
	}
	return p.CTR.Hi <= 1 && p.CVR.Hi <= 1
}

// ChannelPriors maps every fixed channel to its Priors.
type ChannelPriors = channel.Map[Priors]

// Goal is the business objective being optimized.
type Goal string

const (
	GoalDemos   Goal = "demos"
	GoalRevenue Goal = "revenue"
	GoalCAC     Goal = "cac"
)

// DefaultAvgDealSize is used for the revenue objective when Assumptions
// omits AvgDealSize.
const DefaultAvgDealSize = 1000.0

// Assumptions carries the business goal and optional per-channel share
// constraints.
type Assumptions struct {
	Goal         Goal                    `json:"goal" bson:"goal"`
	AvgDealSize  *float64                `json:"avgDealSize,omitempty" bson:"avgDealSize,omitempty"`
	MinPct       channel.Map[float64]    `json:"minPct,omitempty" bson:"minPct,omitempty"`
	MaxPct       channel.Map[float64]    `json:"maxPct,omitempty" bson:"maxPct,omitempty"`
}

// EffectiveAvgDealSize returns AvgDealSize or the documented default.
func (a Assumptions) EffectiveAvgDealSize() float64 {
	if a.AvgDealSize != nil && *a.AvgDealSize > 0 {
		return *a.AvgDealSize
	}
	return DefaultAvgDealSize
}

// MinPctSum returns the sum of all configured minimum shares.
func (a Assumptions) MinPctSum() float64 {
	var sum float64
	for _, v := range a.MinPct {
		sum += v
	}
	return sum
}

// OverConstrained reports whether the minimum shares alone exceed 1, the
// cheapest way to detect the §7 OverConstrained condition before running any
// optimizer.
func (a Assumptions) OverConstrained() bool {
	return a.MinPctSum() > 1+allocationTolerance
}

// MinFor and MaxFor return the configured bound for c, or the unconstrained
// defaults (0 and 1 respectively) when absent.
func (a Assumptions) MinFor(c channel.Channel) float64 {
	if a.MinPct == nil {
		return 0
	}
	if v, ok := a.MinPct[c]; ok {
		return v
	}
	return 0
}

func (a Assumptions) MaxFor(c channel.Channel) float64 {
	if a.MaxPct == nil {
		return 1
	}
	if v, ok := a.MaxPct[c]; ok {
		return v
	}
	return 1
}

// Allocation is a total mapping Channel -> share, normalized to sum to 1.
type Allocation = channel.Map[float64]

// Sum returns the sum of shares across the fixed channel set.
func Sum(a Allocation) float64 {
	var sum float64
	for _, c := range channel.All {
		sum += a[c]
	}
	return sum
}

// WellFormed implements §8 property 1: every channel present exactly once,
// every value >= 0, sum within tolerance of 1.
func WellFormed(a Allocation) bool {
	if !a.Complete() {
		return false
	}
	var sum float64
	for _, c := range channel.All {
		v := a[c]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
		sum += v
	}
	return math.Abs(sum-1) <= allocationTolerance
}

// Normalize rescales a so its values sum to 1. If every value is zero (or
// the map is empty), it falls back to a uniform allocation.
func Normalize(a Allocation) Allocation {
	sum := Sum(a)
	out := channel.NewMap(func(channel.Channel) float64 { return 0 })
	if sum <= 0 {
		for _, c := range channel.All {
			out[c] = 1.0 / float64(len(channel.All))
		}
		return out
	}
	for _, c := range channel.All {
		out[c] = a[c] / sum
	}
	return out
}

// Sanitize replaces any NaN/Infinity component with 0 before the allocation
// is re-normalized, implementing the numerical sanitization requirement of
// §4.1/§4.3/§8 property 4.
func Sanitize(a Allocation) Allocation {
	out := channel.NewMap(func(c channel.Channel) float64 {
		v := a[c]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		return v
	})
	return Normalize(out)
}

// SanitizeScalar clamps a NaN/Infinity scalar result to 0, per the "never
// expose NaN/Infinity" rule in §3/§8.
func SanitizeScalar(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlgorithmResult is one optimizer's proposal plus its self-reported
// confidence and objective-native performance.
type AlgorithmResult struct {
	Name        string      `json:"name" bson:"name"`
	Allocation  Allocation  `json:"allocation" bson:"allocation"`
	Confidence  float64     `json:"confidence" bson:"confidence"`
	Performance float64     `json:"performance" bson:"performance"`
}

// ConsensusMetrics summarizes how much the ensemble's inputs agreed.
type ConsensusMetrics struct {
	Agreement    float64              `json:"agreement" bson:"agreement"`
	Variance     channel.Map[float64] `json:"variance" bson:"variance"`
	OutlierCount int                  `json:"outlierCount" bson:"outlierCount"`
}

// StabilityMetrics summarizes cross-algorithm consistency.
type StabilityMetrics struct {
	OverallStability  float64              `json:"overallStability" bson:"overallStability"`
	ChannelStability  channel.Map[float64] `json:"channelStability" bson:"channelStability"`
	ConvergenceScore  float64              `json:"convergenceScore" bson:"convergenceScore"`
}

// BenchmarkAnalysis summarizes deviation from industry-benchmark priors.
type BenchmarkAnalysis struct {
	DeviationScore    float64                `json:"deviationScore" bson:"deviationScore"`
	ChannelDeviations channel.Map[float64]   `json:"channelDeviations" bson:"channelDeviations"`
	Warnings          []ValidationWarning    `json:"warnings" bson:"warnings"`
}

// Severity is the ValidationWarning severity tier.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ValidationWarning is a single human-readable, machine-tagged warning
// surfaced anywhere in the pipeline.
type ValidationWarning struct {
	Type     string           `json:"type" bson:"type"`
	Message  string           `json:"message" bson:"message"`
	Severity Severity         `json:"severity" bson:"severity"`
	Channel  *channel.Channel `json:"channel,omitempty" bson:"channel,omitempty"`
}

// ConfidenceMetrics is the composite confidence output of the scorer.
type ConfidenceMetrics struct {
	Overall    float64              `json:"overall" bson:"overall"`
	PerChannel channel.Map[float64] `json:"perChannel" bson:"perChannel"`
	Stability  StabilityMetrics     `json:"stability" bson:"stability"`
}

// Validation bundles the evidence behind the confidence score.
type Validation struct {
	AlternativeAlgorithms []AlgorithmResult   `json:"alternativeAlgorithms" bson:"alternativeAlgorithms"`
	Consensus             ConsensusMetrics    `json:"consensus" bson:"consensus"`
	BenchmarkComparison   *BenchmarkAnalysis  `json:"benchmarkComparison,omitempty" bson:"benchmarkComparison,omitempty"`
	Warnings              []ValidationWarning `json:"warnings" bson:"warnings"`
}

// Alternatives bundles the runner-up allocations and a plain-language
// rationale for the winning one.
type Alternatives struct {
	TopAllocations       []Allocation `json:"topAllocations" bson:"topAllocations"`
	ReasoningExplanation string       `json:"reasoningExplanation" bson:"reasoningExplanation"`
}

// MCPercentiles is the p10/p50/p90 spread of a Monte-Carlo objective sample.
type MCPercentiles struct {
	P10 float64 `json:"p10" bson:"p10"`
	P50 float64 `json:"p50" bson:"p50"`
	P90 float64 `json:"p90" bson:"p90"`
}

// EnhancedModelResult is the composite output assembled once at the final
// pipeline stage and never mutated thereafter (§3 Lifecycles).
type EnhancedModelResult struct {
	Allocation            Allocation                    `json:"allocation" bson:"allocation"`
	DeterministicOutcome  float64                        `json:"deterministicOutcome" bson:"deterministicOutcome"`
	Percentiles           MCPercentiles                  `json:"percentiles" bson:"percentiles"`
	ChannelConfidenceIntervals channel.Map[Interval]     `json:"channelConfidenceIntervals" bson:"channelConfidenceIntervals"`
	Objective             Goal                           `json:"objective" bson:"objective"`
	Confidence            ConfidenceMetrics              `json:"confidence" bson:"confidence"`
	Validation            Validation                     `json:"validation" bson:"validation"`
	Alternatives          Alternatives                   `json:"alternatives" bson:"alternatives"`
}

// Sanitize replaces any NaN/Infinity numeric field with a finite value so
// the result is safe to serialize (§3, §8 property 4).
func (r *EnhancedModelResult) Sanitize() {
	r.Allocation = Sanitize(r.Allocation)
	r.DeterministicOutcome = SanitizeScalar(r.DeterministicOutcome)
	r.Percentiles.P10 = SanitizeScalar(r.Percentiles.P10)
	r.Percentiles.P50 = SanitizeScalar(r.Percentiles.P50)
	r.Percentiles.P90 = SanitizeScalar(r.Percentiles.P90)
	for c, iv := range r.ChannelConfidenceIntervals {
		iv.Lo = SanitizeScalar(iv.Lo)
		iv.Hi = SanitizeScalar(iv.Hi)
		r.ChannelConfidenceIntervals[c] = iv
	}
	r.Confidence.Overall = Clamp(SanitizeScalar(r.Confidence.Overall), 0, 1)
	for c, v := range r.Confidence.PerChannel {
		r.Confidence.PerChannel[c] = Clamp(SanitizeScalar(v), 0, 1)
	}
}

// StageStatus is the lifecycle state of a single pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageError     StageStatus = "error"
)

// StageID names one of the nine fixed pipeline stages (§4.6).
type StageID string

const (
	StageDataFetch            StageID = "dataFetch"
	StageValidation           StageID = "validation"
	StageEnsembleOptimization StageID = "ensembleOptimization"
	StageBayesianOptimization StageID = "bayesianOptimization"
	StageGradientOptimization StageID = "gradientOptimization"
	StageConfidenceScoring    StageID = "confidenceScoring"
	StageBenchmarkValidation  StageID = "benchmarkValidation"
	StageLLMValidation        StageID = "llmValidation"
	StageFinalSelection       StageID = "finalSelection"
)

// StageOrder is the strict topological order of the nine stages.
var StageOrder = [...]StageID{
	StageDataFetch,
	StageValidation,
	StageEnsembleOptimization,
	StageBayesianOptimization,
	StageGradientOptimization,
	StageConfidenceScoring,
	StageBenchmarkValidation,
	StageLLMValidation,
	StageFinalSelection,
}

// ProgressFunc reports a long-running stage's fractional completion
// (0 to 1) and an optional human-readable detail string, so the pipeline
// controller can tick PipelineStage.Progress and publish STAGE_PROGRESS
// events while a stage is still running. Implementations must be safe to
// call from multiple goroutines.
type ProgressFunc func(fraction float64, details string)

// PipelineStage is one step in the fixed nine-stage DAG.
type PipelineStage struct {
	ID        StageID      `json:"id" bson:"id"`
	Name      string       `json:"name" bson:"name"`
	Status    StageStatus  `json:"status" bson:"status"`
	Progress  float64      `json:"progress" bson:"progress"`
	StartTime *int64       `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   *int64       `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Duration  *int64       `json:"duration,omitempty" bson:"duration,omitempty"`
	Details   string       `json:"details,omitempty" bson:"details,omitempty"`
	Error     string       `json:"error,omitempty" bson:"error,omitempty"`
}

// PipelineRunStatus is the overall status of an optimization run.
type PipelineRunStatus string

const (
	RunPending   PipelineRunStatus = "pending"
	RunRunning   PipelineRunStatus = "running"
	RunCompleted PipelineRunStatus = "completed"
	RunError     PipelineRunStatus = "error"
	RunCancelled PipelineRunStatus = "cancelled"
)

// OptimizationPipeline is the full state of one optimization run. It is
// owned exclusively by the Pipeline Controller (§9); everything else
// receives immutable snapshots.
type OptimizationPipeline struct {
	ID              string                    `json:"id" bson:"id"`
	Status          PipelineRunStatus         `json:"status" bson:"status"`
	StartTime       int64                     `json:"startTime" bson:"startTime"`
	EndTime         *int64                    `json:"endTime,omitempty" bson:"endTime,omitempty"`
	TotalDuration   *int64                    `json:"totalDuration,omitempty" bson:"totalDuration,omitempty"`
	CurrentStage    *StageID                  `json:"currentStage,omitempty" bson:"currentStage,omitempty"`
	CompletedStages []StageID                 `json:"completedStages" bson:"completedStages"`
	FailedStages    []StageID                 `json:"failedStages" bson:"failedStages"`
	Stages          map[StageID]PipelineStage `json:"stages" bson:"stages"`
	Result          *EnhancedModelResult      `json:"result,omitempty" bson:"result,omitempty"`
	Warnings        []ValidationWarning       `json:"warnings" bson:"warnings"`
}

// Snapshot returns a deep-enough copy of p safe to hand to an external
// observer (§5 "subscribers receive snapshots... must not mutate").
func (p *OptimizationPipeline) Snapshot() OptimizationPipeline {
	cp := *p
	cp.CompletedStages = append([]StageID(nil), p.CompletedStages...)
	cp.FailedStages = append([]StageID(nil), p.FailedStages...)
	cp.Stages = make(map[StageID]PipelineStage, len(p.Stages))
	for k, v := range p.Stages {
		cp.Stages[k] = v
	}
	cp.Warnings = append([]ValidationWarning(nil), p.Warnings...)
	return cp
}

// Options configures a single Optimize call (§6).
type Options struct {
	MCSamples        int
	Seed             *int64
	GridStep         float64
	MaxIterations    int
	GradLearningRate float64
	GradTolerance    float64
	GradStep         float64
	OutlierThreshold float64
}

// DefaultOptions returns the §6-documented option defaults.
func DefaultOptions() Options {
	return Options{
		MCSamples:        200,
		GridStep:         0.05,
		MaxIterations:    1000,
		GradLearningRate: 0.01,
		GradTolerance:    1e-6,
		GradStep:         1e-4,
		OutlierThreshold: 0.5,
	}
}

// WithDefaults fills any zero-valued option with its documented default.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.MCSamples <= 0 {
		o.MCSamples = d.MCSamples
	}
	if o.GridStep <= 0 {
		o.GridStep = d.GridStep
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.GradLearningRate <= 0 {
		o.GradLearningRate = d.GradLearningRate
	}
	if o.GradTolerance <= 0 {
		o.GradTolerance = d.GradTolerance
	}
	if o.GradStep <= 0 {
		o.GradStep = d.GradStep
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = d.OutlierThreshold
	}
	return o
}
