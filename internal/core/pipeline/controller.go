// Package pipeline implements spec.md §4.6/§5/§6/§9: the Pipeline Controller
// that drives the fixed nine-stage optimization DAG end to end, publishes
// lifecycle events on the Event Bus, applies the stage failure policy, and
// assembles the final EnhancedModelResult. This mirrors the staged
// orchestration style of the teacher's RunAnalysisV2 (multi-step pipeline
// with per-step status tracking) generalized to the optimizer's nine stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"budget-allocator-api/internal/core/bayesian"
	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/confidence"
	"budget-allocator-api/internal/core/coreerr"
	"budget-allocator-api/internal/core/ensemble"
	"budget-allocator-api/internal/core/eventbus"
	"budget-allocator-api/internal/core/forwardmodel"
	"budget-allocator-api/internal/core/gradient"
	"budget-allocator-api/internal/core/model"
	"budget-allocator-api/internal/core/montecarlo"
)

// Only bayesianOptimization and gradientOptimization are compensable (§4.6
// "Bayesian-or-gradient stage failure is compensable: the pipeline proceeds
// with the remaining algorithm results"); dataFetch and llmValidation are
// external stages that degrade to a fallback instead of failing at all;
// every other core stage failure is terminal. Optimize below wires each
// stage to the matching one of runStage/degradeCompensable/abort directly
// rather than branching on a lookup table.

var stageNames = map[model.StageID]string{
	model.StageDataFetch:            "Fetch industry benchmark priors",
	model.StageValidation:           "Validate input assumptions",
	model.StageEnsembleOptimization: "Monte-Carlo grid search",
	model.StageBayesianOptimization: "Dirichlet-sampled search",
	model.StageGradientOptimization: "Gradient descent refinement",
	model.StageConfidenceScoring:    "Fuse algorithm results and score confidence",
	model.StageBenchmarkValidation:  "Compare against industry benchmark",
	model.StageLLMValidation:        "External LLM sanity check",
	model.StageFinalSelection:       "Assemble final result",
}

// run holds one in-flight or completed pipeline's mutable state plus the
// cancel func the controller calls on Cancel.
type run struct {
	mu       sync.Mutex
	pipeline model.OptimizationPipeline
	cancel   context.CancelFunc
}

// Controller owns every OptimizationPipeline it starts and is the sole
// writer of pipeline state (§9 "owned exclusively by the Pipeline
// Controller"). It is safe for concurrent use.
type Controller struct {
	bus      *eventbus.Bus
	priors   PriorSource
	llm      LLMValidator
	consumer ResultConsumer
	logger   *log.Logger

	mu   sync.Mutex
	runs map[string]*run
}

// NewController wires a Controller. priors, llm and consumer may be nil: a
// nil PriorSource always falls back to embedded industry defaults; a nil
// LLMValidator means no LLM signal contributes to confidence at all (as
// opposed to a configured validator that fails at request time, which still
// contributes via the documented confidence=0.7 fallback); a nil consumer
// simply means nothing persists the result beyond the in-memory run map.
func NewController(bus *eventbus.Bus, priors PriorSource, llm LLMValidator, consumer ResultConsumer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		bus:      bus,
		priors:   priors,
		llm:      llm,
		consumer: consumer,
		logger:   logger,
		runs:     make(map[string]*run),
	}
}

// GetPipeline returns a snapshot of the run with the given id (§5 "receive
// immutable snapshots").
func (c *Controller) GetPipeline(id string) (model.OptimizationPipeline, bool) {
	c.mu.Lock()
	r, ok := c.runs[id]
	c.mu.Unlock()
	if !ok {
		return model.OptimizationPipeline{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipeline.Snapshot(), true
}

// ListPipelines returns a snapshot of every run the controller has seen
// since process start (§6 supplemented ListPipelines operation).
func (c *Controller) ListPipelines() []model.OptimizationPipeline {
	c.mu.Lock()
	runs := make([]*run, 0, len(c.runs))
	for _, r := range c.runs {
		runs = append(runs, r)
	}
	c.mu.Unlock()

	out := make([]model.OptimizationPipeline, len(runs))
	for i, r := range runs {
		r.mu.Lock()
		out[i] = r.pipeline.Snapshot()
		r.mu.Unlock()
	}
	return out
}

// PruneOlderThan drops completed/errored/cancelled runs whose EndTime is at
// least retention ago, bounding the in-memory run map (§6 "retained until
// the run finishes plus a bounded retention window").
func (c *Controller) PruneOlderThan(retention time.Duration) {
	cutoff := time.Now().Add(-retention).UnixMilli()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, r := range c.runs {
		r.mu.Lock()
		done := r.pipeline.EndTime != nil && *r.pipeline.EndTime <= cutoff
		r.mu.Unlock()
		if done {
			delete(c.runs, id)
		}
	}
}

// Cancel requests cancellation of the named run (§5). The current stage
// finishes its current unit of work before the run transitions to
// "cancelled"; Cancel itself returns immediately. It reports false if no
// such running pipeline exists.
func (c *Controller) Cancel(id string) bool {
	c.mu.Lock()
	r, ok := c.runs[id]
	c.mu.Unlock()
	if !ok {
		return false
	}
	r.mu.Lock()
	cancel := r.cancel
	running := r.pipeline.Status == model.RunRunning || r.pipeline.Status == model.RunPending
	r.mu.Unlock()
	if !running || cancel == nil {
		return false
	}
	cancel()
	return true
}

// Optimize runs the full nine-stage pipeline to completion (or to its first
// terminal failure, or to cancellation) and returns the final result plus a
// snapshot of the finished pipeline (§6).
func (c *Controller) Optimize(ctx context.Context, budget float64, priors model.ChannelPriors, assumptions model.Assumptions, opts model.Options) (*model.EnhancedModelResult, model.OptimizationPipeline, error) {
	if err := validateInput(budget, priors, assumptions); err != nil {
		return nil, model.OptimizationPipeline{}, err
	}
	opts = opts.WithDefaults()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := uuid.New().String()
	r := &run{pipeline: newPipeline(id), cancel: cancel}
	c.mu.Lock()
	c.runs[id] = r
	c.mu.Unlock()

	c.setStatus(r, model.RunRunning)
	c.publishPipeline(eventbus.PipelineStarted, r)

	var industryPriors model.ChannelPriors
	var allResults []model.AlgorithmResult
	var gridRes montecarlo.Result
	var ensembleRes ensemble.Result
	var stability model.StabilityMetrics
	var benchmarkAnalysis model.BenchmarkAnalysis
	var llmScore *float64

	// Stage 1: dataFetch (external, degrades).
	_ = c.runStage(runCtx, r, model.StageDataFetch, func(stageCtx context.Context) error {
		fetched, err := c.fetchPriors(stageCtx)
		if err != nil {
			c.addWarning(r, model.ValidationWarning{
				Type:     "dataFetch_fallback",
				Message:  fmt.Sprintf("industry benchmark priors unavailable (%v); using embedded defaults", err),
				Severity: model.SeverityLow,
			})
			industryPriors = fallbackIndustryPriors()
			return nil
		}
		industryPriors = fetched
		return nil
	})
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 2: validation (core, terminal).
	if failed := c.runStage(runCtx, r, model.StageValidation, func(context.Context) error {
		if assumptions.OverConstrained() {
			c.addWarning(r, model.ValidationWarning{
				Type:     "constraint_over_specified",
				Message:  "minimum per-channel shares sum to more than 1; constraints cannot all be satisfied simultaneously",
				Severity: model.SeverityHigh,
			})
		}
		return nil
	}); failed != nil {
		return c.abort(r, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 3: ensembleOptimization — the Monte-Carlo grid optimizer (§4.2).
	// Terminal: without at least one algorithm result there is nothing for
	// later stages to fuse.
	if failed := c.runStage(runCtx, r, model.StageEnsembleOptimization, func(stageCtx context.Context) error {
		res, err := montecarlo.Run(stageCtx, budget, priors, assumptions, opts, c.stageProgress(r, model.StageEnsembleOptimization))
		if err != nil {
			return err
		}
		gridRes = res
		if gridRes.OverConstrained {
			c.addWarning(r, model.ValidationWarning{
				Type:     "constraint_over_specified",
				Message:  "no grid candidate satisfies every min/max constraint; falling back to the nearest feasible allocation",
				Severity: model.SeverityHigh,
			})
		}
		allResults = append(allResults, gridRes.Algorithm)
		return nil
	}); failed != nil {
		return c.abort(r, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 4: bayesianOptimization (compensable).
	if failed := c.runStage(runCtx, r, model.StageBayesianOptimization, func(stageCtx context.Context) error {
		res, err := bayesian.Run(stageCtx, budget, priors, assumptions, opts, c.stageProgress(r, model.StageBayesianOptimization))
		if err != nil {
			return err
		}
		allResults = append(allResults, res.Algorithm)
		return nil
	}); failed != nil {
		c.degradeCompensable(r, model.StageBayesianOptimization, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 5: gradientOptimization (compensable).
	if failed := c.runStage(runCtx, r, model.StageGradientOptimization, func(stageCtx context.Context) error {
		ref := gridRes.Algorithm.Performance
		res, err := gradient.Run(stageCtx, budget, priors, assumptions, opts, &ref, c.stageProgress(r, model.StageGradientOptimization))
		if err != nil {
			return err
		}
		allResults = append(allResults, res.Algorithm)
		return nil
	}); failed != nil {
		c.degradeCompensable(r, model.StageGradientOptimization, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 6: confidenceScoring — ensemble fusion (§4.4) plus stability
	// (§4.5). Terminal.
	if failed := c.runStage(runCtx, r, model.StageConfidenceScoring, func(context.Context) error {
		ensembleRes = ensemble.Combine(allResults, opts.OutlierThreshold)
		for _, w := range ensembleRes.Warnings {
			c.addWarning(r, w)
		}
		stability = confidence.Stability(allResults)
		return nil
	}); failed != nil {
		return c.abort(r, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 7: benchmarkValidation (core, terminal).
	if failed := c.runStage(runCtx, r, model.StageBenchmarkValidation, func(context.Context) error {
		benchmarkAnalysis = confidence.Benchmark(ensembleRes.Fused.Allocation, industryPriors)
		for _, w := range benchmarkAnalysis.Warnings {
			c.addWarning(r, w)
		}
		return nil
	}); failed != nil {
		return c.abort(r, failed)
	}
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 8: llmValidation (external, degrades).
	_ = c.runStage(runCtx, r, model.StageLLMValidation, func(stageCtx context.Context) error {
		if c.llm == nil {
			return nil
		}
		score, _, err := c.llm.Validate(stageCtx, ensembleRes.Fused.Allocation, summarize(ensembleRes.Fused.Allocation, assumptions.Goal))
		if err != nil {
			c.addWarning(r, model.ValidationWarning{
				Type:     "llmValidation_fallback",
				Message:  fmt.Sprintf("LLM validator unavailable (%v); using default confidence", err),
				Severity: model.SeverityLow,
			})
			score = defaultLLMFallback
		}
		llmScore = &score
		return nil
	})
	if done, result, snap, err := c.checkCancelled(runCtx, r); done {
		return result, snap, err
	}

	// Stage 9: finalSelection (core, terminal).
	var result model.EnhancedModelResult
	if failed := c.runStage(runCtx, r, model.StageFinalSelection, func(context.Context) error {
		result = c.assembleResult(budget, priors, assumptions, opts, gridRes, ensembleRes, allResults, stability, benchmarkAnalysis, llmScore, r)
		return nil
	}); failed != nil {
		return c.abort(r, failed)
	}

	c.finishSuccess(r, result)

	if c.consumer != nil {
		snap := r.snapshot()
		c.consumer.Consume(ctx, result, snap)
	}

	return &result, r.snapshot(), nil
}

const defaultLLMFallback = 0.7

func (r *run) snapshot() model.OptimizationPipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipeline.Snapshot()
}

func newPipeline(id string) model.OptimizationPipeline {
	stages := make(map[model.StageID]model.PipelineStage, len(model.StageOrder))
	for _, id := range model.StageOrder {
		stages[id] = model.PipelineStage{ID: id, Name: stageNames[id], Status: model.StagePending}
	}
	return model.OptimizationPipeline{
		ID:        id,
		Status:    model.RunPending,
		StartTime: nowMillis(),
		Stages:    stages,
	}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

func (c *Controller) setStatus(r *run, status model.PipelineRunStatus) {
	r.mu.Lock()
	r.pipeline.Status = status
	r.mu.Unlock()
}

func (c *Controller) addWarning(r *run, w model.ValidationWarning) {
	r.mu.Lock()
	r.pipeline.Warnings = append(r.pipeline.Warnings, w)
	r.mu.Unlock()
}

func (c *Controller) fetchPriors(ctx context.Context) (model.ChannelPriors, error) {
	if c.priors == nil {
		return nil, fmt.Errorf("no prior source configured")
	}
	return c.priors.FetchPriors(ctx)
}

// runStage executes work under stage lifecycle bookkeeping and event
// publication. A panic inside work is recovered and reported as a
// coreerr.StageFailed rather than crashing the run (§4.6).
func (c *Controller) runStage(ctx context.Context, r *run, id model.StageID, work func(context.Context) error) (stageErr error) {
	start := nowMillis()
	r.mu.Lock()
	stage := r.pipeline.Stages[id]
	stage.Status = model.StageRunning
	stage.StartTime = &start
	r.pipeline.Stages[id] = stage
	r.pipeline.CurrentStage = &id
	r.mu.Unlock()
	c.publishStage(eventbus.StageStarted, r, id)

	defer func() {
		if rec := recover(); rec != nil {
			stageErr = &coreerr.StageFailed{Stage: string(id), Err: fmt.Errorf("panic: %v", rec)}
			c.logger.Printf("pipeline %s: stage %s panicked: %v", r.pipeline.ID, id, rec)
		}
		end := nowMillis()
		dur := end - start
		r.mu.Lock()
		st := r.pipeline.Stages[id]
		st.EndTime = &end
		st.Duration = &dur
		st.Progress = 1
		if stageErr != nil {
			st.Status = model.StageError
			if errors.Is(stageErr, context.Canceled) {
				st.Error = coreerr.ErrCancelled.Error()
			} else {
				st.Error = stageErr.Error()
			}
			r.pipeline.FailedStages = append(r.pipeline.FailedStages, id)
		} else {
			st.Status = model.StageCompleted
			r.pipeline.CompletedStages = append(r.pipeline.CompletedStages, id)
		}
		r.pipeline.Stages[id] = st
		r.mu.Unlock()

		if stageErr != nil {
			c.publishStage(eventbus.StageFailed, r, id)
		} else {
			c.publishStage(eventbus.StageCompleted, r, id)
		}
	}()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return work(ctx)
}

// degradeCompensable records a compensable stage's failure as a warning
// rather than aborting the run (§4.6).
func (c *Controller) degradeCompensable(r *run, id model.StageID, err error) {
	c.addWarning(r, model.ValidationWarning{
		Type:     string(id) + "_failed",
		Message:  fmt.Sprintf("%s failed and was skipped: %v", id, err),
		Severity: model.SeverityMedium,
	})
}

// checkCancelled reports whether ctx was cancelled and, if so, finalizes the
// pipeline as cancelled (§5 "the current stage finishes its current
// iteration, then the pipeline status becomes cancelled; no partial
// allocation is exposed as the final result") and returns its terminal
// values.
func (c *Controller) checkCancelled(ctx context.Context, r *run) (done bool, result *model.EnhancedModelResult, snap model.OptimizationPipeline, err error) {
	if ctx.Err() == nil {
		return false, nil, model.OptimizationPipeline{}, nil
	}
	snap = c.finalizeCancelled(r)
	return true, nil, snap, coreerr.ErrCancelled
}

func (c *Controller) finalizeCancelled(r *run) model.OptimizationPipeline {
	end := nowMillis()
	r.mu.Lock()
	r.pipeline.Status = model.RunCancelled
	r.pipeline.Result = nil
	r.pipeline.EndTime = &end
	dur := end - r.pipeline.StartTime
	r.pipeline.TotalDuration = &dur
	r.pipeline.CurrentStage = nil
	r.mu.Unlock()
	c.publishPipeline(eventbus.PipelineFailed, r)
	return r.snapshot()
}

// abort finalizes the run as failed after a terminal core-stage failure
// (§4.6), or as cancelled if the failure is the stage observing ctx
// cancellation.
func (c *Controller) abort(r *run, stageErr error) (*model.EnhancedModelResult, model.OptimizationPipeline, error) {
	if errors.Is(stageErr, context.Canceled) {
		return nil, c.finalizeCancelled(r), coreerr.ErrCancelled
	}
	end := nowMillis()
	r.mu.Lock()
	r.pipeline.Status = model.RunError
	r.pipeline.EndTime = &end
	dur := end - r.pipeline.StartTime
	r.pipeline.TotalDuration = &dur
	r.pipeline.CurrentStage = nil
	r.mu.Unlock()
	c.publishPipeline(eventbus.PipelineFailed, r)
	return nil, r.snapshot(), stageErr
}

func (c *Controller) finishSuccess(r *run, result model.EnhancedModelResult) {
	end := nowMillis()
	r.mu.Lock()
	r.pipeline.Status = model.RunCompleted
	r.pipeline.EndTime = &end
	dur := end - r.pipeline.StartTime
	r.pipeline.TotalDuration = &dur
	r.pipeline.CurrentStage = nil
	r.pipeline.Result = &result
	r.mu.Unlock()
	c.publishPipeline(eventbus.PipelineCompleted, r)
}

// stageProgress returns a model.ProgressFunc that ticks stage id's Progress
// field and publishes a STAGE_PROGRESS event, per spec.md §4.6/§9's "pushes
// progress to the Event Bus". Safe for concurrent use since it only takes
// r.mu and the bus's own lock.
func (c *Controller) stageProgress(r *run, id model.StageID) model.ProgressFunc {
	return func(fraction float64, details string) {
		r.mu.Lock()
		st := r.pipeline.Stages[id]
		st.Progress = fraction
		st.Details = details
		r.pipeline.Stages[id] = st
		r.mu.Unlock()

		if c.bus == nil {
			return
		}
		c.bus.Publish(eventbus.Event{
			Type:       eventbus.StageProgress,
			PipelineID: r.pipeline.ID,
			StageID:    string(id),
			Timestamp:  nowMillis(),
			Payload:    map[string]any{"progress": fraction, "details": details},
		})
	}
}

func (c *Controller) publishStage(evType eventbus.EventType, r *run, id model.StageID) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Event{Type: evType, PipelineID: r.pipeline.ID, StageID: string(id), Timestamp: nowMillis()})
}

func (c *Controller) publishPipeline(evType eventbus.EventType, r *run) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Event{Type: evType, PipelineID: r.pipeline.ID, Timestamp: nowMillis()})
}

// assembleResult builds the final composite output (§3, §4.6 finalSelection)
// from every earlier stage's evidence.
func (c *Controller) assembleResult(
	budget float64,
	priors model.ChannelPriors,
	assumptions model.Assumptions,
	opts model.Options,
	gridRes montecarlo.Result,
	ensembleRes ensemble.Result,
	allResults []model.AlgorithmResult,
	stability model.StabilityMetrics,
	benchmarkAnalysis model.BenchmarkAnalysis,
	llmScore *float64,
	r *run,
) model.EnhancedModelResult {
	allocation := ensembleRes.Fused.Allocation
	deterministic, _ := forwardmodel.Deterministic(budget, allocation, priors, assumptions)
	percentiles := forwardmodel.MonteCarlo(budget, allocation, priors, assumptions, opts.MCSamples, opts.Seed)

	confidenceMetrics := confidence.Score(ensembleRes.Consensus, stability, &benchmarkAnalysis, llmScore)

	r.mu.Lock()
	warningsCopy := append([]model.ValidationWarning(nil), r.pipeline.Warnings...)
	r.mu.Unlock()

	result := model.EnhancedModelResult{
		Allocation:                 allocation,
		DeterministicOutcome:       deterministic,
		Percentiles:                percentiles,
		ChannelConfidenceIntervals: gridRes.ChannelIntervals,
		Objective:                  assumptions.Goal,
		Confidence:                 confidenceMetrics,
		Validation: model.Validation{
			AlternativeAlgorithms: append([]model.AlgorithmResult(nil), allResults...),
			Consensus:             ensembleRes.Consensus,
			BenchmarkComparison:   &benchmarkAnalysis,
			Warnings:              warningsCopy,
		},
		Alternatives: model.Alternatives{
			TopAllocations:       gridRes.TopAllocations,
			ReasoningExplanation: buildReasoning(allocation, assumptions.Goal, confidenceMetrics, ensembleRes.Consensus),
		},
	}
	result.Sanitize()
	return result
}

// buildReasoning renders a short, deterministic, human-readable explanation
// of why the winning allocation was chosen (§6 supplemented feature:
// reasoning explanation).
func buildReasoning(alloc model.Allocation, goal model.Goal, conf model.ConfidenceMetrics, consensus model.ConsensusMetrics) string {
	lead, leadShare := channel.Google, -1.0
	for _, c := range channel.All {
		if alloc[c] > leadShare {
			lead, leadShare = c, alloc[c]
		}
	}
	return fmt.Sprintf(
		"%s receives the largest share (%.0f%%) under the %s objective; algorithm agreement is %.0f%% and overall confidence is %.0f%%.",
		lead, leadShare*100, goal, consensus.Agreement*100, conf.Overall*100,
	)
}

func summarize(alloc model.Allocation, goal model.Goal) string {
	return fmt.Sprintf(
		"Proposed %s-optimizing allocation: google=%.2f, linkedin=%.2f, meta=%.2f, tiktok=%.2f",
		goal, alloc[channel.Google], alloc[channel.Linkedin], alloc[channel.Meta], alloc[channel.Tiktok],
	)
}

// fallbackIndustryPriors is the last-resort benchmark prior set used only
// when no PriorSource is configured or the configured one fails (§4.6
// dataFetch_fallback). The documented industry defaults collaborators/priors
// embeds are expected to be the normally-configured source; this is strictly
// a safety net so the core never depends on the collaborators layer.
func fallbackIndustryPriors() model.ChannelPriors {
	return channel.NewMap(func(c channel.Channel) model.Priors {
		switch c {
		case channel.Google:
			return model.Priors{CPM: model.Interval{Lo: 7, Hi: 15}, CTR: model.Interval{Lo: 0.018, Hi: 0.042}, CVR: model.Interval{Lo: 0.018, Hi: 0.05}}
		case channel.Meta:
			return model.Priors{CPM: model.Interval{Lo: 5, Hi: 13}, CTR: model.Interval{Lo: 0.009, Hi: 0.032}, CVR: model.Interval{Lo: 0.008, Hi: 0.03}}
		case channel.Linkedin:
			return model.Priors{CPM: model.Interval{Lo: 18, Hi: 42}, CTR: model.Interval{Lo: 0.003, Hi: 0.013}, CVR: model.Interval{Lo: 0.018, Hi: 0.065}}
		default: // tiktok
			return model.Priors{CPM: model.Interval{Lo: 4, Hi: 11}, CTR: model.Interval{Lo: 0.013, Hi: 0.038}, CVR: model.Interval{Lo: 0.004, Hi: 0.022}}
		}
	})
}
