package pipeline

import (
	"context"

	"budget-allocator-api/internal/core/model"
)

// PriorSource is the inbound "prior source" collaborator of spec.md §6: it
// supplies the industry-benchmark ChannelPriors consumed by the
// benchmarkValidation stage. The core substitutes a documented
// industry-default ChannelPriors on failure and flags a dataFetch_fallback
// warning rather than failing the run.
type PriorSource interface {
	FetchPriors(ctx context.Context) (model.ChannelPriors, error)
}

// LLMValidator is the inbound "LLM validator" collaborator of §6: given the
// fused allocation and a short summary, it returns a confidence score. On
// failure the core substitutes confidence=0.7 and flags llmValidation_fallback.
type LLMValidator interface {
	Validate(ctx context.Context, allocation model.Allocation, summary string) (confidence float64, notes string, err error)
}

// ResultConsumer is the outbound "result consumer" collaborator of §6: it
// receives the final EnhancedModelResult and the terminal pipeline
// snapshot. Implementations must not mutate what they are given.
type ResultConsumer interface {
	Consume(ctx context.Context, result model.EnhancedModelResult, pipeline model.OptimizationPipeline)
}
