// Package llmvalidate provides LLMValidator collaborator implementations for
// the pipeline controller's llmValidation stage (SPEC_FULL.md §5, §9 Open
// Question: the spec deliberately leaves the real LLM call unspecified).
package llmvalidate

import (
	"context"

	"budget-allocator-api/internal/core/model"
)

// NeutralLLMValidator always returns the documented neutral confidence
// (0.7) without making any outbound call. It is the safe default wiring
// until a real LLM-backed validator is configured, and it never fails.
type NeutralLLMValidator struct{}

// Validate returns a constant confidence and a short note identifying it as
// a neutral stand-in rather than a real model judgment.
func (NeutralLLMValidator) Validate(ctx context.Context, allocation model.Allocation, summary string) (float64, string, error) {
	return 0.7, "neutral validator: no LLM backend configured", nil
}

// FailingLLMValidator always fails, exercising the pipeline's
// llmValidation_fallback degradation path in tests.
type FailingLLMValidator struct {
	Err error
}

func (v FailingLLMValidator) Validate(ctx context.Context, allocation model.Allocation, summary string) (float64, string, error) {
	if v.Err != nil {
		return 0, "", v.Err
	}
	return 0, "", errUnavailable
}

var errUnavailable = validatorError("LLM validator unavailable")

type validatorError string

func (e validatorError) Error() string { return string(e) }
