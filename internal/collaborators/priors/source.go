package priors

import (
	"context"

	"budget-allocator-api/internal/core/model"
)

// DefaultPriorSource satisfies pipeline.PriorSource by returning the
// embedded industry-benchmark priors. It never fails.
type DefaultPriorSource struct{}

// FetchPriors returns the embedded industry defaults.
func (DefaultPriorSource) FetchPriors(ctx context.Context) (model.ChannelPriors, error) {
	return Defaults(), nil
}

// FailingPriorSource always fails, exercising the pipeline's
// dataFetch_fallback degradation path in tests.
type FailingPriorSource struct {
	Err error
}

// FetchPriors returns s.Err, or a generic error if unset.
func (s FailingPriorSource) FetchPriors(ctx context.Context) (model.ChannelPriors, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, errUnavailable
}

var errUnavailable = sourceError("industry benchmark prior source unavailable")

type sourceError string

func (e sourceError) Error() string { return string(e) }
