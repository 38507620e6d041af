package pipeline

import (
	"fmt"
	"math"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/coreerr"
	"budget-allocator-api/internal/core/model"
)

// validateInput implements spec.md §7's InvalidInput taxonomy. Any non-nil
// return here is fatal to the request: no pipeline is created (§7 "Always
// fatal to the request; no pipeline is created").
func validateInput(budget float64, priors model.ChannelPriors, assumptions model.Assumptions) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		return fmt.Errorf("%w: budget is not finite", coreerr.ErrNonFiniteInput)
	}
	if budget <= 0 {
		return coreerr.ErrBudgetNotPositive
	}

	if !priors.Complete() {
		return fmt.Errorf("%w: channel priors", coreerr.ErrMissingChannel)
	}
	for _, c := range channel.All {
		if !priors[c].Valid() {
			return fmt.Errorf("%w: %s", coreerr.ErrPriorIntervalOrder, c)
		}
	}

	if assumptions.AvgDealSize != nil && (math.IsNaN(*assumptions.AvgDealSize) || math.IsInf(*assumptions.AvgDealSize, 0)) {
		return fmt.Errorf("%w: avgDealSize is not finite", coreerr.ErrNonFiniteInput)
	}

	for c, v := range assumptions.MinPct {
		if !channel.Valid(c) {
			return fmt.Errorf("%w: %s in minPct", coreerr.ErrUnknownChannel, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: minPct.%s", coreerr.ErrNonFiniteInput, c)
		}
	}
	for c, v := range assumptions.MaxPct {
		if !channel.Valid(c) {
			return fmt.Errorf("%w: %s in maxPct", coreerr.ErrUnknownChannel, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: maxPct.%s", coreerr.ErrNonFiniteInput, c)
		}
	}
	for _, c := range channel.All {
		if assumptions.MinFor(c) > assumptions.MaxFor(c)+1e-9 {
			return fmt.Errorf("%w: %s", coreerr.ErrMinExceedsMax, c)
		}
	}

	return nil
}
