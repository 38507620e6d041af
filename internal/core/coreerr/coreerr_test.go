package coreerr

import (
	"errors"
	"testing"
)

func TestStageFailed_UnwrapsToUnderlyingError(t *testing.T) {
	underlying := errors.New("boom")
	err := &StageFailed{Stage: "bayesianOptimization", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is(err, underlying) = false, want true via Unwrap")
	}
}

func TestStageFailed_ErrorIncludesStageName(t *testing.T) {
	err := &StageFailed{Stage: "gradientOptimization", Err: errors.New("diverged")}
	got := err.Error()

	if got != "stage gradientOptimization failed: diverged" {
		t.Errorf("Error() = %q, want it to name the stage and wrap the cause", got)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrBudgetNotPositive,
		ErrUnknownChannel,
		ErrPriorIntervalOrder,
		ErrMinExceedsMax,
		ErrNonFiniteInput,
		ErrMissingChannel,
		ErrCancelled,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d (%v) unexpectedly matches sentinel %d (%v)", i, a, j, b)
			}
		}
	}
}
