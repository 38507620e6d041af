package bayesian

import (
	"context"
	"errors"
	"testing"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
)

func samplePriors() model.ChannelPriors {
	return channel.NewMap(func(c channel.Channel) model.Priors {
		switch c {
		case channel.Google:
			return model.Priors{CPM: model.Interval{Lo: 8, Hi: 12}, CTR: model.Interval{Lo: 0.02, Hi: 0.03}, CVR: model.Interval{Lo: 0.08, Hi: 0.12}}
		default:
			return model.Priors{CPM: model.Interval{Lo: 15, Hi: 25}, CTR: model.Interval{Lo: 0.01, Hi: 0.02}, CVR: model.Interval{Lo: 0.03, Hi: 0.06}}
		}
	})
}

func TestRun_ReturnsWellFormedAllocation(t *testing.T) {
	seed := int64(11)
	result, err := Run(context.Background(), 100000, samplePriors(), model.Assumptions{Goal: model.GoalDemos}, model.Options{Seed: &seed}.WithDefaults(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if !model.WellFormed(result.Algorithm.Allocation) {
		t.Errorf("allocation not well-formed: %+v", result.Algorithm.Allocation)
	}
	if result.Algorithm.Name != "bayesianSampling" {
		t.Errorf("Name = %q, want bayesianSampling", result.Algorithm.Name)
	}
}

func TestRun_SeedIsReproducible(t *testing.T) {
	seed := int64(99)
	opts := model.Options{Seed: &seed}.WithDefaults()
	assumptions := model.Assumptions{Goal: model.GoalRevenue}

	a, err := Run(context.Background(), 50000, samplePriors(), assumptions, opts, nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	b, err := Run(context.Background(), 50000, samplePriors(), assumptions, opts, nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	for _, c := range channel.All {
		if a.Algorithm.Allocation[c] != b.Algorithm.Allocation[c] {
			t.Errorf("channel %s: got %v and %v for the same seed, want equal", c, a.Algorithm.Allocation[c], b.Algorithm.Allocation[c])
		}
	}
}

func TestRun_MinConstraintRaisesConstrainedChannelShare(t *testing.T) {
	seed := int64(5)
	unconstrained, err := Run(context.Background(), 100000, samplePriors(), model.Assumptions{Goal: model.GoalDemos}, model.Options{Seed: &seed}.WithDefaults(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	constrainedAssumptions := model.Assumptions{
		Goal:   model.GoalDemos,
		MinPct: channel.Map[float64]{channel.Tiktok: 0.4},
	}
	constrained, err := Run(context.Background(), 100000, samplePriors(), constrainedAssumptions, model.Options{Seed: &seed}.WithDefaults(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if constrained.Algorithm.Allocation[channel.Tiktok] <= unconstrained.Algorithm.Allocation[channel.Tiktok] {
		t.Errorf("constrained tiktok share %v did not exceed unconstrained share %v",
			constrained.Algorithm.Allocation[channel.Tiktok], unconstrained.Algorithm.Allocation[channel.Tiktok])
	}
}

func TestRun_CancelledContextReturnsErrorNotPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seed := int64(1)
	result, err := Run(ctx, 100000, samplePriors(), model.Assumptions{Goal: model.GoalDemos}, model.Options{Seed: &seed}.WithDefaults(), nil)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result.Algorithm.Allocation != nil {
		t.Errorf("Run() returned a non-nil allocation alongside a cancellation error: %+v", result.Algorithm.Allocation)
	}
}

func TestRun_ProgressCallbackTicksPerDraw(t *testing.T) {
	seed := int64(3)
	var ticks int
	var last float64
	progress := func(fraction float64, details string) {
		ticks++
		last = fraction
	}

	if _, err := Run(context.Background(), 100000, samplePriors(), model.Assumptions{Goal: model.GoalDemos}, model.Options{Seed: &seed}.WithDefaults(), progress); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if ticks != draws {
		t.Errorf("progress called %d times, want %d (one per draw)", ticks, draws)
	}
	if last != float64(draws-1)/float64(draws) {
		t.Errorf("final progress fraction = %v, want %v", last, float64(draws-1)/float64(draws))
	}
}
