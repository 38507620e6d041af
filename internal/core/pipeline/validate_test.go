package pipeline

import (
	"errors"
	"math"
	"testing"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/coreerr"
	"budget-allocator-api/internal/core/model"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		budget      float64
		priors      model.ChannelPriors
		assumptions model.Assumptions
		wantErr     error
	}{
		{
			name:    "valid input passes",
			budget:  1000,
			priors:  samplePriors(),
			wantErr: nil,
		},
		{
			name:    "non-positive budget",
			budget:  0,
			priors:  samplePriors(),
			wantErr: coreerr.ErrBudgetNotPositive,
		},
		{
			name:    "NaN budget",
			budget:  math.NaN(),
			priors:  samplePriors(),
			wantErr: coreerr.ErrNonFiniteInput,
		},
		{
			name:    "missing a channel's priors",
			budget:  1000,
			priors:  channel.Map[model.Priors]{channel.Google: samplePriors()[channel.Google]},
			wantErr: coreerr.ErrMissingChannel,
		},
		{
			name:   "inverted prior interval",
			budget: 1000,
			priors: func() model.ChannelPriors {
				p := samplePriors()
				bad := p[channel.Google]
				bad.CPM = model.Interval{Lo: 10, Hi: 5}
				p[channel.Google] = bad
				return p
			}(),
			wantErr: coreerr.ErrPriorIntervalOrder,
		},
		{
			name:        "minPct exceeds maxPct",
			budget:      1000,
			priors:      samplePriors(),
			assumptions: model.Assumptions{MinPct: channel.Map[float64]{channel.Google: 0.8}, MaxPct: channel.Map[float64]{channel.Google: 0.5}},
			wantErr:     coreerr.ErrMinExceedsMax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.budget, tt.priors, tt.assumptions)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateInput() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateInput() = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}
