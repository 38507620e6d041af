package model

import (
	"math"
	"testing"

	"budget-allocator-api/internal/core/channel"
)

func TestInterval_Valid(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		want bool
	}{
		{"ordered interval", Interval{Lo: 1, Hi: 2}, true},
		{"equal bounds", Interval{Lo: 1, Hi: 1}, true},
		{"inverted interval", Interval{Lo: 2, Hi: 1}, false},
		{"negative lo", Interval{Lo: -1, Hi: 1}, false},
		{"NaN bound", Interval{Lo: math.NaN(), Hi: 1}, false},
		{"infinite bound", Interval{Lo: 0, Hi: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.iv.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriors_Valid_RejectsCTRAboveOne(t *testing.T) {
	p := Priors{
		CPM: Interval{Lo: 1, Hi: 2},
		CTR: Interval{Lo: 0.1, Hi: 1.5},
		CVR: Interval{Lo: 0.1, Hi: 0.2},
	}
	if p.Valid() {
		t.Error("Valid() = true for CTR.Hi > 1, want false")
	}
}

func TestAssumptions_OverConstrained(t *testing.T) {
	tests := []struct {
		name   string
		minPct channel.Map[float64]
		want   bool
	}{
		{"no constraints", nil, false},
		{"sums under one", channel.Map[float64]{channel.Google: 0.3, channel.Meta: 0.3}, false},
		{"sums over one", channel.Map[float64]{channel.Google: 0.6, channel.Meta: 0.5}, true},
		{"sums exactly to one", channel.Map[float64]{channel.Google: 0.25, channel.Linkedin: 0.25, channel.Meta: 0.25, channel.Tiktok: 0.25}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assumptions{MinPct: tt.minPct}
			if got := a.OverConstrained(); got != tt.want {
				t.Errorf("OverConstrained() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssumptions_EffectiveAvgDealSize(t *testing.T) {
	custom := 2500.0
	tests := []struct {
		name string
		a    Assumptions
		want float64
	}{
		{"nil uses default", Assumptions{}, DefaultAvgDealSize},
		{"zero pointer uses default", Assumptions{AvgDealSize: func() *float64 { v := 0.0; return &v }()}, DefaultAvgDealSize},
		{"custom value used", Assumptions{AvgDealSize: &custom}, custom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.EffectiveAvgDealSize(); got != tt.want {
				t.Errorf("EffectiveAvgDealSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWellFormed(t *testing.T) {
	complete := channel.NewMap(func(channel.Channel) float64 { return 0.25 })
	incomplete := channel.Map[float64]{channel.Google: 1}
	negative := channel.NewMap(func(c channel.Channel) float64 {
		if c == channel.Google {
			return -0.1
		}
		return 0.366
	})

	tests := []struct {
		name string
		a    Allocation
		want bool
	}{
		{"uniform complete allocation", complete, true},
		{"incomplete map", incomplete, false},
		{"negative share", negative, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WellFormed(tt.a); got != tt.want {
				t.Errorf("WellFormed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_AllZeroFallsBackToUniform(t *testing.T) {
	zero := channel.NewMap(func(channel.Channel) float64 { return 0 })
	got := Normalize(zero)
	if !WellFormed(got) {
		t.Fatalf("Normalize(all-zero) not well-formed: %+v", got)
	}
	for _, c := range channel.All {
		want := 1.0 / float64(len(channel.All))
		if math.Abs(got[c]-want) > 1e-9 {
			t.Errorf("got[%s] = %v, want %v", c, got[c], want)
		}
	}
}

func TestSanitize_ReplacesNaNAndNegativeThenRenormalizes(t *testing.T) {
	dirty := channel.Map[float64]{
		channel.Google:   math.NaN(),
		channel.Linkedin: -1,
		channel.Meta:     0.5,
		channel.Tiktok:   0.5,
	}
	got := Sanitize(dirty)
	if !WellFormed(got) {
		t.Fatalf("Sanitize() result not well-formed: %+v", got)
	}
	if got[channel.Google] != 0 || got[channel.Linkedin] != 0 {
		t.Errorf("expected sanitized channels to be zero before renormalization, got %+v", got)
	}
}

func TestOptions_WithDefaults_FillsOnlyZeroFields(t *testing.T) {
	opts := Options{MCSamples: 50}
	filled := opts.WithDefaults()

	if filled.MCSamples != 50 {
		t.Errorf("MCSamples = %v, want explicit value preserved (50)", filled.MCSamples)
	}
	d := DefaultOptions()
	if filled.GridStep != d.GridStep {
		t.Errorf("GridStep = %v, want default %v", filled.GridStep, d.GridStep)
	}
	if filled.OutlierThreshold != d.OutlierThreshold {
		t.Errorf("OutlierThreshold = %v, want default %v", filled.OutlierThreshold, d.OutlierThreshold)
	}
}

func TestEnhancedModelResult_Sanitize_ClampsConfidence(t *testing.T) {
	r := EnhancedModelResult{
		Allocation: channel.NewMap(func(channel.Channel) float64 { return 0.25 }),
		Confidence: ConfidenceMetrics{
			Overall: 1.5,
			PerChannel: channel.Map[float64]{
				channel.Google: math.NaN(),
			},
		},
	}
	r.Sanitize()

	if r.Confidence.Overall != 1 {
		t.Errorf("Confidence.Overall = %v, want clamped to 1", r.Confidence.Overall)
	}
	if r.Confidence.PerChannel[channel.Google] != 0 {
		t.Errorf("Confidence.PerChannel[google] = %v, want sanitized to 0", r.Confidence.PerChannel[channel.Google])
	}
}
