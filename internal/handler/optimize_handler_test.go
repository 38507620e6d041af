package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
	"budget-allocator-api/internal/core/pipeline"
)

type fakePriorSource struct {
	priors model.ChannelPriors
	err    error
}

func (f fakePriorSource) FetchPriors(ctx context.Context) (model.ChannelPriors, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.priors, nil
}

type fakeLLMValidator struct {
	score float64
	err   error
}

func (f fakeLLMValidator) Validate(ctx context.Context, allocation model.Allocation, summary string) (float64, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	return f.score, "fake validator", nil
}

func samplePriors() model.ChannelPriors {
	return channel.NewMap(func(c channel.Channel) model.Priors {
		return model.Priors{
			CPM: model.Interval{Lo: 8, Hi: 12},
			CTR: model.Interval{Lo: 0.02, Hi: 0.03},
			CVR: model.Interval{Lo: 0.08, Hi: 0.12},
		}
	})
}

func testOptions() model.Options {
	opts := model.DefaultOptions()
	opts.GridStep = 0.25
	opts.MCSamples = 20
	opts.MaxIterations = 50
	return opts
}

func newTestController() *pipeline.Controller {
	return pipeline.NewController(nil, fakePriorSource{priors: samplePriors()}, fakeLLMValidator{score: 0.8}, nil, nil)
}

func TestOptimizeHandler_SuccessReturnsResultAndPipeline(t *testing.T) {
	h := NewOptimizeHandler(newTestController())

	body, _ := json.Marshal(map[string]any{
		"budget":      100000,
		"priors":      samplePriors(),
		"assumptions": map[string]any{"goal": model.GoalDemos},
		"options":     testOptions(),
	})
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp optimizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("expected a non-nil result")
	}
	if resp.Pipeline.Status != model.RunCompleted {
		t.Errorf("pipeline status = %v, want RunCompleted", resp.Pipeline.Status)
	}
}

func TestOptimizeHandler_MalformedBodyReturns400(t *testing.T) {
	h := NewOptimizeHandler(newTestController())

	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestOptimizeHandler_InvalidInputReturns400(t *testing.T) {
	h := NewOptimizeHandler(newTestController())

	body, _ := json.Marshal(map[string]any{
		"budget": 0,
		"priors": samplePriors(),
	})
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Optimize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d, body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
