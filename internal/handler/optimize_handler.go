package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"budget-allocator-api/internal/core/coreerr"
	"budget-allocator-api/internal/core/model"
	"budget-allocator-api/internal/core/pipeline"
)

// OptimizeHandler exposes the pipeline controller over HTTP, grounded on
// the teacher's thin-handler-delegates-to-service pattern (e.g.
// analysis_v2_handler.go).
type OptimizeHandler struct {
	controller *pipeline.Controller
}

// NewOptimizeHandler creates a new OptimizeHandler.
func NewOptimizeHandler(controller *pipeline.Controller) *OptimizeHandler {
	return &OptimizeHandler{controller: controller}
}

type optimizeRequest struct {
	Budget      float64              `json:"budget"`
	Priors      model.ChannelPriors  `json:"priors"`
	Assumptions model.Assumptions    `json:"assumptions"`
	Options     *model.Options       `json:"options,omitempty"`
}

type optimizeResponse struct {
	Result   *model.EnhancedModelResult  `json:"result,omitempty"`
	Pipeline model.OptimizationPipeline  `json:"pipeline"`
}

// Optimize handles POST /optimize: runs the full nine-stage pipeline
// synchronously and returns both the result and the completed pipeline
// snapshot.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	opts := model.DefaultOptions()
	if req.Options != nil {
		opts = req.Options.WithDefaults()
	}

	result, snap, err := h.controller.Optimize(r.Context(), req.Budget, req.Priors, req.Assumptions, opts)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, optimizeResponse{Result: result, Pipeline: snap})
}

var invalidInputErrors = []error{
	coreerr.ErrBudgetNotPositive,
	coreerr.ErrUnknownChannel,
	coreerr.ErrPriorIntervalOrder,
	coreerr.ErrMinExceedsMax,
	coreerr.ErrNonFiniteInput,
	coreerr.ErrMissingChannel,
}

func writeOptimizeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coreerr.ErrCancelled):
		errorJSON(w, http.StatusConflict, err.Error())
	case isInvalidInput(err):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		errorJSON(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func isInvalidInput(err error) bool {
	for _, sentinel := range invalidInputErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
