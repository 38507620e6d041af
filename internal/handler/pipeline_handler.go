package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"budget-allocator-api/internal/core/pipeline"
)

// PipelineHandler exposes read/cancel access to in-flight and completed
// pipeline runs tracked by the controller.
type PipelineHandler struct {
	controller *pipeline.Controller
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(controller *pipeline.Controller) *PipelineHandler {
	return &PipelineHandler{controller: controller}
}

// Get handles GET /pipelines/{id}.
func (h *PipelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snap, ok := h.controller.GetPipeline(id)
	if !ok {
		errorJSON(w, http.StatusNotFound, "pipeline not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// List handles GET /pipelines.
func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.ListPipelines())
}

// Cancel handles DELETE /pipelines/{id}: requests cancellation of an
// in-flight run. It is idempotent: cancelling an already-terminal or
// unknown run is reported, not treated as an error, since the caller's
// desired end state (run not proceeding) already holds.
func (h *PipelineHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cancelled := h.controller.Cancel(id)
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}
