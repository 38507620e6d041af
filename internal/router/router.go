package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"budget-allocator-api/internal/handler"
	"budget-allocator-api/internal/middleware"
)

// NewRouter creates and configures the optimizer API's HTTP router.
func NewRouter(
	healthHandler *handler.HealthHandler,
	optimizeHandler *handler.OptimizeHandler,
	pipelineHandler *handler.PipelineHandler,
	auth *middleware.AuthMiddleware,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.RequireAuth)
	api.HandleFunc("/optimize", optimizeHandler.Optimize).Methods(http.MethodPost)
	api.HandleFunc("/pipelines", pipelineHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/pipelines/{id}", pipelineHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/pipelines/{id}", pipelineHandler.Cancel).Methods(http.MethodDelete)

	return r
}

