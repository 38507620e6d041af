package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-allocator-api/internal/core/pipeline"
	"budget-allocator-api/internal/handler"
	"budget-allocator-api/internal/middleware"
	"budget-allocator-api/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	controller := pipeline.NewController(nil, nil, nil, nil, nil)
	jwtSvc := service.NewJWTService("test-secret")
	auth := middleware.NewAuthMiddleware(jwtSvc, service.NewAPIKeyAuthenticator(""))

	return NewRouter(
		handler.NewHealthHandler(),
		handler.NewOptimizeHandler(controller),
		handler.NewPipelineHandler(controller),
		auth,
	)
}

func TestRouter_HealthIsUnauthenticated(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_PipelinesRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/pipelines", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRouter_OptimizeRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/optimize", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
