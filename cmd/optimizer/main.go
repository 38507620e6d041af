// Command optimizer runs the budget allocation optimization engine's HTTP
// API, wiring the core pipeline controller to its collaborators the way the
// teacher's cmd/server/main.go wires repositories and services.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-allocator-api/internal/collaborators/llmvalidate"
	"budget-allocator-api/internal/collaborators/priors"
	"budget-allocator-api/internal/config"
	"budget-allocator-api/internal/core/eventbus"
	"budget-allocator-api/internal/core/pipeline"
	"budget-allocator-api/internal/handler"
	"budget-allocator-api/internal/middleware"
	"budget-allocator-api/internal/router"
	"budget-allocator-api/internal/service"
	storemongo "budget-allocator-api/internal/store/mongo"
)

func main() {
	cfg := config.Load()

	var consumer pipeline.ResultConsumer
	if cfg.MongoEnabled {
		mongoClient, err := storemongo.NewClient(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("failed to connect to MongoDB: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Close(ctx); err != nil {
				log.Printf("error closing Mongo client: %v", err)
			}
		}()
		consumer = storemongo.NewPipelineStore(mongoClient.DB())
	}

	bus := eventbus.New()
	priorSource := priors.DefaultPriorSource{}
	llmValidator := llmvalidate.NeutralLLMValidator{}
	logger := log.New(os.Stdout, "pipeline: ", log.LstdFlags)

	controller := pipeline.NewController(bus, priorSource, llmValidator, consumer, logger)

	jwtService := service.NewJWTService(cfg.JWTSecret)
	apiKeyAuth := service.NewAPIKeyAuthenticator(cfg.APIKeyHash)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, apiKeyAuth)

	healthHandler := handler.NewHealthHandler()
	optimizeHandler := handler.NewOptimizeHandler(controller)
	pipelineHandler := handler.NewPipelineHandler(controller)

	r := router.NewRouter(healthHandler, optimizeHandler, pipelineHandler, authMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
