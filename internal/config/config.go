package config

import (
	"log"
	"os"
	"strconv"

	"budget-allocator-api/internal/core/model"
)

// Config holds all configuration for the optimizer API, following the
// teacher's Load()/getEnv() pattern (internal/config/config.go).
type Config struct {
	Environment Environment

	AppPort  string
	MongoURI string
	MongoDB  string

	// JWTSecret signs/validates bearer tokens issued to service callers.
	JWTSecret string
	// APIKeyHash is the bcrypt hash of the shared service API key; empty
	// disables API-key auth and leaves JWT as the only accepted scheme.
	APIKeyHash string

	// MongoEnabled controls whether the optional PipelineStore collaborator
	// is wired at all (§5: persistence is entirely optional).
	MongoEnabled bool

	DefaultOptions model.Options
}

// Load reads configuration from environment variables with sensible
// defaults, loading the environment-specific .env file first.
func Load() *Config {
	env := LoadEnvFile()

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	baseDBName := getEnv("MONGO_DB_NAME", "budget_allocator")

	cfg := &Config{
		Environment:    env,
		AppPort:        getEnv("APP_PORT", "8080"),
		MongoURI:       mongoURI,
		MongoDB:        GetMongoDBName(env, baseDBName),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		APIKeyHash:     getEnv("API_KEY_HASH", ""),
		MongoEnabled:   getBool("MONGO_ENABLED", false),
		DefaultOptions: defaultOptionsFromEnv(),
	}

	log.Printf("Config loaded: env=%s, port=%s, mongo_enabled=%v, mongo_db=%s",
		cfg.Environment, cfg.AppPort, cfg.MongoEnabled, cfg.MongoDB)

	return cfg
}

// defaultOptionsFromEnv builds Config.DefaultOptions, taking the Monte-Carlo
// sample count and grid step from MC_SAMPLES and GRID_STEP when set; every
// other option keeps its documented default (§6). Config.DefaultOptions is
// not passed to the HTTP handlers: POST /optimize starts from
// model.DefaultOptions() regardless of these variables.
func defaultOptionsFromEnv() model.Options {
	opts := model.DefaultOptions()
	if v := getEnv("MC_SAMPLES", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MCSamples = n
		}
	}
	if v := getEnv("GRID_STEP", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.GridStep = f
		}
	}
	return opts
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
