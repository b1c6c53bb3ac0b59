package main

import (
	"os"
	"strconv"

	"github.com/snow-ghost/ideation/pkg/config"
	"github.com/snow-ghost/ideation/pkg/limiter"
)

// appConfig holds process settings read from the environment
type appConfig struct {
	ConfigPath     string
	LogLevel       string
	LogFormat      string
	Encoding       string
	CacheSize      int
	ServeAddr      string
	JaegerEndpoint string
	Environment    string
	SessionRPM     int
	SessionBurst   int
	MaxSessions    int
}

// loadAppConfig loads configuration from environment variables
func loadAppConfig() *appConfig {
	return &appConfig{
		ConfigPath:     getEnv(config.EnvConfigPath, "ideation.yaml"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		Encoding:       getEnv("TOKEN_ENCODING", "chars"),
		CacheSize:      getEnvInt("TOKEN_CACHE_SIZE", 4096),
		ServeAddr:      getEnv("METRICS_ADDR", ""),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		Environment:    getEnv("ENVIRONMENT", "development"),
		SessionRPM:     getEnvInt("SESSION_RPM", limiter.DefaultLimits().RequestsPerMinute),
		SessionBurst:   getEnvInt("SESSION_BURST", limiter.DefaultLimits().Burst),
		MaxSessions:    getEnvInt("MAX_SESSIONS", limiter.DefaultLimits().MaxSessions),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
