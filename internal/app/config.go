package app

import (
	"time"

	"github.com/archassist/archgames-backend/internal/circuit"
	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/utils"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	SessionTTL            time.Duration
	SweepInterval         time.Duration
	GeneratorMaxRetries   int
	PatternMatchThreshold float64
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	sessionTTLSeconds := utils.GetEnvAsInt("SESSION_TTL_SECONDS", 86400, log)
	sweepIntervalSeconds := utils.GetEnvAsInt("SWEEP_INTERVAL_SECONDS", 900, log)
	maxRetries := utils.GetEnvAsInt("GENERATOR_MAX_RETRIES", 2, log)
	threshold := utils.GetEnvAsFloat("PATTERN_MATCH_THRESHOLD", circuit.DefaultPatternMatchThreshold, log)
	return Config{
		Port:                  port,
		Environment:           environment,
		Version:               version,
		SessionTTL:            time.Duration(sessionTTLSeconds) * time.Second,
		SweepInterval:         time.Duration(sweepIntervalSeconds) * time.Second,
		GeneratorMaxRetries:   maxRetries,
		PatternMatchThreshold: threshold,
	}
}
