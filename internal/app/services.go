package app

import (
	"os"
	"strings"

	"github.com/archassist/archgames-backend/internal/circuit"
	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/services"
	"github.com/archassist/archgames-backend/internal/store"
)

type Services struct {
	LogicGame services.LogicGameService
}

func wireSessionStore(log *logger.Logger, cfg Config) store.SessionStore {
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		rs, err := store.NewRedisStore(log, cfg.SessionTTL)
		if err == nil {
			return rs
		}
		log.Warn("Redis session store init failed, using in-memory store", "error", err)
	}
	return store.NewMemoryStore(log)
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, sessions store.SessionStore) (Services, error) {
	log.Info("Wiring services...")

	generator, err := services.NewLLMGenerator(log)
	if err != nil {
		log.Warn("Circuit generator init failed, relying on fallback pool", "error", err)
		generator = nil
	}

	logicGame := services.NewLogicGameService(log, services.LogicGameConfig{
		MaxRetries:    cfg.GeneratorMaxRetries,
		SessionTTL:    cfg.SessionTTL,
		SweepInterval: cfg.SweepInterval,
		Evaluator:     circuit.EvaluatorConfig{PatternMatchThreshold: cfg.PatternMatchThreshold},
	}, generator, sessions, reposet.GameResult)

	return Services{LogicGame: logicGame}, nil
}
