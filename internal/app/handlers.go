package app

import (
	"github.com/archassist/archgames-backend/internal/handlers"
	"github.com/archassist/archgames-backend/internal/logger"
)

type Handlers struct {
	LogicGame *handlers.LogicGameHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		LogicGame: handlers.NewLogicGameHandler(log, services.LogicGame),
	}
}
