package app

import (
	"github.com/gin-gonic/gin"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/server"
)

const serviceName = "archgames-backend"

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		LogicGameHandler: handlers.LogicGame,
	})
}
