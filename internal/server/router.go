package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/archassist/archgames-backend/internal/handlers"
	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/middleware"
)

type RouterConfig struct {
	Log              *logger.Logger
	ServiceName      string
	LogicGameHandler *handlers.LogicGameHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger(cfg.Log))

	r.GET("/healthcheck", handlers.HealthCheck)

	api := r.Group("/api")
	{
		games := api.Group("/games")
		if cfg.LogicGameHandler != nil {
			games.POST("/logic", cfg.LogicGameHandler.CreateGame)
			games.GET("/logic/:id", cfg.LogicGameHandler.GetGame)
			games.POST("/logic/:id/answer", cfg.LogicGameHandler.SubmitAnswer)
		}
	}

	return r
}
