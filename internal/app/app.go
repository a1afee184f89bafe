package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/archassist/archgames-backend/internal/db"
	"github.com/archassist/archgames-backend/internal/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	// Postgres only backs the result archive; without it the game still runs.
	var theDB *gorm.DB
	if strings.TrimSpace(os.Getenv("POSTGRES_HOST")) != "" {
		pg, err := db.NewPostgresService(log)
		if err != nil {
			log.Warn("Postgres init failed, result archiving disabled", "error", err)
		} else if err := pg.AutoMigrateAll(); err != nil {
			log.Warn("Postgres automigrate failed, result archiving disabled", "error", err)
		} else {
			theDB = pg.DB()
		}
	}

	reposet := wireRepos(theDB, log)
	sessions := wireSessionStore(log, cfg)

	serviceset, err := wireServices(log, cfg, reposet, sessions)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(log, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

// Start launches background work, currently just the expired-session sweeper.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.LogicGame != nil {
		a.Services.LogicGame.StartSweeper(ctx)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
