package app

import (
	"gorm.io/gorm"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/repos"
)

type Repos struct {
	GameResult repos.GameResultRepo
}

// wireRepos tolerates a nil db: the game runs fine without result archiving.
func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	if db == nil {
		return Repos{}
	}
	log.Info("Wiring repos...")
	return Repos{
		GameResult: repos.NewGameResultRepo(db, log),
	}
}
