package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/types"
)

var ErrResultNotFound = errors.New("game result not found")

type GameResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.GameResult) error
	GetByGameID(ctx context.Context, tx *gorm.DB, gameID string) (*types.GameResult, error)
	CountByDifficulty(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
}

type gameResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameResultRepo(db *gorm.DB, baseLog *logger.Logger) GameResultRepo {
	repoLog := baseLog.With("repo", "GameResultRepo")
	return &gameResultRepo{db: db, log: repoLog}
}

func (r *gameResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.GameResult) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(result).Error
}

func (r *gameResultRepo) GetByGameID(ctx context.Context, tx *gorm.DB, gameID string) (*types.GameResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.GameResult
	err := transaction.WithContext(ctx).
		Where("game_id = ?", gameID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *gameResultRepo) CountByDifficulty(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	type row struct {
		Difficulty string
		Count      int64
	}
	var rows []row
	err := transaction.WithContext(ctx).
		Model(&types.GameResult{}).
		Select("difficulty, count(*) as count").
		Group("difficulty").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Difficulty] = rw.Count
	}
	return out, nil
}
