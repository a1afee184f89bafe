package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.GameResult{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newResult(gameID, difficulty string, correct bool) *types.GameResult {
	return &types.GameResult{
		ID:             uuid.New(),
		GameID:         gameID,
		Difficulty:     difficulty,
		ComplexityType: "single_output",
		Source:         "fallback",
		Correct:        correct,
		PartialScore:   1.0,
		CircuitJSON:    `{"pattern":["AND","XOR"]}`,
		AnswerJSON:     `1`,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestGameResultRepoCreateAndGet(t *testing.T) {
	repo := NewGameResultRepo(newTestDB(t), logger.NewNop())
	ctx := context.Background()

	if err := repo.Create(ctx, nil, newResult("logic_1", "easy", true)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByGameID(ctx, nil, "logic_1")
	if err != nil {
		t.Fatalf("GetByGameID: %v", err)
	}
	if got.GameID != "logic_1" || !got.Correct {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.GetByGameID(ctx, nil, "missing"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("want ErrResultNotFound, got %v", err)
	}
}

func TestGameResultRepoCountByDifficulty(t *testing.T) {
	repo := NewGameResultRepo(newTestDB(t), logger.NewNop())
	ctx := context.Background()

	for i, diff := range []string{"easy", "easy", "hard"} {
		if err := repo.Create(ctx, nil, newResult(uuid.NewString(), diff, i%2 == 0)); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	counts, err := repo.CountByDifficulty(ctx, nil)
	if err != nil {
		t.Fatalf("CountByDifficulty: %v", err)
	}
	if counts["easy"] != 2 || counts["hard"] != 1 {
		t.Fatalf("counts: %+v", counts)
	}
}
