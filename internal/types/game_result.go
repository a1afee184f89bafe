package types

import (
	"time"

	"github.com/google/uuid"
)

// GameResult is the persisted record of a finished round, written after the
// session transitions to answered. The session store stays authoritative for
// gameplay; this table exists for history and difficulty statistics.
type GameResult struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GameID         string    `gorm:"uniqueIndex;not null;column:game_id" json:"game_id"`
	Difficulty     string    `gorm:"not null;column:difficulty" json:"difficulty"`
	ComplexityType string    `gorm:"not null;column:complexity_type" json:"complexity_type"`
	Source         string    `gorm:"not null;column:source" json:"source"`
	Correct        bool      `gorm:"column:correct" json:"correct"`
	PartialScore   float64   `gorm:"column:partial_score" json:"partial_score"`
	CircuitJSON    string    `gorm:"type:text;column:circuit_json" json:"circuit_json"`
	AnswerJSON     string    `gorm:"type:text;column:answer_json" json:"answer_json"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (GameResult) TableName() string {
	return "game_result"
}
