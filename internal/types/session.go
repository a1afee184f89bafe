package types

import "time"

// CircuitSource records where a round's circuit came from.
type CircuitSource string

const (
	SourceGenerator CircuitSource = "generator"
	SourceFallback  CircuitSource = "fallback"
)

// EvaluationResult is produced once per session, at answer submission, and is
// immutable afterwards.
type EvaluationResult struct {
	Correct         bool              `json:"correct"`
	PartialScore    float64           `json:"partial_score"`
	Feedback        string            `json:"feedback"`
	ComponentDetail map[string]string `json:"component_detail,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// GameSession holds one circuit and its answer state. Created once at
// generation time, mutated exactly once when the first answer arrives.
type GameSession struct {
	ID         string            `json:"id"`
	Circuit    CircuitDescriptor `json:"circuit"`
	Question   string            `json:"question"`
	Source     CircuitSource     `json:"source"`
	Answered   bool              `json:"answered"`
	UserAnswer interface{}       `json:"user_answer,omitempty"`
	Result     *EvaluationResult `json:"result,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	AnsweredAt *time.Time        `json:"answered_at,omitempty"`
}
