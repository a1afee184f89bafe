package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/store"
	"github.com/archassist/archgames-backend/internal/types"
)

type stubGenerator struct {
	calls int
	fn    func(call int) (RawCircuit, error)
}

func (g *stubGenerator) GenerateCircuit(_ context.Context, _ types.ComplexityType, _ types.Difficulty) (RawCircuit, error) {
	g.calls++
	return g.fn(g.calls)
}

// validSingleOutputRaw is a well-formed easy candidate: AND(1,1)=1 then
// XOR(1,0)=1, so the expected final output is 1.
func validSingleOutputRaw() RawCircuit {
	return RawCircuit{
		"pattern": []interface{}{"AND", "XOR"},
		"input_values": []interface{}{
			[]interface{}{1.0, 1.0, 1.0},
			[]interface{}{1.0, 0.0, 1.0},
		},
	}
}

func newTestService(t *testing.T, gen CircuitGenerator, cfg LogicGameConfig) (LogicGameService, *store.MemoryStore) {
	t.Helper()
	sessions := store.NewMemoryStore(logger.NewNop())
	if cfg.FallbackSeed == 0 {
		cfg.FallbackSeed = 1
	}
	svc := NewLogicGameService(logger.NewNop(), cfg, gen, sessions, nil)
	return svc, sessions
}

func TestCreateGameUsesGeneratorCandidate(t *testing.T) {
	gen := &stubGenerator{fn: func(int) (RawCircuit, error) {
		return validSingleOutputRaw(), nil
	}}
	svc, _ := newTestService(t, gen, LogicGameConfig{MaxRetries: 2})

	view, err := svc.CreateGame(context.Background(), types.DifficultyEasy)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	if !strings.HasPrefix(view.GameID, "logic_") {
		t.Errorf("game id %q lacks logic_ prefix", view.GameID)
	}
	if view.ComplexityType != types.ComplexitySingleOutput {
		t.Errorf("complexity = %q, want single_output", view.ComplexityType)
	}
	if view.Answered {
		t.Error("fresh game is marked answered")
	}
	if len(view.InputValues) != 2 || len(view.InputValues[0]) != 2 {
		t.Fatalf("input_values = %v, want 2 rows of inputs only", view.InputValues)
	}
	if view.ExpectedShape["output"] != "?" {
		t.Errorf("expected_shape = %v, want hidden output placeholder", view.ExpectedShape)
	}
}

func TestCreateGameFallsBackAfterRetryBudget(t *testing.T) {
	tests := []struct {
		name string
		fn   func(call int) (RawCircuit, error)
	}{
		{"generator errors", func(int) (RawCircuit, error) {
			return nil, errors.New("upstream unavailable")
		}},
		{"unparseable candidates", func(int) (RawCircuit, error) {
			return RawCircuit{"pattern": []interface{}{"FROB"}}, nil
		}},
		{"inconsistent candidates", func(int) (RawCircuit, error) {
			// AND(1,1) recorded as 0.
			return RawCircuit{
				"pattern": []interface{}{"AND", "XOR"},
				"input_values": []interface{}{
					[]interface{}{1.0, 1.0, 0.0},
					[]interface{}{1.0, 0.0, 1.0},
				},
			}, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{fn: tt.fn}
			svc, _ := newTestService(t, gen, LogicGameConfig{MaxRetries: 2})

			view, err := svc.CreateGame(context.Background(), types.DifficultyMedium)
			if err != nil {
				t.Fatalf("CreateGame must absorb generator trouble, got %v", err)
			}
			if gen.calls != 3 {
				t.Errorf("generator calls = %d, want 1+MaxRetries = 3", gen.calls)
			}
			if view.ComplexityType != types.ComplexityMultipleCases {
				t.Errorf("complexity = %q, want multiple_cases", view.ComplexityType)
			}
			if len(view.TestCases) < 2 {
				t.Errorf("fallback circuit has %d test cases, want at least 2", len(view.TestCases))
			}
		})
	}
}

func TestCreateGamePatternAnalysisView(t *testing.T) {
	svc, _ := newTestService(t, nil, LogicGameConfig{})

	view, err := svc.CreateGame(context.Background(), types.DifficultyHard)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if view.ComplexityType != types.ComplexityPatternAnalysis {
		t.Fatalf("complexity = %q, want pattern_analysis", view.ComplexityType)
	}
	if view.SequenceLength < 6 {
		t.Errorf("sequence_length = %d, want >= 6", view.SequenceLength)
	}
	if len(view.SequencePrefix) != 2 {
		t.Errorf("sequence_prefix = %v, want exactly 2 elements", view.SequencePrefix)
	}
	shape, ok := view.ExpectedShape["pattern"].([]string)
	if !ok || len(shape) != view.SequenceLength {
		t.Errorf("expected_shape pattern = %v, want %d placeholders", view.ExpectedShape["pattern"], view.SequenceLength)
	}
	if view.ExpectedShape["cycle_length"] != "?" || view.ExpectedShape["final_state"] != "?" {
		t.Errorf("expected_shape = %v, components must stay hidden", view.ExpectedShape)
	}
}

func TestSubmitAnswerScoresAndReveals(t *testing.T) {
	gen := &stubGenerator{fn: func(int) (RawCircuit, error) {
		return validSingleOutputRaw(), nil
	}}
	svc, _ := newTestService(t, gen, LogicGameConfig{})

	view, err := svc.CreateGame(context.Background(), types.DifficultyEasy)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	answer, err := svc.SubmitAnswer(context.Background(), view.GameID, 1)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !answer.Correct {
		t.Errorf("correct answer scored as wrong: %+v", answer)
	}
	if answer.PartialScore != 1.0 || answer.ScorePercent != 100 {
		t.Errorf("score = %v (%v%%), want 1.0 (100%%)", answer.PartialScore, answer.ScorePercent)
	}
	if got := answer.Expected["output"]; got != 1 {
		t.Errorf("expected output revealed as %v, want 1", got)
	}

	got, err := svc.GetGame(context.Background(), view.GameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if !got.Answered {
		t.Error("session not marked answered after submission")
	}
}

func TestSubmitAnswerIsIdempotent(t *testing.T) {
	gen := &stubGenerator{fn: func(int) (RawCircuit, error) {
		return validSingleOutputRaw(), nil
	}}
	svc, _ := newTestService(t, gen, LogicGameConfig{})

	view, err := svc.CreateGame(context.Background(), types.DifficultyEasy)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	first, err := svc.SubmitAnswer(context.Background(), view.GameID, 0)
	if err != nil {
		t.Fatalf("first SubmitAnswer: %v", err)
	}
	if first.Correct {
		t.Fatal("wrong answer scored as correct")
	}

	// A later submission with the right answer cannot overturn the round.
	second, err := svc.SubmitAnswer(context.Background(), view.GameID, 1)
	if err != nil {
		t.Fatalf("second SubmitAnswer: %v", err)
	}
	if second.Correct || second.PartialScore != first.PartialScore {
		t.Errorf("resubmission changed the result: first %+v, second %+v", first, second)
	}
}

func TestSubmitAnswerUnknownGame(t *testing.T) {
	svc, _ := newTestService(t, nil, LogicGameConfig{})

	_, err := svc.SubmitAnswer(context.Background(), "logic_missing", 1)
	if !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSweeperRemovesExpiredSessions(t *testing.T) {
	svc, sessions := newTestService(t, nil, LogicGameConfig{
		SessionTTL:    time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
	})

	view, err := svc.CreateGame(context.Background(), types.DifficultyEasy)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartSweeper(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := sessions.Get(context.Background(), view.GameID); errors.Is(err, store.ErrSessionNotFound) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expired session was never swept")
}
