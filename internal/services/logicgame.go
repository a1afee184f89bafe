package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/archassist/archgames-backend/internal/circuit"
	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/repos"
	"github.com/archassist/archgames-backend/internal/store"
	"github.com/archassist/archgames-backend/internal/types"
)

// GameView is what the client sees of a session. Expected values are held
// server-side: scalar answers are replaced by "?" placeholders and only the
// shapes of the hidden payloads go out.
type GameView struct {
	GameID         string                 `json:"game_id"`
	Difficulty     types.Difficulty       `json:"difficulty"`
	ComplexityType types.ComplexityType   `json:"complexity_type"`
	Pattern        []types.GateType       `json:"pattern"`
	Question       string                 `json:"question"`
	InputValues    [][]int                `json:"input_values,omitempty"`
	TestCases      map[string][][]int     `json:"test_cases,omitempty"`
	SequenceLength int                    `json:"sequence_length,omitempty"`
	SequencePrefix []int                  `json:"sequence_prefix,omitempty"`
	ExpectedShape  map[string]interface{} `json:"expected_shape"`
	Answered       bool                   `json:"answered"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AnswerView is the response to a submission. Expected values are revealed
// once the round is over.
type AnswerView struct {
	GameID          string                 `json:"game_id"`
	Correct         bool                   `json:"correct"`
	PartialScore    float64                `json:"partial_score"`
	ScorePercent    float64                `json:"score_percent"`
	Feedback        string                 `json:"feedback"`
	ComponentDetail map[string]string      `json:"component_detail,omitempty"`
	Error           string                 `json:"error,omitempty"`
	Expected        map[string]interface{} `json:"expected"`
}

type LogicGameService interface {
	CreateGame(ctx context.Context, difficulty types.Difficulty) (*GameView, error)
	GetGame(ctx context.Context, id string) (*GameView, error)
	SubmitAnswer(ctx context.Context, id string, answer interface{}) (*AnswerView, error)
	StartSweeper(ctx context.Context)
}

type LogicGameConfig struct {
	// MaxRetries is how many regeneration attempts follow a rejected first
	// candidate before the fallback pool takes over.
	MaxRetries    int
	SessionTTL    time.Duration
	SweepInterval time.Duration
	Evaluator     circuit.EvaluatorConfig
	FallbackSeed  int64
}

type logicGameService struct {
	log        *logger.Logger
	cfg        LogicGameConfig
	generator  CircuitGenerator
	fallback   *circuit.Supplier
	evaluator  *circuit.Evaluator
	sessions   store.SessionStore
	resultRepo repos.GameResultRepo
	tracer     trace.Tracer
}

// NewLogicGameService wires the engine together. resultRepo may be nil, in
// which case finished rounds are simply not archived.
func NewLogicGameService(
	log *logger.Logger,
	cfg LogicGameConfig,
	generator CircuitGenerator,
	sessions store.SessionStore,
	resultRepo repos.GameResultRepo,
) LogicGameService {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	seed := cfg.FallbackSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &logicGameService{
		log:        log.With("service", "LogicGameService"),
		cfg:        cfg,
		generator:  generator,
		fallback:   circuit.NewSupplier(seed),
		evaluator:  circuit.NewEvaluator(cfg.Evaluator),
		sessions:   sessions,
		resultRepo: resultRepo,
		tracer:     otel.Tracer("logicgame"),
	}
}

func (s *logicGameService) CreateGame(ctx context.Context, difficulty types.Difficulty) (*GameView, error) {
	ctx, span := s.tracer.Start(ctx, "LogicGameService.CreateGame")
	defer span.End()
	span.SetAttributes(attribute.String("game.difficulty", string(difficulty)))

	tier := difficulty.DefaultComplexity()
	descriptor, source := s.obtainCircuit(ctx, tier, difficulty)
	span.SetAttributes(
		attribute.String("game.complexity_type", string(tier)),
		attribute.String("game.circuit_source", string(source)),
	)

	session := &types.GameSession{
		ID:        "logic_" + uuid.NewString(),
		Circuit:   descriptor,
		Question:  questionFor(descriptor),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info("Logic game created",
		"game_id", session.ID,
		"difficulty", difficulty,
		"complexity_type", tier,
		"source", source,
	)
	return viewOf(session), nil
}

// obtainCircuit runs the bounded generate-parse-simulate-validate loop and
// falls through to the supplier. It never fails: generator trouble is logged
// and absorbed, the caller always gets a playable circuit. No store lock is
// held here; generation may block on network I/O.
func (s *logicGameService) obtainCircuit(ctx context.Context, tier types.ComplexityType, difficulty types.Difficulty) (types.CircuitDescriptor, types.CircuitSource) {
	if s.generator != nil {
		attempts := 1 + s.cfg.MaxRetries
		for attempt := 0; attempt < attempts; attempt++ {
			raw, err := s.generator.GenerateCircuit(ctx, tier, difficulty)
			if err != nil {
				s.log.Warn("Circuit generator failed",
					"attempt", attempt,
					"complexity_type", tier,
					"difficulty", difficulty,
					"error", err,
				)
				continue
			}
			d, err := circuit.ParseCandidate(raw, tier, difficulty)
			if err != nil {
				s.log.Warn("Generator candidate rejected at parse",
					"attempt", attempt,
					"complexity_type", tier,
					"difficulty", difficulty,
					"payload", compactJSON(raw),
					"error", err,
				)
				continue
			}
			if !circuit.Consistent(d) {
				s.log.Warn("Generator candidate is internally inconsistent",
					"attempt", attempt,
					"complexity_type", tier,
					"difficulty", difficulty,
					"payload", compactJSON(raw),
				)
				continue
			}
			if err := circuit.Validate(d); err != nil {
				s.log.Warn("Generator candidate rejected by validator",
					"attempt", attempt,
					"complexity_type", tier,
					"difficulty", difficulty,
					"payload", compactJSON(raw),
					"error", err,
				)
				continue
			}
			return d, types.SourceGenerator
		}
	}

	s.log.Info("Falling back to emergency circuit pool",
		"complexity_type", tier,
		"difficulty", difficulty,
	)
	return s.fallback.Supply(tier, difficulty), types.SourceFallback
}

func (s *logicGameService) GetGame(ctx context.Context, id string) (*GameView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

func (s *logicGameService) SubmitAnswer(ctx context.Context, id string, answer interface{}) (*AnswerView, error) {
	ctx, span := s.tracer.Start(ctx, "LogicGameService.SubmitAnswer")
	defer span.End()
	span.SetAttributes(attribute.String("game.id", id))

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Resubmission is an idempotent re-read: the first recorded result stays
	// authoritative no matter what the new answer says.
	if session.Answered {
		return answerViewOf(session), nil
	}

	result := s.evaluator.Evaluate(session.Circuit, answer)
	session, won, err := s.sessions.RecordAnswer(ctx, id, answer, result)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("game.transition_won", won),
		attribute.Bool("game.correct", session.Result.Correct),
	)

	if won {
		s.log.Info("Logic game answered",
			"game_id", id,
			"correct", session.Result.Correct,
			"partial_score", session.Result.PartialScore,
		)
		s.archive(ctx, session)
	}
	return answerViewOf(session), nil
}

func (s *logicGameService) archive(ctx context.Context, session *types.GameSession) {
	if s.resultRepo == nil {
		return
	}
	record := &types.GameResult{
		ID:             uuid.New(),
		GameID:         session.ID,
		Difficulty:     string(session.Circuit.Difficulty),
		ComplexityType: string(session.Circuit.ComplexityType),
		Source:         string(session.Source),
		Correct:        session.Result.Correct,
		PartialScore:   session.Result.PartialScore,
		CircuitJSON:    compactJSON(session.Circuit),
		AnswerJSON:     compactJSON(session.UserAnswer),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.resultRepo.Create(ctx, nil, record); err != nil {
		// Archival is best effort; gameplay already succeeded.
		s.log.Warn("Failed to archive game result", "game_id", session.ID, "error", err)
	}
}

// StartSweeper launches the age-based session sweep until ctx is done.
func (s *logicGameService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.sessions.Sweep(ctx, s.cfg.SessionTTL)
				if err != nil {
					s.log.Warn("Session sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					s.log.Info("Session sweep done", "removed", removed)
				}
			}
		}
	}()
}

func questionFor(d types.CircuitDescriptor) string {
	switch d.ComplexityType {
	case types.ComplexityMultipleCases:
		return fmt.Sprintf("Evaluate the circuit %s for each test case. What is the final output of each case?", d.PatternString())
	case types.ComplexityPatternAnalysis:
		return fmt.Sprintf("The gate pattern %s produces a repeating bit sequence of %d elements. Give the full sequence, its cycle length and its final state.", d.PatternString(), len(d.Sequence))
	default:
		return fmt.Sprintf("Apply the gate sequence %s to the recorded inputs. What is the final output?", d.PatternString())
	}
}

func viewOf(session *types.GameSession) *GameView {
	d := session.Circuit
	view := &GameView{
		GameID:         session.ID,
		Difficulty:     d.Difficulty,
		ComplexityType: d.ComplexityType,
		Pattern:        d.Pattern,
		Question:       session.Question,
		Answered:       session.Answered,
		CreatedAt:      session.CreatedAt,
	}

	switch d.ComplexityType {
	case types.ComplexitySingleOutput:
		view.InputValues = inputsOnly(d.InputValues)
		view.ExpectedShape = map[string]interface{}{"output": "?"}
	case types.ComplexityMultipleCases:
		view.TestCases = make(map[string][][]int, len(d.TestCases))
		hidden := make(map[string]interface{}, len(d.TestCases))
		for caseID, rows := range d.TestCases {
			view.TestCases[caseID] = inputsOnly(rows)
			hidden[caseID] = "?"
		}
		view.ExpectedShape = map[string]interface{}{"outputs": hidden}
	case types.ComplexityPatternAnalysis:
		view.SequenceLength = len(d.Sequence)
		if len(d.Sequence) >= 2 {
			view.SequencePrefix = append([]int(nil), d.Sequence[:2]...)
		}
		placeholders := make([]string, len(d.Sequence))
		for i := range placeholders {
			placeholders[i] = "?"
		}
		view.ExpectedShape = map[string]interface{}{
			"pattern":      placeholders,
			"cycle_length": "?",
			"final_state":  "?",
		}
	}
	return view
}

func answerViewOf(session *types.GameSession) *AnswerView {
	result := session.Result
	view := &AnswerView{
		GameID:          session.ID,
		Correct:         result.Correct,
		PartialScore:    result.PartialScore,
		ScorePercent:    result.PartialScore * 100,
		Feedback:        result.Feedback,
		ComponentDetail: result.ComponentDetail,
		Error:           result.Error,
	}

	d := session.Circuit
	switch d.ComplexityType {
	case types.ComplexityMultipleCases:
		view.Expected = map[string]interface{}{"outputs": d.ExpectedOutputs}
	case types.ComplexityPatternAnalysis:
		view.Expected = map[string]interface{}{
			"pattern":      d.Sequence,
			"cycle_length": d.CycleLength,
			"final_state":  d.FinalState,
		}
	default:
		view.Expected = map[string]interface{}{"output": d.ExpectedOutput}
	}
	return view
}

// inputsOnly strips the recorded outputs off each row: the player computes
// those.
func inputsOnly(rows []types.CircuitRow) [][]int {
	out := make([][]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, append([]int(nil), row.Inputs...))
	}
	return out
}

func compactJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
