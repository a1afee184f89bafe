package circuit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/archassist/archgames-backend/internal/types"
)

// DefaultPatternMatchThreshold is the match fraction at which a submitted
// pattern sequence earns its component. Tunable, not a domain law.
const DefaultPatternMatchThreshold = 0.80

type EvaluatorConfig struct {
	// PatternMatchThreshold is the minimum element-wise match fraction for
	// the pattern component of a pattern_analysis answer to count as correct.
	PatternMatchThreshold float64
}

// Evaluator scores user answers against a stored descriptor. All three
// strategies are deterministic and side-effect free; malformed answers
// produce a result with Error set, never a panic. A wrong-shaped answer is a
// legitimate (losing) game move.
type Evaluator struct {
	threshold float64
}

func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	t := cfg.PatternMatchThreshold
	if t <= 0 || t > 1 {
		t = DefaultPatternMatchThreshold
	}
	return &Evaluator{threshold: t}
}

func (e *Evaluator) Evaluate(d types.CircuitDescriptor, answer interface{}) types.EvaluationResult {
	switch d.ComplexityType {
	case types.ComplexitySingleOutput:
		return e.evaluateSingle(d, answer)
	case types.ComplexityMultipleCases:
		return e.evaluateCases(d, answer)
	case types.ComplexityPatternAnalysis:
		return e.evaluatePattern(d, answer)
	}
	return failed(fmt.Sprintf("unknown complexity type %q", d.ComplexityType))
}

func (e *Evaluator) evaluateSingle(d types.CircuitDescriptor, answer interface{}) types.EvaluationResult {
	got, err := answerBit(answer)
	if err != nil {
		return failed(fmt.Sprintf("answer must be 0 or 1: %v", err))
	}
	correct := got == d.ExpectedOutput
	score := 0.0
	if correct {
		score = 1.0
	}
	return types.EvaluationResult{
		Correct:      correct,
		PartialScore: score,
		Feedback:     scoreFeedback(correct, score),
	}
}

func (e *Evaluator) evaluateCases(d types.CircuitDescriptor, answer interface{}) types.EvaluationResult {
	answers, ok := answer.(map[string]interface{})
	if !ok {
		return failed("answer must map each case id to an output value")
	}

	total := len(d.ExpectedOutputs)
	if total == 0 {
		return failed("session has no test cases")
	}

	detail := make(map[string]string, total)
	correctCount := 0
	for _, caseID := range sortedCaseIDs(d.ExpectedOutputs) {
		expected := d.ExpectedOutputs[caseID]
		raw, present := answers[caseID]
		if !present {
			detail[caseID] = "missing"
			continue
		}
		got, err := answerBit(raw)
		if err != nil {
			detail[caseID] = fmt.Sprintf("invalid (%v)", err)
			continue
		}
		if got == expected {
			detail[caseID] = "correct"
			correctCount++
		} else {
			detail[caseID] = fmt.Sprintf("incorrect (expected %d, got %d)", expected, got)
		}
	}

	score := float64(correctCount) / float64(total)
	correct := correctCount == total
	return types.EvaluationResult{
		Correct:         correct,
		PartialScore:    score,
		Feedback:        scoreFeedback(correct, score),
		ComponentDetail: detail,
	}
}

func (e *Evaluator) evaluatePattern(d types.CircuitDescriptor, answer interface{}) types.EvaluationResult {
	answers, ok := answer.(map[string]interface{})
	if !ok {
		return failed("answer must be an object with pattern, cycle_length and final_state")
	}

	detail := map[string]string{}
	correctCount := 0
	total := 3

	// Pattern sequence: element-wise tolerance, the other components exact.
	seqOK, note := e.matchSequence(d.Sequence, answers["pattern"])
	detail["pattern"] = note
	if seqOK {
		correctCount++
	}

	if matchExactInt(d.CycleLength, answers["cycle_length"], detail, "cycle_length") {
		correctCount++
	}
	if matchExactInt(d.FinalState, answers["final_state"], detail, "final_state") {
		correctCount++
	}

	score := float64(correctCount) / float64(total)
	correct := correctCount == total
	return types.EvaluationResult{
		Correct:         correct,
		PartialScore:    score,
		Feedback:        scoreFeedback(correct, score),
		ComponentDetail: detail,
	}
}

func (e *Evaluator) matchSequence(expected []int, raw interface{}) (bool, string) {
	if raw == nil {
		return false, "missing"
	}
	list, ok := raw.([]interface{})
	if !ok {
		return false, "not a sequence"
	}
	if len(list) != len(expected) {
		return false, fmt.Sprintf("wrong length (expected %d elements, got %d)", len(expected), len(list))
	}
	matches := 0
	for i, v := range list {
		got, err := answerBit(v)
		if err != nil {
			continue
		}
		if got == expected[i] {
			matches++
		}
	}
	fraction := float64(matches) / float64(len(expected))
	pct := fraction * 100
	if fraction >= e.threshold {
		return true, fmt.Sprintf("correct (%.1f%% accuracy)", pct)
	}
	return false, fmt.Sprintf("incorrect (%.1f%% accuracy)", pct)
}

func matchExactInt(expected int, raw interface{}, detail map[string]string, key string) bool {
	if raw == nil {
		detail[key] = "missing"
		return false
	}
	got, err := answerInt(raw)
	if err != nil {
		detail[key] = fmt.Sprintf("invalid (%v)", err)
		return false
	}
	if got == expected {
		detail[key] = "correct"
		return true
	}
	detail[key] = fmt.Sprintf("incorrect (expected %d, got %d)", expected, got)
	return false
}

// answerBit coerces a user-supplied value to 0 or 1. More lenient than the
// generator-side toBit: players may send numbers, bools or numeric strings.
func answerBit(v interface{}) (int, error) {
	i, err := answerInt(v)
	if err != nil {
		return 0, err
	}
	if i != 0 && i != 1 {
		return 0, fmt.Errorf("%d is not 0 or 1", i)
	}
	return i, nil
}

func answerInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		i := int(n)
		if float64(i) != n {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return i, nil
	case int:
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%v (%T) is not a number", v, v)
}

func failed(msg string) types.EvaluationResult {
	return types.EvaluationResult{
		Correct:      false,
		PartialScore: 0,
		Feedback:     "The answer could not be scored: " + msg,
		Error:        msg,
	}
}

func scoreFeedback(correct bool, score float64) string {
	switch {
	case correct:
		return "Excellent! You have shown a complete understanding of the logic gates."
	case score > 0.5:
		return "Good attempt. You understand the concept, but review the details of each gate."
	default:
		return "You need to review the truth tables of the basic gates."
	}
}

func sortedCaseIDs(m map[string]int) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
